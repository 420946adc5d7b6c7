// Package collect orchestrates one catalog collection run: pull versioned
// price lists, fold them, parse the folded attributes, and build the
// ordered catalog with its diagnostic report.
package collect

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yairfalse/kalusto/internal/catalog"
	"github.com/yairfalse/kalusto/internal/logger"
	"github.com/yairfalse/kalusto/internal/pricelist"
	"github.com/yairfalse/kalusto/internal/product"
	"github.com/yairfalse/kalusto/pkg/types"
)

// Options tunes one collection run.
type Options struct {
	// FoldKeys identify the same logical product across versions.
	FoldKeys []string

	// Mutable attributes may change between versions without a conflict.
	Mutable map[string]bool

	// Wanted restricts which attributes are folded. Empty keeps all.
	Wanted map[string]bool

	// Families is the product-family allow-list.
	Families map[string]bool

	// MaxVersions caps how many of the newest versions are folded.
	// Zero folds everything.
	MaxVersions int
}

// DefaultOptions returns the standard EC2 collection setup.
func DefaultOptions() Options {
	return Options{
		FoldKeys: []string{product.AttrInstanceType},
		Mutable: map[string]bool{
			// Flips Yes -> No as generations age; not a data conflict.
			product.AttrCurrentGeneration: true,
		},
		Wanted: map[string]bool{
			product.AttrInstanceType:       true,
			product.AttrMemory:             true,
			product.AttrStorage:            true,
			product.AttrVCPU:               true,
			product.AttrArchitecture:       true,
			product.AttrNetwork:            true,
			product.AttrCurrentGeneration:  true,
			product.AttrProcessorFeatures:  true,
			product.AttrAVX:                true,
			product.AttrAVX2:               true,
			product.AttrTurbo:              true,
			product.AttrEBSOptimized:       true,
			product.AttrEnhancedNetworking: true,
		},
		Families: map[string]bool{"Compute Instance": true},
	}
}

// Pipeline runs collections against a version source and an order source.
type Pipeline struct {
	source pricelist.VersionSource
	order  catalog.OrderSource
	log    logger.Logger
	opts   Options
}

// New creates a pipeline.
func New(source pricelist.VersionSource, order catalog.OrderSource, log logger.Logger, opts Options) *Pipeline {
	if len(opts.FoldKeys) == 0 {
		opts.FoldKeys = []string{product.AttrInstanceType}
	}
	return &Pipeline{source: source, order: order, log: log, opts: opts}
}

// Run executes one collection. Conflicts and unknown values never fail the
// run; they are collected into the report. Structural problems (missing
// fold keys, an empty canonical order, fetch failures) do fail it.
func (p *Pipeline) Run(ctx context.Context) (*types.Catalog, *types.CollectReport, error) {
	report := &types.CollectReport{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Unknown:   make(types.UnknownSet),
	}

	versions, err := p.source.ListVersions(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list price list versions: %w", err)
	}
	if p.opts.MaxVersions > 0 && len(versions) > p.opts.MaxVersions {
		versions = versions[len(versions)-p.opts.MaxVersions:]
	}
	report.Versions = versions

	var records []types.RawProduct
	for _, version := range versions {
		products, err := p.source.FetchProducts(ctx, version)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to fetch products for version %s: %w", version, err)
		}
		p.log.WithFields(map[string]interface{}{
			"version":  version,
			"products": len(products),
		}).Debug("fetched price list version")
		records = append(records, products...)
	}
	report.ProductCount = len(records)

	folded, conflicts, err := product.Fold(records, product.FoldOptions{
		Keys:     p.opts.FoldKeys,
		Mutable:  p.opts.Mutable,
		Wanted:   p.opts.Wanted,
		Families: p.opts.Families,
	})
	if err != nil {
		return nil, nil, err
	}
	report.Conflicts = conflicts

	parsed := make(map[string]types.InstanceType, len(folded))
	for key, rec := range folded {
		it, unknown := product.Parse(key, rec)
		parsed[key] = it
		report.Unknown.Merge(unknown)
	}
	report.InstanceCount = len(parsed)

	cat, unlisted, err := catalog.Build(parsed, p.order.InstanceTypeOrder())
	if err != nil {
		return nil, nil, err
	}
	report.Unlisted = unlisted

	p.log.WithFields(map[string]interface{}{
		"instance_types": len(cat.Entries),
		"conflicts":      len(report.Conflicts),
		"unknown_values": report.Unknown.Total(),
		"unlisted":       len(report.Unlisted),
	}).Info("collection complete")

	return cat, report, nil
}
