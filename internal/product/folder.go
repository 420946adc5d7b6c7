// Package product implements the price-list normalization core: folding
// versioned product records into one view per instance type, and parsing
// the folded attribute strings into typed descriptors.
package product

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yairfalse/kalusto/pkg/types"
)

// ErrMissingFoldKey marks records lacking a fold-key attribute. This is a
// structural defect in the upstream document, not a soft parse failure.
var ErrMissingFoldKey = errors.New("missing required fold key attribute")

// FoldOptions controls how raw records are grouped and merged.
type FoldOptions struct {
	// Keys are the attribute names whose values identify "the same logical
	// product" across versions. Usually just the instance-type attribute.
	Keys []string

	// Mutable attributes may differ between versions without being
	// reported as conflicts (prices, timestamps, free-form notes).
	Mutable map[string]bool

	// Wanted filters which attributes are carried into the folded record.
	// Empty means keep everything.
	Wanted map[string]bool

	// Families is the product-family allow-list; records outside it are
	// skipped before folding.
	Families map[string]bool
}

// Fold merges records, assumed sorted oldest version first, into one
// FoldedRecord per fold key. The newest value always wins; a non-mutable
// attribute that disagrees (case-insensitively) between versions is
// reported as a Conflict carrying every distinct value seen. Folding never
// fails on conflicting data, only on records missing a fold-key attribute.
func Fold(records []types.RawProduct, opts FoldOptions) (map[string]types.FoldedRecord, []types.Conflict, error) {
	folded := make(map[string]types.FoldedRecord)
	var conflicts []types.Conflict
	conflictIdx := make(map[string]int) // key+attribute -> index into conflicts

	for _, rec := range records {
		if len(opts.Families) > 0 && !opts.Families[rec.Family] {
			continue
		}

		key, err := foldKey(rec, opts.Keys)
		if err != nil {
			return nil, nil, err
		}

		acc, ok := folded[key]
		if !ok {
			acc = make(types.FoldedRecord)
			folded[key] = acc
		}

		for attr, value := range rec.Attributes {
			if len(opts.Wanted) > 0 && !opts.Wanted[attr] {
				continue
			}
			prev, seen := acc[attr]
			if seen && !strings.EqualFold(prev, value) && !opts.Mutable[attr] {
				ck := key + "\x00" + attr
				idx, exists := conflictIdx[ck]
				if !exists {
					conflicts = append(conflicts, types.Conflict{Key: key, Attribute: attr})
					idx = len(conflicts) - 1
					conflictIdx[ck] = idx
					conflicts[idx].AddValue(prev)
				}
				conflicts[idx].AddValue(value)
			}
			acc[attr] = value
		}
	}

	return folded, conflicts, nil
}

// foldKey reads the key attributes from rec and joins them.
func foldKey(rec types.RawProduct, keys []string) (string, error) {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v, ok := rec.Attributes[k]
		if !ok {
			return "", fmt.Errorf("record %s (version %s): %w %q", rec.SKU, rec.Version, ErrMissingFoldKey, k)
		}
		parts = append(parts, v)
	}
	return strings.Join(parts, "/"), nil
}
