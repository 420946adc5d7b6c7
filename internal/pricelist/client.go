package pricelist

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/pricing"

	"github.com/yairfalse/kalusto/internal/cache"
	"github.com/yairfalse/kalusto/internal/logger"
	"github.com/yairfalse/kalusto/pkg/types"
)

const (
	// DefaultBaseURL is the public bulk price-list endpoint.
	DefaultBaseURL = "https://pricing.us-east-1.amazonaws.com"

	// DefaultServiceCode selects the EC2 offer.
	DefaultServiceCode = "AmazonEC2"

	defaultCurrency = "USD"

	// The Price List API accepts "json" or "csv" as plain strings.
	fileFormatJSON = "json"
)

// PricingAPI is the slice of the AWS Price List API the client uses.
type PricingAPI interface {
	ListPriceLists(ctx context.Context, params *pricing.ListPriceListsInput, optFns ...func(*pricing.Options)) (*pricing.ListPriceListsOutput, error)
	GetPriceListFileUrl(ctx context.Context, params *pricing.GetPriceListFileUrlInput, optFns ...func(*pricing.Options)) (*pricing.GetPriceListFileUrlOutput, error)
}

// Config holds price-list client settings.
type Config struct {
	BaseURL     string
	ServiceCode string
	Region      string
	Currency    string
}

// Client implements VersionSource against the AWS bulk price-list
// endpoint, with the Price List API resolving the region-scoped current
// offer. Fetched documents are cached by a key derived from service code
// and version, so re-collecting an already-seen version stays offline.
type Client struct {
	api    PricingAPI
	httpc  *http.Client
	blobs  cache.BlobCache
	log    logger.Logger
	config Config

	mu    sync.Mutex
	index *versionIndex
}

// NewClient creates a price-list client. api may be nil when only the bulk
// endpoint is used; blobs may be nil to disable caching.
func NewClient(api PricingAPI, httpc *http.Client, blobs cache.BlobCache, log logger.Logger, config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.ServiceCode == "" {
		config.ServiceCode = DefaultServiceCode
	}
	if config.Currency == "" {
		config.Currency = defaultCurrency
	}
	if httpc == nil {
		httpc = http.DefaultClient
	}
	return &Client{
		api:    api,
		httpc:  httpc,
		blobs:  blobs,
		log:    log,
		config: config,
	}
}

// ListVersions returns all published offer versions, oldest first. Version
// identifiers are timestamps, so lexicographic order is chronological.
func (c *Client) ListVersions(ctx context.Context) ([]string, error) {
	idx, err := c.versionIndex(ctx)
	if err != nil {
		return nil, err
	}

	versions := make([]string, 0, len(idx.Versions))
	for v := range idx.Versions {
		versions = append(versions, v)
	}
	sort.Strings(versions)
	return versions, nil
}

// FetchProducts downloads and decodes the offer document for one version,
// serving repeats from the blob cache.
func (c *Client) FetchProducts(ctx context.Context, version string) ([]types.RawProduct, error) {
	key := cache.Key(c.config.ServiceCode, version)
	if c.blobs != nil {
		if data, ok := c.blobs.Get(key); ok {
			c.logf("price list served from cache", version)
			return DecodeOffer(data, version)
		}
	}

	idx, err := c.versionIndex(ctx)
	if err != nil {
		return nil, err
	}
	entry, ok := idx.Versions[version]
	if !ok {
		return nil, fmt.Errorf("unknown price list version %q", version)
	}

	data, err := c.fetch(ctx, c.config.BaseURL+entry.OfferVersionURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch offer version %s: %w", version, err)
	}

	if c.blobs != nil {
		if err := c.blobs.Put(key, data); err != nil {
			c.logf("failed to cache offer document", version)
		}
	}

	return DecodeOffer(data, version)
}

// CurrentPriceListURL resolves the download URL of the current
// region-scoped price list through the Price List API. Requires the
// client to have been built with a PricingAPI and a region.
func (c *Client) CurrentPriceListURL(ctx context.Context) (string, error) {
	if c.api == nil {
		return "", fmt.Errorf("pricing API client not configured")
	}
	if c.config.Region == "" {
		return "", fmt.Errorf("region not configured for current price list lookup")
	}

	out, err := c.api.ListPriceLists(ctx, &pricing.ListPriceListsInput{
		ServiceCode:   aws.String(c.config.ServiceCode),
		CurrencyCode:  aws.String(c.config.Currency),
		RegionCode:    aws.String(c.config.Region),
		EffectiveDate: aws.Time(time.Now()),
	})
	if err != nil {
		return "", fmt.Errorf("failed to list price lists: %w", err)
	}
	if len(out.PriceLists) == 0 {
		return "", fmt.Errorf("no price list published for service %s in region %s", c.config.ServiceCode, c.config.Region)
	}

	urlOut, err := c.api.GetPriceListFileUrl(ctx, &pricing.GetPriceListFileUrlInput{
		PriceListArn: out.PriceLists[0].PriceListArn,
		FileFormat:   aws.String(fileFormatJSON),
	})
	if err != nil {
		return "", fmt.Errorf("failed to resolve price list file url: %w", err)
	}
	return aws.ToString(urlOut.Url), nil
}

func (c *Client) versionIndex(ctx context.Context) (*versionIndex, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.index != nil {
		return c.index, nil
	}

	url := fmt.Sprintf("%s/offers/v1.0/aws/%s/index.json", c.config.BaseURL, c.config.ServiceCode)
	data, err := c.fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch version index: %w", err)
	}

	idx, err := decodeVersionIndex(data)
	if err != nil {
		return nil, err
	}
	c.index = idx
	return idx, nil
}

func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) logf(msg, version string) {
	if c.log != nil {
		c.log.WithField("version", version).Info(msg)
	}
}
