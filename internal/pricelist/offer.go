package pricelist

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/yairfalse/kalusto/pkg/types"
)

// offerDocument is the subset of the bulk offer file we read. Pricing
// terms are ignored; only the product attribute bags matter here.
type offerDocument struct {
	Version  string                  `json:"version"`
	Products map[string]offerProduct `json:"products"`
}

type offerProduct struct {
	SKU           string            `json:"sku"`
	ProductFamily string            `json:"productFamily"`
	Attributes    map[string]string `json:"attributes"`
}

// versionIndex is the offer version index document.
type versionIndex struct {
	Versions map[string]versionEntry `json:"versions"`
}

type versionEntry struct {
	OfferVersionURL string `json:"offerVersionUrl"`
}

// DecodeOffer parses a bulk offer document into raw product records tagged
// with the given version. Records come back in SKU order so downstream
// folding sees a deterministic sequence.
func DecodeOffer(data []byte, version string) ([]types.RawProduct, error) {
	var doc offerDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode offer document for version %s: %w", version, err)
	}

	skus := make([]string, 0, len(doc.Products))
	for sku := range doc.Products {
		skus = append(skus, sku)
	}
	sort.Strings(skus)

	records := make([]types.RawProduct, 0, len(skus))
	for _, sku := range skus {
		p := doc.Products[sku]
		if p.Attributes == nil {
			continue
		}
		records = append(records, types.RawProduct{
			SKU:        sku,
			Version:    version,
			Family:     p.ProductFamily,
			Attributes: p.Attributes,
		})
	}
	return records, nil
}

func decodeVersionIndex(data []byte) (*versionIndex, error) {
	var idx versionIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("failed to decode version index: %w", err)
	}
	return &idx, nil
}
