package types

import "strings"

// RawProduct is one product record from a versioned price-list offer
// document: a flat bag of attribute strings tagged with the offer version
// it came from. Records are read-only once decoded.
type RawProduct struct {
	SKU        string            `json:"sku"`
	Version    string            `json:"version"`
	Family     string            `json:"product_family"`
	Attributes map[string]string `json:"attributes"`
}

// FoldedRecord is the merged attribute view for one fold key across all
// offer versions that mentioned it.
type FoldedRecord map[string]string

// Conflict records a non-mutable attribute that disagreed across versions
// for the same fold key. Values keeps every distinct value in discovery
// order; the folded record itself always holds the newest one.
type Conflict struct {
	Key       string   `json:"key" yaml:"key"`
	Attribute string   `json:"attribute" yaml:"attribute"`
	Values    []string `json:"values" yaml:"values"`
}

// AddValue appends v to the conflict's value set unless an equal value
// (case-insensitive) is already present.
func (c *Conflict) AddValue(v string) {
	for _, seen := range c.Values {
		if strings.EqualFold(seen, v) {
			return
		}
	}
	c.Values = append(c.Values, v)
}

// UnknownSet accumulates upstream strings that failed pattern extraction,
// keyed by the logical field that rejected them. Collecting an unknown is
// never an error; it marks data for operator review.
type UnknownSet map[string][]string

// Add records raw under field, dropping duplicates per field.
func (u UnknownSet) Add(field, raw string) {
	for _, seen := range u[field] {
		if seen == raw {
			return
		}
	}
	u[field] = append(u[field], raw)
}

// Merge unions other into u. Per-field value order follows u first, then
// other, so merging is deterministic for any fixed argument order and the
// resulting content is order-independent.
func (u UnknownSet) Merge(other UnknownSet) {
	for field, values := range other {
		for _, v := range values {
			u.Add(field, v)
		}
	}
}

// Empty reports whether no unknown values were collected.
func (u UnknownSet) Empty() bool {
	return len(u) == 0
}

// Total returns the number of recorded values across all fields.
func (u UnknownSet) Total() int {
	n := 0
	for _, values := range u {
		n += len(values)
	}
	return n
}
