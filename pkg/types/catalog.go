package types

import "time"

// CatalogEntry pairs an instance-type name with its parsed descriptor.
// Entries live in a slice, not a map, so catalog order survives
// serialization.
type CatalogEntry struct {
	Name         string       `json:"name" yaml:"name"`
	InstanceType InstanceType `json:"instance_type" yaml:"instance_type"`
}

// Catalog is the ordered canonical instance-type catalog produced by one
// collect run.
type Catalog struct {
	GeneratedAt time.Time      `json:"generated_at" yaml:"generated_at"`
	Entries     []CatalogEntry `json:"entries" yaml:"entries"`
}

// Lookup returns the entry for name, if present.
func (c *Catalog) Lookup(name string) (InstanceType, bool) {
	for _, e := range c.Entries {
		if e.Name == name {
			return e.InstanceType, true
		}
	}
	return InstanceType{}, false
}

// Names returns entry names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.Entries))
	for i, e := range c.Entries {
		names[i] = e.Name
	}
	return names
}

// CollectReport is the diagnostic side channel of a collect run: what
// disagreed across versions, what failed pattern extraction, and which
// parsed types the API model does not list. None of these are errors; the
// caller decides how to surface them.
type CollectReport struct {
	RunID         string     `json:"run_id" yaml:"run_id"`
	StartedAt     time.Time  `json:"started_at" yaml:"started_at"`
	Versions      []string   `json:"versions" yaml:"versions"`
	ProductCount  int        `json:"product_count" yaml:"product_count"`
	InstanceCount int        `json:"instance_count" yaml:"instance_count"`
	Conflicts     []Conflict `json:"conflicts" yaml:"conflicts"`
	Unknown       UnknownSet `json:"unknown_values" yaml:"unknown_values"`
	Unlisted      []string   `json:"unlisted_types" yaml:"unlisted_types"`
}

// Clean reports whether the run produced no diagnostics at all.
func (r *CollectReport) Clean() bool {
	return len(r.Conflicts) == 0 && r.Unknown.Empty() && len(r.Unlisted) == 0
}
