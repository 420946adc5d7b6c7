// Package catalog assembles parsed instance types into the final ordered
// catalog, using the EC2 API model as the authoritative ordering.
package catalog

import (
	"errors"
	"sort"
	"time"

	"github.com/yairfalse/kalusto/pkg/types"
)

// ErrEmptyOrder is returned when the canonical order source yields
// nothing; without it no deterministic catalog can be produced.
var ErrEmptyOrder = errors.New("canonical instance-type order is empty")

// Build places parsed instance types into canonical order. Types the order
// list does not mention are not dropped: they sort after every listed
// entry, alphabetically among themselves, and come back in the second
// return value for operator review. Output is deterministic for identical
// inputs.
func Build(parsed map[string]types.InstanceType, order []string) (*types.Catalog, []string, error) {
	if len(order) == 0 {
		return nil, nil, ErrEmptyOrder
	}

	rank := make(map[string]int, len(order))
	for i, name := range order {
		if _, seen := rank[name]; !seen {
			rank[name] = i
		}
	}

	names := make([]string, 0, len(parsed))
	var unlisted []string
	for name := range parsed {
		names = append(names, name)
		if _, listed := rank[name]; !listed {
			unlisted = append(unlisted, name)
		}
	}

	sort.Slice(names, func(i, j int) bool {
		ri, iListed := rank[names[i]]
		rj, jListed := rank[names[j]]
		switch {
		case iListed && jListed:
			return ri < rj
		case iListed:
			return true
		case jListed:
			return false
		default:
			return names[i] < names[j]
		}
	})
	sort.Strings(unlisted)

	cat := &types.Catalog{
		GeneratedAt: time.Now().UTC(),
		Entries:     make([]types.CatalogEntry, 0, len(names)),
	}
	for _, name := range names {
		cat.Entries = append(cat.Entries, types.CatalogEntry{
			Name:         name,
			InstanceType: parsed[name],
		})
	}

	return cat, unlisted, nil
}
