package airport

import (
	"slices"
	"strings"
)

// Registry is the immutable, code-sorted collection of airports. It is safe
// for concurrent use once returned by Load or LoadSkipping.
type Registry struct {
	airports []Airport
	keys     []string // normalized codes, parallel to airports
	index    *spatialIndex
}

// Load parses every row and fails on the first malformed one. The first row
// is not treated as a header; strip it before calling.
func Load(rows [][]string) (*Registry, error) {
	airports := make([]Airport, 0, len(rows))
	for i, row := range rows {
		a, err := ParseRecord(i, row)
		if err != nil {
			return nil, err
		}
		airports = append(airports, a)
	}
	return build(airports), nil
}

// LoadSkipping drops malformed rows instead of failing, reporting each one
// to onSkip when it is non-nil.
func LoadSkipping(rows [][]string, onSkip func(error)) *Registry {
	airports := make([]Airport, 0, len(rows))
	for i, row := range rows {
		a, err := ParseRecord(i, row)
		if err != nil {
			if onSkip != nil {
				onSkip(err)
			}
			continue
		}
		airports = append(airports, a)
	}
	return build(airports)
}

func build(airports []Airport) *Registry {
	type entry struct {
		key     string
		airport Airport
	}

	entries := make([]entry, len(airports))
	for i, a := range airports {
		entries[i] = entry{key: normalize(a.Code), airport: a}
	}
	// stable, so duplicate codes keep input order
	slices.SortStableFunc(entries, func(a, b entry) int {
		return strings.Compare(a.key, b.key)
	})

	r := &Registry{
		airports: make([]Airport, len(entries)),
		keys:     make([]string, len(entries)),
	}
	for i, e := range entries {
		r.airports[i] = e.airport
		r.keys[i] = e.key
	}
	r.index = newSpatialIndex(r.airports)
	return r
}

// Lookup finds code case-insensitively. With duplicate codes the first one
// loaded wins.
func (r *Registry) Lookup(code string) (Airport, error) {
	key := normalize(code)
	i, found := slices.BinarySearch(r.keys, key)
	if !found || key == "" {
		return Airport{}, &NotFoundError{Code: code}
	}
	return r.airports[i], nil
}

func (r *Registry) Len() int {
	return len(r.airports)
}

// All returns a copy of the airports in sorted order.
func (r *Registry) All() []Airport {
	return slices.Clone(r.airports)
}
