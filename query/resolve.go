// Package query answers "how far apart are airports A and B, and where do
// they sit on the map".
package query

import (
	"errors"
	"fmt"
	"strings"

	"github.com/thomhuang/AirportDistance/airport"
	"github.com/thomhuang/AirportDistance/geo"
)

// Side marks which input of a query failed to resolve.
type Side uint8

const (
	SideA Side = 1 << iota
	SideB

	Both = SideA | SideB
)

func (s Side) String() string {
	switch s {
	case SideA:
		return "A"
	case SideB:
		return "B"
	case Both:
		return "A and B"
	}
	return "none"
}

// UnresolvedError names the code(s) that have no airport in the registry.
type UnresolvedError struct {
	Sides Side
	Codes []string
}

func (e *UnresolvedError) Error() string {
	quoted := make([]string, len(e.Codes))
	for i, c := range e.Codes {
		quoted[i] = fmt.Sprintf("%q", c)
	}
	return fmt.Sprintf("unknown airport %s", strings.Join(quoted, " and "))
}

func (e *UnresolvedError) Is(target error) bool {
	return target == airport.ErrNotFound
}

type Result struct {
	From       airport.Airport `json:"from"`
	To         airport.Airport `json:"to"`
	DistanceKm float64         `json:"distance_km"`
	Distance   geo.Distance    `json:"distance"`
	FromPoint  geo.Point       `json:"from_point"`
	ToPoint    geo.Point       `json:"to_point"`
}

// Registry is the lookup side of *airport.Registry.
type Registry interface {
	Lookup(code string) (airport.Airport, error)
}

type Resolver struct {
	registry  Registry
	projector *geo.Projector
	unit      geo.Unit
}

// NewResolver reports distances in unit; anything other than geo.Miles is
// treated as kilometers.
func NewResolver(registry Registry, projector *geo.Projector, unit geo.Unit) *Resolver {
	return &Resolver{registry: registry, projector: projector, unit: unit}
}

func (r *Resolver) Unit() geo.Unit {
	return r.unit
}

// Resolve looks up both codes. If either is missing the error is an
// *UnresolvedError naming only the missing ones; other lookup errors are
// returned as-is.
func (r *Resolver) Resolve(codeA, codeB string) (Result, error) {
	return r.ResolveIn(codeA, codeB, r.unit)
}

// ResolveIn is Resolve with a per-call display unit.
func (r *Resolver) ResolveIn(codeA, codeB string, unit geo.Unit) (Result, error) {
	from, errA := r.registry.Lookup(codeA)
	to, errB := r.registry.Lookup(codeB)

	var unresolved UnresolvedError
	for _, lookup := range []struct {
		side Side
		code string
		err  error
	}{
		{SideA, codeA, errA},
		{SideB, codeB, errB},
	} {
		if lookup.err == nil {
			continue
		}
		if !errors.Is(lookup.err, airport.ErrNotFound) {
			return Result{}, fmt.Errorf("lookup %q: %w", lookup.code, lookup.err)
		}
		unresolved.Sides |= lookup.side
		unresolved.Codes = append(unresolved.Codes, lookup.code)
	}
	if unresolved.Sides != 0 {
		return Result{}, &unresolved
	}

	km := geo.Between(from.Coord(), to.Coord())
	return Result{
		From:       from,
		To:         to,
		DistanceKm: km,
		Distance:   geo.FromKm(km, unit),
		FromPoint:  r.projector.Project(from.Latitude, from.Longitude),
		ToPoint:    r.projector.Project(to.Latitude, to.Longitude),
	}, nil
}
