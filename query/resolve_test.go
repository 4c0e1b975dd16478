package query

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/thomhuang/AirportDistance/airport"
	"github.com/thomhuang/AirportDistance/geo"
)

func newResolver(t *testing.T, unit geo.Unit) *Resolver {
	t.Helper()

	reg, err := airport.Load([][]string{
		{"0.0", "0.0", "EQA"},
		{"1.0", "0.0", "EQB"},
		{"120.0", "50.5", "ref"},
	})
	if err != nil {
		t.Fatal(err)
	}
	proj, err := geo.NewProjector(geo.ReferenceCalibration())
	if err != nil {
		t.Fatal(err)
	}
	return NewResolver(reg, proj, unit)
}

func TestResolveEquatorPair(t *testing.T) {
	r := newResolver(t, geo.Miles)

	res, err := r.Resolve("EQA", "eqb")
	if err != nil {
		t.Fatal(err)
	}
	wantKm := geo.EarthRadiusKm * math.Pi / 180
	if math.Abs(res.DistanceKm-wantKm) > 1e-6 {
		t.Errorf("DistanceKm = %v, want %v", res.DistanceKm, wantKm)
	}
	if res.Distance.Unit != geo.Miles {
		t.Errorf("Distance.Unit = %q, want mi", res.Distance.Unit)
	}
	if math.Abs(res.Distance.Value-wantKm*geo.KmToMi) > 1e-6 {
		t.Errorf("Distance.Value = %v, want %v", res.Distance.Value, wantKm*geo.KmToMi)
	}
	if res.From.Code != "EQA" || res.To.Code != "EQB" {
		t.Errorf("From/To = %s/%s", res.From.Code, res.To.Code)
	}

	// reference calibration: x = (120 - lat) * 387/50 + 64, y = (50.5 - lon) * 244/25 + 44
	wantA := geo.Point{X: 120*387.0/50.0 + 64, Y: 50.5*244.0/25.0 + 44}
	if math.Abs(res.FromPoint.X-wantA.X) > 1e-9 || math.Abs(res.FromPoint.Y-wantA.Y) > 1e-9 {
		t.Errorf("FromPoint = %+v, want %+v", res.FromPoint, wantA)
	}
}

func TestResolveKilometers(t *testing.T) {
	r := newResolver(t, geo.Kilometers)
	res, err := r.Resolve("EQA", "EQB")
	if err != nil {
		t.Fatal(err)
	}
	if res.Distance.Unit != geo.Kilometers || res.Distance.Value != res.DistanceKm {
		t.Fatalf("Distance = %+v, want %v km", res.Distance, res.DistanceKm)
	}

	res, err = r.ResolveIn("EQA", "EQB", geo.Miles)
	if err != nil {
		t.Fatal(err)
	}
	if res.Distance.Unit != geo.Miles {
		t.Fatalf("ResolveIn unit = %q, want mi", res.Distance.Unit)
	}
}

func TestResolveZeroProjectedCoordinateIsNotMissing(t *testing.T) {
	cal := geo.ReferenceCalibration()
	cal.OffsetX, cal.OffsetY = 0, 0
	proj, err := geo.NewProjector(cal)
	if err != nil {
		t.Fatal(err)
	}
	reg, err := airport.Load([][]string{{"120", "50.5", "ORG"}, {"0", "0", "EQA"}})
	if err != nil {
		t.Fatal(err)
	}

	res, err := NewResolver(reg, proj, geo.Miles).Resolve("ORG", "EQA")
	if err != nil {
		t.Fatalf("airport projecting to (0, 0) treated as unresolved: %v", err)
	}
	if res.FromPoint != (geo.Point{}) {
		t.Fatalf("FromPoint = %+v, want origin", res.FromPoint)
	}
}

func TestResolveUnresolved(t *testing.T) {
	r := newResolver(t, geo.Miles)

	tests := []struct {
		a, b  string
		sides Side
		codes []string
	}{
		{"EQA", "ZZZ", SideB, []string{"ZZZ"}},
		{"QQQ", "EQB", SideA, []string{"QQQ"}},
		{"QQQ", "ZZZ", Both, []string{"QQQ", "ZZZ"}},
		{"", "EQA", SideA, []string{""}},
	}
	for _, tt := range tests {
		res, err := r.Resolve(tt.a, tt.b)
		var ue *UnresolvedError
		if !errors.As(err, &ue) {
			t.Errorf("Resolve(%q, %q) error = %v, want *UnresolvedError", tt.a, tt.b, err)
			continue
		}
		if ue.Sides != tt.sides {
			t.Errorf("Resolve(%q, %q) sides = %v, want %v", tt.a, tt.b, ue.Sides, tt.sides)
		}
		if !slices.Equal(ue.Codes, tt.codes) {
			t.Errorf("Resolve(%q, %q) codes = %v, want %v", tt.a, tt.b, ue.Codes, tt.codes)
		}
		if !errors.Is(err, airport.ErrNotFound) {
			t.Errorf("Resolve(%q, %q) error does not match airport.ErrNotFound", tt.a, tt.b)
		}
		if res != (Result{}) {
			t.Errorf("Resolve(%q, %q) leaked data on failure: %+v", tt.a, tt.b, res)
		}
	}
}

func TestUnresolvedErrorMessage(t *testing.T) {
	err := &UnresolvedError{Sides: Both, Codes: []string{"AAA", "BBB"}}
	if got := err.Error(); got != `unknown airport "AAA" and "BBB"` {
		t.Fatalf("Error() = %q", got)
	}
	if Both.String() != "A and B" || SideB.String() != "B" {
		t.Fatal("unexpected Side strings")
	}
}

type brokenRegistry struct{}

func (brokenRegistry) Lookup(string) (airport.Airport, error) {
	return airport.Airport{}, errors.New("registry unavailable")
}

func TestResolvePassesThroughOtherErrors(t *testing.T) {
	proj, err := geo.NewProjector(geo.ReferenceCalibration())
	if err != nil {
		t.Fatal(err)
	}
	_, err = NewResolver(brokenRegistry{}, proj, geo.Miles).Resolve("A", "B")
	var ue *UnresolvedError
	if err == nil || errors.As(err, &ue) {
		t.Fatalf("Resolve error = %v, want a plain lookup error", err)
	}
}
