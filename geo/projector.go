package geo

import (
	"fmt"
	"math"
)

// Calibration maps geographic degrees onto one specific background raster.
//
//	x = (RefLat - lat) * (XPixels / XDegrees) + OffsetX
//	y = (RefLon - lon) * (YPixels / YDegrees) + OffsetY
//
// It is a plain scale-and-offset, only meaningful near the region the
// background image depicts.
type Calibration struct {
	RefLat   float64 `json:"ref_lat"`
	RefLon   float64 `json:"ref_lon"`
	XPixels  float64 `json:"x_pixels"`
	XDegrees float64 `json:"x_degrees"`
	YPixels  float64 `json:"y_pixels"`
	YDegrees float64 `json:"y_degrees"`
	OffsetX  float64 `json:"offset_x"`
	OffsetY  float64 `json:"offset_y"`

	// Raster size, used only for bounds checks.
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ReferenceCalibration is the calibration for the 492x333 US map.
func ReferenceCalibration() Calibration {
	return Calibration{
		RefLat:   120.0,
		RefLon:   50.5,
		XPixels:  387.0,
		XDegrees: 50.0,
		YPixels:  244.0,
		YDegrees: 25.0,
		OffsetX:  64.0,
		OffsetY:  44.0,
		Width:    492,
		Height:   333,
	}
}

// InvalidCalibrationError reports a calibration constant that would make
// the transform produce non-finite output.
type InvalidCalibrationError struct {
	Field string
	Value float64
}

func (e *InvalidCalibrationError) Error() string {
	return fmt.Sprintf("invalid calibration: %s = %v", e.Field, e.Value)
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// In reports whether p lies on a width x height raster.
func (p Point) In(width, height int) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < float64(width) && p.Y < float64(height)
}

type Projector struct {
	cal    Calibration
	scaleX float64
	scaleY float64
}

func NewProjector(cal Calibration) (*Projector, error) {
	fields := []struct {
		name  string
		value float64
	}{
		{"RefLat", cal.RefLat},
		{"RefLon", cal.RefLon},
		{"XPixels", cal.XPixels},
		{"XDegrees", cal.XDegrees},
		{"YPixels", cal.YPixels},
		{"YDegrees", cal.YDegrees},
		{"OffsetX", cal.OffsetX},
		{"OffsetY", cal.OffsetY},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return nil, &InvalidCalibrationError{Field: f.name, Value: f.value}
		}
	}
	if cal.XDegrees == 0 {
		return nil, &InvalidCalibrationError{Field: "XDegrees", Value: cal.XDegrees}
	}
	if cal.YDegrees == 0 {
		return nil, &InvalidCalibrationError{Field: "YDegrees", Value: cal.YDegrees}
	}

	p := &Projector{
		cal:    cal,
		scaleX: cal.XPixels / cal.XDegrees,
		scaleY: cal.YPixels / cal.YDegrees,
	}
	// a tiny span can still overflow the ratio
	if math.IsInf(p.scaleX, 0) {
		return nil, &InvalidCalibrationError{Field: "XDegrees", Value: cal.XDegrees}
	}
	if math.IsInf(p.scaleY, 0) {
		return nil, &InvalidCalibrationError{Field: "YDegrees", Value: cal.YDegrees}
	}
	return p, nil
}

// Project maps (lat, lon) to raster coordinates. Points off the raster are
// returned as computed.
func (p *Projector) Project(lat, lon float64) Point {
	return Point{
		X: (p.cal.RefLat-lat)*p.scaleX + p.cal.OffsetX,
		Y: (p.cal.RefLon-lon)*p.scaleY + p.cal.OffsetY,
	}
}

func (p *Projector) InBounds(pt Point) bool {
	return pt.In(p.cal.Width, p.cal.Height)
}
