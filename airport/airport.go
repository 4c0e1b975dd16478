package airport

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/umahmood/haversine"
)

// Airport is a single row of the dataset. It is a value: copies handed out
// by the Registry never alias registry state.
type Airport struct {
	Code      string  `json:"code"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (a Airport) Coord() haversine.Coord {
	return haversine.Coord{Lat: a.Latitude, Lon: a.Longitude}
}

// ErrNotFound is matched by every *NotFoundError.
var ErrNotFound = errors.New("airport not found")

type NotFoundError struct {
	Code string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("airport %q not found", e.Code)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// MalformedRecordError identifies a dataset row that could not be parsed.
type MalformedRecordError struct {
	Row   int
	Field string
	Err   error
}

func (e *MalformedRecordError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("malformed record at row %d: %s", e.Row, e.Err)
	}
	return fmt.Sprintf("malformed record at row %d: %s: %s", e.Row, e.Field, e.Err)
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}

var (
	errTooFewFields = errors.New("expected at least 3 fields")
	errEmptyCode    = errors.New("empty code")
)

// ParseRecord builds an Airport from a raw [latitude, longitude, code] row.
// index is only used to label the error.
func ParseRecord(index int, row []string) (Airport, error) {
	if len(row) < 3 {
		return Airport{}, &MalformedRecordError{Row: index, Err: fmt.Errorf("%w, got %d", errTooFewFields, len(row))}
	}

	latitude, err := strconv.ParseFloat(strings.TrimSpace(row[0]), 64)
	if err != nil {
		return Airport{}, &MalformedRecordError{Row: index, Field: "latitude", Err: err}
	}

	longitude, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
	if err != nil {
		return Airport{}, &MalformedRecordError{Row: index, Field: "longitude", Err: err}
	}

	code := strings.TrimSpace(row[2])
	if code == "" {
		return Airport{}, &MalformedRecordError{Row: index, Field: "code", Err: errEmptyCode}
	}

	return Airport{Code: code, Latitude: latitude, Longitude: longitude}, nil
}

// normalize is the comparison key for codes.
func normalize(code string) string {
	return strings.ToUpper(code)
}
