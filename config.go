package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/thomhuang/AirportDistance/geo"
)

type Config struct {
	DataSource    string
	HasHeader     bool
	SkipMalformed bool
	Unit          geo.Unit
	Calibration   geo.Calibration

	Serve bool
	Addr  string

	NearbyRadiusKm float64
	NearbyOut      string

	LogFile string
	Debug   bool
}

// getenv is os.Getenv with a fallback for unset or empty values.
func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvBool(key string, fallback bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func getenvFloat(key string, fallback float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func getenvInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

// calibrationFromEnv starts from the reference calibration and overrides
// any PROJECTION_* variable that is set.
func calibrationFromEnv() (geo.Calibration, error) {
	cal := geo.ReferenceCalibration()

	floats := []struct {
		key string
		dst *float64
	}{
		{"PROJECTION_REF_LAT", &cal.RefLat},
		{"PROJECTION_REF_LON", &cal.RefLon},
		{"PROJECTION_X_PIXELS", &cal.XPixels},
		{"PROJECTION_X_DEGREES", &cal.XDegrees},
		{"PROJECTION_Y_PIXELS", &cal.YPixels},
		{"PROJECTION_Y_DEGREES", &cal.YDegrees},
		{"PROJECTION_OFFSET_X", &cal.OffsetX},
		{"PROJECTION_OFFSET_Y", &cal.OffsetY},
	}
	for _, f := range floats {
		v, err := getenvFloat(f.key, *f.dst)
		if err != nil {
			return geo.Calibration{}, err
		}
		*f.dst = v
	}

	var err error
	if cal.Width, err = getenvInt("PROJECTION_WIDTH", cal.Width); err != nil {
		return geo.Calibration{}, err
	}
	if cal.Height, err = getenvInt("PROJECTION_HEIGHT", cal.Height); err != nil {
		return geo.Calibration{}, err
	}
	return cal, nil
}

// loadConfig reads the environment, then applies command-line flags on top.
// It returns the remaining positional arguments.
func loadConfig(args []string, output io.Writer) (Config, []string, error) {
	cal, err := calibrationFromEnv()
	if err != nil {
		return Config{}, nil, err
	}

	hasHeader, err := getenvBool("AIRPORTS_HEADER", true)
	if err != nil {
		return Config{}, nil, err
	}
	debug, err := getenvBool("DEBUG", false)
	if err != nil {
		return Config{}, nil, err
	}

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}

	cfg := Config{Calibration: cal}
	var unit string

	fs := flag.NewFlagSet("airportdistance", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprintln(output, "usage: airportdistance [flags] CODE_A CODE_B")
		fmt.Fprintln(output, "       airportdistance [flags] -nearby KM")
		fmt.Fprintln(output, "       airportdistance [flags] -serve")
		fs.PrintDefaults()
	}
	fs.StringVar(&cfg.DataSource, "data", getenv("AIRPORTS_DATA", "./resources/airports.csv"), "airport CSV: local path or http(s) URL, optionally zipped")
	fs.BoolVar(&cfg.HasHeader, "header", hasHeader, "drop the first row of the dataset")
	fs.BoolVar(&cfg.SkipMalformed, "skip-malformed", false, "skip rows that fail to parse instead of aborting")
	fs.StringVar(&unit, "unit", getenv("DISPLAY_UNIT", string(geo.Miles)), "display unit: mi or km")
	fs.BoolVar(&cfg.Serve, "serve", false, "serve the HTTP API")
	fs.StringVar(&cfg.Addr, "addr", addr, "HTTP listen address")
	fs.Float64Var(&cfg.NearbyRadiusKm, "nearby", 0, "write every airport's neighbours within this many km")
	fs.StringVar(&cfg.NearbyOut, "out", "./NearbyAirports.json", "output file for -nearby")
	fs.StringVar(&cfg.LogFile, "log", "./AirportDistanceLog.txt", "file receiving per-record warnings")
	fs.BoolVar(&cfg.Debug, "debug", debug, "debug logging")

	if err := fs.Parse(args); err != nil {
		return Config{}, nil, err
	}

	if cfg.Unit, err = geo.ParseUnit(unit); err != nil {
		return Config{}, nil, err
	}
	if cfg.NearbyRadiusKm < 0 {
		return Config{}, nil, fmt.Errorf("-nearby must not be negative, got %v", cfg.NearbyRadiusKm)
	}
	return cfg, fs.Args(), nil
}
