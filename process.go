package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/thomhuang/AirportDistance/airport"
)

// processAirportFile reads raw [latitude, longitude, code] rows and, for
// each, its record index in the file. A line the CSV reader rejects fails
// the read as *airport.MalformedRecordError unless skipMalformed is set, in
// which case it is logged and dropped. Field validation is left to
// airport.Load.
func processAirportFile(reader io.Reader, skipMalformed bool) ([][]string, []int, error) {
	var rows [][]string
	var fileRows []int

	csvReader := csv.NewReader(reader)
	csvReader.FieldsPerRecord = -1
	csvReader.TrimLeadingSpace = true

	// Read the file line by line
	for row := 0; ; row++ {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return nil, nil, err
			}
			malformed := &airport.MalformedRecordError{Row: row, Err: parseErr}
			if !skipMalformed {
				return nil, nil, malformed
			}
			logger.Append(fmt.Sprintf("skipping record: %s", malformed.Error()))
			continue
		}

		rows = append(rows, record)
		fileRows = append(fileRows, row)
	}

	return rows, fileRows, nil
}

// loadRegistry reads cfg.DataSource and builds the registry. The header row
// is dropped only when cfg.HasHeader is set. Malformed rows are reported by
// their record index in the file, header included, in both load modes.
func loadRegistry(ctx context.Context, cfg Config) (*airport.Registry, error) {
	data, err := readDataset(ctx, cfg.DataSource)
	if err != nil {
		return nil, err
	}

	rows, fileRows, err := processAirportFile(bytes.NewReader(data), cfg.SkipMalformed)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", cfg.DataSource, err)
	}
	// a header the CSV reader rejected was already skipped
	if cfg.HasHeader && len(rows) > 0 && fileRows[0] == 0 {
		rows, fileRows = rows[1:], fileRows[1:]
	}

	// airport.Load numbers rows from zero; map them back onto the file
	toFileRow := func(err error) error {
		var malformed *airport.MalformedRecordError
		if errors.As(err, &malformed) && malformed.Row >= 0 && malformed.Row < len(fileRows) {
			malformed.Row = fileRows[malformed.Row]
		}
		return err
	}

	if cfg.SkipMalformed {
		reg := airport.LoadSkipping(rows, func(err error) {
			logger.Append(fmt.Sprintf("skipping record: %s", toFileRow(err).Error()))
		})
		return reg, nil
	}

	reg, err := airport.Load(rows)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", cfg.DataSource, toFileRow(err))
	}
	return reg, nil
}

func OutputResults(path string, nearby map[string][]string, timeTaken time.Duration) error {
	jsonData, err := json.MarshalIndent(nearby, "", "  ")
	if err != nil {
		logger.Append(fmt.Sprintf("could not serialize nearby airport data: %s", err.Error()))
		return err
	}

	// Create or open a file for writing
	jsonFile, err := os.Create(path)
	if err != nil {
		logger.Append(fmt.Sprintf("could not create json output file: %s", err.Error()))
		return err
	}
	defer jsonFile.Close()

	// Write the JSON data to the file
	if _, err := jsonFile.Write(jsonData); err != nil {
		logger.Append(fmt.Sprintf("could not write nearby airport data to json: %s", err.Error()))
		return err
	}

	log.Infof("wrote %d airports to %s in %s", len(nearby), path, timeTaken)
	return nil
}
