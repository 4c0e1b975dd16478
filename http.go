package main

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"
	"time"
)

var httpClient = &http.Client{Timeout: 60 * time.Second}

func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func isZip(name string) bool {
	return strings.EqualFold(path.Ext(name), ".zip")
}

// readDataset returns the raw CSV bytes for source, which may be a local
// path or an http(s) URL, pointing at a CSV file or a zip containing one.
func readDataset(ctx context.Context, source string) ([]byte, error) {
	var body []byte
	var err error
	if isRemote(source) {
		body, err = downloadDataset(ctx, source)
	} else {
		body, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, err
	}

	name := source
	if isRemote(source) {
		// ignore any query string when checking the extension
		name = strings.SplitN(source, "?", 2)[0]
	}
	if !isZip(name) {
		return body, nil
	}
	return csvFromZip(body)
}

func downloadDataset(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	// Download the file, always get latest, don't cache
	resp, err := httpClient.Do(req)
	if err != nil {
		logger.Append(fmt.Sprintf("could not download airport data: %s", err.Error()))
		return nil, fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Append(fmt.Sprintf("airport data download returned %s", resp.Status))
		return nil, fmt.Errorf("download %s: unexpected status %s", url, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Append(fmt.Sprintf("could not read airport data response body: %s", err.Error()))
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	return body, nil
}

var errNoCSVInZip = errors.New("zip archive contains no .csv file")

// csvFromZip returns the first .csv entry of the archive.
func csvFromZip(body []byte) ([]byte, error) {
	zipReader, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		logger.Append(fmt.Sprintf("could not unzip airport data: %s", err.Error()))
		return nil, fmt.Errorf("unzip airport data: %w", err)
	}

	for _, f := range zipReader.File {
		if !strings.EqualFold(path.Ext(f.Name), ".csv") {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			logger.Append(fmt.Sprintf("could not open %s from zip: %s", f.Name, err.Error()))
			return nil, fmt.Errorf("open %s: %w", f.Name, err)
		}
		defer rc.Close()

		return io.ReadAll(rc)
	}

	return nil, errNoCSVInZip
}
