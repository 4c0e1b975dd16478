package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/thomhuang/AirportDistance/api"
	"github.com/thomhuang/AirportDistance/geo"
	"github.com/thomhuang/AirportDistance/query"
)

var logger Logger

func main() {
	cfg, args, err := loadConfig(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatal(err)
	}

	log.SetHeader("${time_rfc3339} ${level}")
	log.SetLevel(log.INFO)
	if cfg.Debug {
		log.SetLevel(log.DEBUG)
	}

	if !cfg.Serve && cfg.NearbyRadiusKm == 0 && len(args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: airportdistance [flags] CODE_A CODE_B")
		os.Exit(2)
	}

	// an incomplete registry cannot answer queries, so load errors halt startup
	start := time.Now()
	reg, err := loadRegistry(context.Background(), cfg)
	if err != nil {
		OutputLogFile(cfg.LogFile)
		log.Fatal(err)
	}
	log.Debugf("loaded %d airports from %s in %s", reg.Len(), cfg.DataSource, time.Since(start))

	projector, err := geo.NewProjector(cfg.Calibration)
	if err != nil {
		log.Fatal(err)
	}
	resolver := query.NewResolver(reg, projector, cfg.Unit)

	switch {
	case cfg.Serve:
		handler := api.NewHandler(reg, resolver)
		log.Infof("listening on %s", cfg.Addr)
		if err := http.ListenAndServe(cfg.Addr, handler.Router()); err != nil {
			log.Fatalf("server error: %v", err)
		}

	case cfg.NearbyRadiusKm > 0:
		start := time.Now()
		nearby := nearbyAll(reg, cfg.NearbyRadiusKm)
		if err := OutputResults(cfg.NearbyOut, nearby, time.Since(start)); err != nil {
			OutputLogFile(cfg.LogFile)
			log.Fatal(err)
		}
		OutputLogFile(cfg.LogFile)

	default:
		err := printDistance(os.Stdout, resolver, projector, args[0], args[1])
		OutputLogFile(cfg.LogFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}

// printDistance writes the distance between a and b and their map
// positions. Surrounding whitespace in the codes is ignored. A missing code
// is returned as *query.UnresolvedError.
func printDistance(w io.Writer, resolver *query.Resolver, projector *geo.Projector, a, b string) error {
	res, err := resolver.Resolve(strings.TrimSpace(a), strings.TrimSpace(b))
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s -> %s: %s\n", res.From.Code, res.To.Code, res.Distance)
	for _, marker := range []struct {
		code string
		pt   geo.Point
	}{
		{res.From.Code, res.FromPoint},
		{res.To.Code, res.ToPoint},
	} {
		note := ""
		if !projector.InBounds(marker.pt) {
			note = " (off map)"
		}
		fmt.Fprintf(w, "  %s at (%d, %d)%s\n", marker.code, int(marker.pt.X), int(marker.pt.Y), note)
	}
	return nil
}
