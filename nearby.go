package main

import (
	"runtime"
	"strings"
	"sync"

	"github.com/thomhuang/AirportDistance/airport"
)

// nearbyAll maps every airport code to the codes of the other airports
// within radiusKm, nearest first. Duplicate codes share the entry of the
// first one loaded.
func nearbyAll(reg *airport.Registry, radiusKm float64) map[string][]string {
	numWorkers := runtime.NumCPU() * 4

	var wg sync.WaitGroup
	// prevent blocking when there's a temporary imbalance between producers and consumers
	jobs := make(chan Job, numWorkers*2)
	results := make(chan Pair, numWorkers*2)

	// Launch worker goroutines
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for job := range jobs {
				nearby := []string{}
				for _, a := range reg.Within(job.Coord, radiusKm) {
					// Skip the airport itself
					if strings.EqualFold(a.Code, job.Code) {
						continue
					}
					nearby = append(nearby, a.Code)
				}
				results <- Pair{Code: job.Code, Nearby: nearby}
			}
		}()
	}

	// We only close the results channel after all our workers terminate
	go func() {
		wg.Wait()
		close(results)
	}()

	// closing the jobs channel signals when no more jobs are incoming
	go func() {
		seen := make(map[string]bool)
		for _, a := range reg.All() {
			key := strings.ToUpper(a.Code)
			if seen[key] {
				continue
			}
			seen[key] = true
			jobs <- Job{Code: a.Code, Coord: a.Coord()}
		}
		close(jobs)
	}()

	// Collect results
	nearbyMap := make(map[string][]string)
	for res := range results {
		nearbyMap[res.Code] = res.Nearby
	}
	return nearbyMap
}
