package main

import "github.com/umahmood/haversine"

// Logger collects per-record warnings for the end-of-run log file.
type Logger struct {
	Records []string
	Length  int64
}

type Job struct {
	Code  string
	Coord haversine.Coord
}

type Pair struct {
	Code   string
	Nearby []string
}
