// Package availability holds the slot arithmetic for the booking engine:
// candidate slot enumeration from an operating window, and the free-slot
// set difference against booked times.
package availability

import (
	"fmt"
	"time"

	"github.com/barbearia-nativa/bookingd/internal/apperr"
)

const clockFormat = "15:04"

// Slots enumerates candidate start times from open (inclusive) to close
// (exclusive) at interval-minute spacing, formatted as zero-padded HH:MM.
// When the interval does not divide the window evenly the last partial
// slot before close is simply omitted.
func Slots(open, close string, intervalMinutes int) ([]string, error) {
	if intervalMinutes <= 0 {
		return nil, apperr.Configuration("slot interval must be positive, got %d", intervalMinutes)
	}
	openT, err := time.Parse(clockFormat, open)
	if err != nil {
		return nil, apperr.Configuration("invalid opening time %q", open)
	}
	closeT, err := time.Parse(clockFormat, close)
	if err != nil {
		return nil, apperr.Configuration("invalid closing time %q", close)
	}
	if !closeT.After(openT) {
		return nil, apperr.Configuration("closing time %s is not after opening time %s", close, open)
	}

	step := time.Duration(intervalMinutes) * time.Minute
	var slots []string
	for t := openT; t.Before(closeT); t = t.Add(step) {
		slots = append(slots, t.Format(clockFormat))
	}
	return slots, nil
}

// Free returns the candidate slots not present in booked, preserving
// candidate order. Booked times outside the candidate set are ignored.
func Free(candidates, booked []string) []string {
	taken := make(map[string]struct{}, len(booked))
	for _, b := range booked {
		taken[b] = struct{}{}
	}
	free := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := taken[c]; !ok {
			free = append(free, c)
		}
	}
	return free
}

// Weekday resolves the time.Weekday for a 2006-01-02 date string.
func Weekday(date string) (time.Weekday, error) {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return d.Weekday(), nil
}
