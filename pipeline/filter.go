// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package pipeline

import (
	"fmt"
	"os"

	"github.com/patrickbr/gtfsparser"
	gtfs "github.com/patrickbr/gtfsparser/gtfs"
	"golang.org/x/exp/slices"
)

// LineFilter reduces the feed to the trips eligible for the import run:
// trips of the excluded agency are dropped, the service must be active
// on the import date, and stop times are windowed to departures in
// [Start, End). A trip left with no stop times is dropped entirely.
type LineFilter struct {
	// ExcludedAgency is the agency already represented by another data
	// source; its trips never enter the pipeline.
	ExcludedAgency string

	Date  gtfs.Date
	Start gtfs.Time
	End   gtfs.Time

	// RouteTypes restricts the run to the given GTFS route types. An
	// empty filter keeps all types.
	RouteTypes map[int16]bool
}

// Run returns the eligible trips. Trips whose stop times are trimmed by
// the time window are fresh copies, the loaded model is never mutated.
func (f LineFilter) Run(feed *gtfsparser.Feed) []*gtfs.Trip {
	fmt.Fprintf(os.Stdout, "Filtering trips... ")

	startSec := f.Start.SecondsSinceMidnight()
	endSec := f.End.SecondsSinceMidnight()

	ret := make([]*gtfs.Trip, 0)
	excluded := 0
	inactive := 0
	windowed := 0

	for _, t := range feed.Trips {
		if t.Route.Agency != nil && t.Route.Agency.Id == f.ExcludedAgency {
			excluded++
			continue
		}

		if len(f.RouteTypes) > 0 && !f.RouteTypes[t.Route.Type] {
			excluded++
			continue
		}

		// IsActiveOn combines the weekly pattern with the exception
		// overrides: a "removed" exception deactivates the service on
		// that date regardless of the pattern, an "added" one activates
		// it.
		if !t.Service.IsActiveOn(f.Date) {
			inactive++
			continue
		}

		if len(t.StopTimes) == 0 {
			windowed++
			continue
		}

		// departures are nondecreasing within a trip, so the window
		// selects a contiguous run of stop times
		lo := 0
		for lo < len(t.StopTimes) && t.StopTimes[lo].Departure_time().SecondsSinceMidnight() < startSec {
			lo++
		}

		hi := len(t.StopTimes)
		for hi > lo && t.StopTimes[hi-1].Departure_time().SecondsSinceMidnight() >= endSec {
			hi--
		}

		if hi <= lo {
			windowed++
			continue
		}

		if lo == 0 && hi == len(t.StopTimes) {
			ret = append(ret, t)
			continue
		}

		ret = append(ret, windowTrip(t, lo, hi))
	}

	slices.SortFunc(ret, func(a *gtfs.Trip, b *gtfs.Trip) int {
		if a.Id < b.Id {
			return -1
		}
		if a.Id > b.Id {
			return 1
		}
		return 0
	})

	fmt.Fprintf(os.Stdout, "done. (%d trips kept, %d excluded by agency/type, %d inactive on date, %d outside window)\n",
		len(ret), excluded, inactive, windowed)

	return ret
}

// windowTrip copies a trip with its stop times restricted to [lo, hi).
func windowTrip(t *gtfs.Trip, lo int, hi int) *gtfs.Trip {
	newTrip := new(gtfs.Trip)

	newTrip.Id = t.Id
	newTrip.Route = t.Route
	newTrip.Service = t.Service
	newTrip.Headsign = t.Headsign
	newTrip.Short_name = t.Short_name
	newTrip.Direction_id = t.Direction_id
	newTrip.Block_id = t.Block_id
	newTrip.Shape = t.Shape
	newTrip.Wheelchair_accessible = t.Wheelchair_accessible
	newTrip.Bikes_allowed = t.Bikes_allowed
	newTrip.StopTimes = append(gtfs.StopTimes(nil), t.StopTimes[lo:hi]...)

	return newTrip
}
