// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package pipeline

import (
	"testing"

	"github.com/patrickbr/gtfsparser/gtfs"
)

func mkStop(id string, lat float32, lon float32) *gtfs.Stop {
	s := new(gtfs.Stop)
	s.Id = id
	s.Name = "Stop " + id
	s.Lat = lat
	s.Lon = lon
	return s
}

func mkRoute(id string, shortName string, typ int16) *gtfs.Route {
	r := new(gtfs.Route)
	r.Id = id
	r.Short_name = shortName
	r.Type = typ
	return r
}

func mkTime(sec int) gtfs.Time {
	return gtfs.Time{Hour: int8(sec / 3600), Minute: int8((sec % 3600) / 60), Second: int8(sec % 60)}
}

// mkTrip builds a trip departing at depSec with one stop per minute.
func mkTrip(id string, route *gtfs.Route, stops []*gtfs.Stop, depSec int) *gtfs.Trip {
	t := new(gtfs.Trip)
	t.Id = id
	t.Route = route
	for i, s := range stops {
		st := gtfs.StopTime{}
		st.SetStop(s)
		st.SetArrival_time(mkTime(depSec + i*60))
		st.SetDeparture_time(mkTime(depSec + i*60))
		t.StopTimes = append(t.StopTimes, st)
	}
	return t
}

func TestAggregatorMergesVariants(t *testing.T) {
	a := mkStop("A", 60.10, 24.90)
	b := mkStop("B", 60.15, 24.92)
	c := mkStop("C", 60.20, 24.94)
	d := mkStop("D", 60.25, 24.96)

	r := mkRoute("R", "55", 3)

	full := mkTrip("T1", r, []*gtfs.Stop{a, b, c, d}, 8*3600)
	variant := mkTrip("T2", r, []*gtfs.Stop{a, b, d}, 8*3600+1800)

	proc := ItineraryAggregator{StopVariance: 1}
	lines := proc.Run([]*gtfs.Trip{full, variant})

	if len(lines) != 1 {
		t.Fatal(len(lines))
	}

	l := lines[0]

	if l.Canonical != full {
		t.Error("canonical itinerary must come from the longest trip")
	}

	if len(l.Itinerary) != 4 {
		t.Error(len(l.Itinerary))
	}

	if len(l.Departures) != 2 {
		t.Fatal(len(l.Departures))
	}

	if l.Departures[0].SecondsSinceMidnight() != 8*3600 || l.Departures[1].SecondsSinceMidnight() != 8*3600+1800 {
		t.Error(l.Departures)
	}
}

func TestAggregatorToleranceBoundary(t *testing.T) {
	a := mkStop("A", 60.10, 24.90)
	b := mkStop("B", 60.15, 24.92)
	c := mkStop("C", 60.20, 24.94)
	d := mkStop("D", 60.25, 24.96)
	e := mkStop("E", 60.30, 24.98)

	r := mkRoute("R", "55", 3)

	full := mkTrip("T1", r, []*gtfs.Stop{a, b, c, d, e}, 8*3600)

	// 2 stops missing, exactly the tolerance
	atBound := mkTrip("T2", r, []*gtfs.Stop{a, c, e}, 9*3600)

	proc := ItineraryAggregator{StopVariance: 2}
	lines := proc.Run([]*gtfs.Trip{full, atBound})

	if len(lines) != 1 {
		t.Error(len(lines))
	}

	// 3 stops missing, tolerance + 1
	over := mkTrip("T3", r, []*gtfs.Stop{a, e}, 9*3600)

	lines = proc.Run([]*gtfs.Trip{full, over})

	if len(lines) != 2 {
		t.Error(len(lines))
	}
}

func TestAggregatorReorderedStopsNeverMerge(t *testing.T) {
	a := mkStop("A", 60.10, 24.90)
	b := mkStop("B", 60.15, 24.92)
	c := mkStop("C", 60.20, 24.94)

	r := mkRoute("R", "55", 3)

	fwd := mkTrip("T1", r, []*gtfs.Stop{a, b, c}, 8*3600)
	swapped := mkTrip("T2", r, []*gtfs.Stop{a, c, b}, 9*3600)

	proc := ItineraryAggregator{StopVariance: 8}
	lines := proc.Run([]*gtfs.Trip{fwd, swapped})

	if len(lines) != 2 {
		t.Error(len(lines))
	}
}

func TestAggregatorPartitionInvariant(t *testing.T) {
	a := mkStop("A", 60.10, 24.90)
	b := mkStop("B", 60.15, 24.92)
	c := mkStop("C", 60.20, 24.94)

	r1 := mkRoute("R1", "10", 3)
	r2 := mkRoute("R2", "20", 3)

	trips := []*gtfs.Trip{
		mkTrip("T1", r1, []*gtfs.Stop{a, b, c}, 8*3600),
		mkTrip("T2", r1, []*gtfs.Stop{a, b, c}, 9*3600),
		mkTrip("T3", r2, []*gtfs.Stop{a, b, c}, 8*3600),
		mkTrip("T4", r2, []*gtfs.Stop{c, b, a}, 8*3600),
	}
	trips[3].Direction_id = 1

	proc := ItineraryAggregator{StopVariance: 8}
	lines := proc.Run(trips)

	// same stops, but trips never merge across route or direction
	if len(lines) != 3 {
		t.Fatal(len(lines))
	}

	seen := make(map[string]int)
	for _, l := range lines {
		for _, trip := range l.Trips {
			seen[trip.Id]++
		}
	}

	if len(seen) != len(trips) {
		t.Error(seen)
	}
	for id, n := range seen {
		if n != 1 {
			t.Error(id, n)
		}
	}
}
