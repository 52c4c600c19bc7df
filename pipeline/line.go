// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package pipeline

import (
	gtfs "github.com/patrickbr/gtfsparser/gtfs"
)

// TransitLine is one aggregated transit line: a canonical itinerary
// taken from its longest contributing trip, plus the departure times of
// all contributing trips. Created by the ItineraryAggregator and
// enriched in place by the downstream stages.
type TransitLine struct {
	Route     *gtfs.Route
	Direction int8

	// Canonical is the contributing trip whose stop sequence defines
	// the line's itinerary. Fixed when the line's group closes.
	Canonical *gtfs.Trip
	Itinerary []*gtfs.Stop

	// Trips are all contributing trips, Departures their first-stop
	// departure times sorted ascending.
	Trips      []*gtfs.Trip
	Departures []gtfs.Time

	Headways  map[string]Headway
	Mode      string
	VehicleId int

	// Muni is the 2-letter municipality code of the originating stop,
	// empty if no zone polygon contained it.
	Muni string

	// Name is the network line id assigned by the LineNamer.
	Name string
}

// Headway is a per-period headway value. A period with fewer than two
// qualifying departures has no headway; that is a valid outcome, not an
// error, so absence is explicit here instead of being folded into a
// zero value.
type Headway struct {
	Minutes float64
	Defined bool
}

// Length is the total itinerary length in meters.
func (l *TransitLine) Length() float64 {
	length := 0.0
	for i := 1; i < len(l.Itinerary); i++ {
		length += distS(l.Itinerary[i-1], l.Itinerary[i])
	}
	return length
}

// AvgStopDistKm is the average inter-stop distance along the canonical
// itinerary in kilometers. A single-stop itinerary has average
// distance 0.
func (l *TransitLine) AvgStopDistKm() float64 {
	if len(l.Itinerary) < 2 {
		return 0
	}
	return l.Length() / float64(len(l.Itinerary)-1) / 1000.0
}

// FirstStop is the line's originating stop.
func (l *TransitLine) FirstStop() *gtfs.Stop {
	return l.Itinerary[0]
}

// LastStop is the line's terminus stop.
func (l *TransitLine) LastStop() *gtfs.Stop {
	return l.Itinerary[len(l.Itinerary)-1]
}
