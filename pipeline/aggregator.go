// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package pipeline

import (
	"fmt"
	"os"

	gtfs "github.com/patrickbr/gtfsparser/gtfs"
	"golang.org/x/exp/slices"
)

// ItineraryAggregator merges trips into representative transit lines.
// Trips are partitioned by (route, direction); within a partition two
// trips belong to the same line if one's stop sequence is a variant of
// the other's with at most StopVariance stops missing. The canonical
// itinerary of a line is the stop sequence of its longest contributing
// trip, chosen when the partition closes.
type ItineraryAggregator struct {
	StopVariance int
}

type partKey struct {
	route *gtfs.Route
	dir   int8
}

// lineGroup is the mutable working set of trips for one line while its
// partition is open.
type lineGroup struct {
	trips   []*gtfs.Trip
	longest *gtfs.Trip
}

// Run partitions the filtered trips into transit lines. Every trip
// lands in exactly one line; a trip compatible with no open group
// becomes a singleton line.
func (a ItineraryAggregator) Run(trips []*gtfs.Trip) []*TransitLine {
	fmt.Fprintf(os.Stdout, "Aggregating trips into lines... ")

	parts := make(map[partKey][]*gtfs.Trip)
	keys := make([]partKey, 0)

	for _, t := range trips {
		k := partKey{t.Route, int8(t.Direction_id)}
		if _, ok := parts[k]; !ok {
			keys = append(keys, k)
		}
		parts[k] = append(parts[k], t)
	}

	slices.SortFunc(keys, func(x partKey, y partKey) int {
		if x.route.Id != y.route.Id {
			if x.route.Id < y.route.Id {
				return -1
			}
			return 1
		}
		return int(x.dir) - int(y.dir)
	})

	ret := make([]*TransitLine, 0)

	for _, k := range keys {
		members := parts[k]

		// scan order decides group creation order, make it independent
		// of map iteration: earliest departure first, trip id breaks
		// ties
		slices.SortFunc(members, func(x *gtfs.Trip, y *gtfs.Trip) int {
			xd := x.StopTimes[0].Departure_time().SecondsSinceMidnight()
			yd := y.StopTimes[0].Departure_time().SecondsSinceMidnight()
			if xd != yd {
				return xd - yd
			}
			if x.Id < y.Id {
				return -1
			}
			if x.Id > y.Id {
				return 1
			}
			return 0
		})

		groups := make([]*lineGroup, 0)

		for _, t := range members {
			// tie-break when several groups qualify: the group with the
			// longest itinerary formed so far wins, then the group
			// created first (groups are scanned in creation order, so a
			// strict > keeps the earlier one on equal length)
			var best *lineGroup
			for _, g := range groups {
				if !a.compatible(g.longest, t) {
					continue
				}
				if best == nil || len(g.longest.StopTimes) > len(best.longest.StopTimes) {
					best = g
				}
			}

			if best == nil {
				groups = append(groups, &lineGroup{trips: []*gtfs.Trip{t}, longest: t})
			} else {
				best.trips = append(best.trips, t)
				if len(t.StopTimes) > len(best.longest.StopTimes) {
					best.longest = t
				}
			}
		}

		for _, g := range groups {
			ret = append(ret, closeGroup(k, g))
		}
	}

	fmt.Fprintf(os.Stdout, "done. (%d trips -> %d lines)\n", len(trips), len(ret))

	return ret
}

// compatible reports whether two stop sequences are variants of one
// itinerary: the shorter one must visit its stops in the longer one's
// order, with at most StopVariance stops of the longer sequence
// skipped. Exactly StopVariance missing stops still merge,
// StopVariance+1 do not.
func (a ItineraryAggregator) compatible(ref *gtfs.Trip, t *gtfs.Trip) bool {
	long := ref.StopTimes
	short := t.StopTimes

	if len(short) > len(long) {
		long, short = short, long
	}

	if len(long)-len(short) > a.StopVariance {
		return false
	}

	j := 0
	for i := 0; i < len(long) && j < len(short); i++ {
		if long[i].Stop() == short[j].Stop() {
			j++
		}
	}

	return j == len(short)
}

// closeGroup finalizes a group into an immutable TransitLine. The
// canonical itinerary is fixed here and not updated retroactively.
func closeGroup(k partKey, g *lineGroup) *TransitLine {
	itin := make([]*gtfs.Stop, len(g.longest.StopTimes))
	for i, st := range g.longest.StopTimes {
		itin[i] = st.Stop()
	}

	deps := make([]gtfs.Time, 0, len(g.trips))
	for _, t := range g.trips {
		deps = append(deps, t.StopTimes[0].Departure_time())
	}

	slices.SortFunc(deps, func(x gtfs.Time, y gtfs.Time) int {
		return x.SecondsSinceMidnight() - y.SecondsSinceMidnight()
	})

	return &TransitLine{
		Route:      k.route,
		Direction:  k.dir,
		Canonical:  g.longest,
		Itinerary:  itin,
		Trips:      g.trips,
		Departures: deps,
	}
}
