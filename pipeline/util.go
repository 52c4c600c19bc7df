// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package pipeline

import (
	"math"
	"strconv"

	gtfs "github.com/patrickbr/gtfsparser/gtfs"
)

var DEG_TO_RAD float64 = 0.017453292519943295769236907684886127134428718885417254560

// Distance between two stops
func distS(a *gtfs.Stop, b *gtfs.Stop) float64 {
	return haversine(float64(a.Lat), float64(a.Lon), float64(b.Lat), float64(b.Lon))
}

// Calculate the distance in meter between two lat,lng pairs
func haversine(latA float64, lonA float64, latB float64, lonB float64) float64 {
	latA = latA * DEG_TO_RAD
	lonA = lonA * DEG_TO_RAD
	latB = latB * DEG_TO_RAD
	lonB = lonB * DEG_TO_RAD

	dlat := latB - latA
	dlon := lonB - lonA

	sindlat := math.Sin(dlat / 2)
	sindlon := math.Sin(dlon / 2)

	a := sindlat*sindlat + math.Cos(latA)*math.Cos(latB)*sindlon*sindlon

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return c * 6378137.0
}

// ParseTimeOfDay parses a HH:MM time-of-day value as used by the run
// configuration and the period definitions. Hours above 23 are allowed,
// matching the GTFS convention for after-midnight stop times.
func ParseTimeOfDay(field string, s string) (gtfs.Time, error) {
	if len(s) != 5 || s[2] != ':' {
		return gtfs.Time{}, &FormatError{Field: field, Value: s, Msg: "expected HH:MM"}
	}

	h, e := strconv.Atoi(s[0:2])
	if e != nil {
		return gtfs.Time{}, &FormatError{Field: field, Value: s, Msg: e.Error()}
	}

	m, e := strconv.Atoi(s[3:5])
	if e != nil {
		return gtfs.Time{}, &FormatError{Field: field, Value: s, Msg: e.Error()}
	}

	if h < 0 || h > 47 || m < 0 || m > 59 {
		return gtfs.Time{}, &FormatError{Field: field, Value: s, Msg: "hours must be in [0, 47], minutes in [0, 59]"}
	}

	return gtfs.Time{Hour: int8(h), Minute: int8(m), Second: 0}, nil
}

// ParseDate parses a YYYY-MM-DD date value as used by the run
// configuration.
func ParseDate(field string, s string) (gtfs.Date, error) {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return gtfs.Date{}, &FormatError{Field: field, Value: s, Msg: "expected YYYY-MM-DD"}
	}

	year, e := strconv.Atoi(s[0:4])
	if e != nil {
		return gtfs.Date{}, &FormatError{Field: field, Value: s, Msg: e.Error()}
	}

	month, e := strconv.Atoi(s[5:7])
	if e != nil {
		return gtfs.Date{}, &FormatError{Field: field, Value: s, Msg: e.Error()}
	}

	day, e := strconv.Atoi(s[8:10])
	if e != nil {
		return gtfs.Date{}, &FormatError{Field: field, Value: s, Msg: e.Error()}
	}

	if day < 1 || day > 31 {
		return gtfs.Date{}, &FormatError{Field: field, Value: s, Msg: "day must be in the range [1, 31]"}
	}

	if month < 1 || month > 12 {
		return gtfs.Date{}, &FormatError{Field: field, Value: s, Msg: "month must be in the range [1, 12]"}
	}

	if year < 1900 || year > 1900+255 {
		return gtfs.Date{}, &FormatError{Field: field, Value: s, Msg: "year must be in the range [1900, 2155]"}
	}

	return gtfs.NewDate(uint8(day), uint8(month), uint16(year)), nil
}
