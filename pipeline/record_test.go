// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package pipeline

import (
	"errors"
	"testing"

	"github.com/patrickbr/gtfsparser/gtfs"
)

func TestRecordBuilderCheck(t *testing.T) {
	b := RecordBuilder{Attributes: []Attribute{
		{Name: AttrRouteName, FieldType: "STRING"},
		{Name: AttrTripId, FieldType: "STRING"},
		{Name: AttrStopName, FieldType: "STRING"},
	}}

	if err := b.Check(); err != nil {
		t.Error(err)
	}

	b = RecordBuilder{Attributes: []Attribute{
		{Name: AttrRouteName, FieldType: "STRING"},
		{Name: AttrTripId, FieldType: "STRING"},
	}}

	var missErr *MissingRequiredAttributeError
	if err := b.Check(); !errors.As(err, &missErr) {
		t.Fatal(err)
	}

	if missErr.Attribute != AttrStopName {
		t.Error(missErr.Attribute)
	}
}

func TestRecordBuilderRun(t *testing.T) {
	r := mkRoute("R", "55", 3)

	l := mkLine(r, []*gtfs.Stop{
		mkStop("A", 60.10, 24.90),
		mkStop("B", 60.15, 24.92),
	})
	l.Mode = "d"
	l.VehicleId = 12
	l.Muni = "TU"
	l.Name = "TU0551"
	l.Headways = map[string]Headway{
		"aht": {Minutes: 30, Defined: true},
		"iht": {},
	}

	b := RecordBuilder{Attributes: []Attribute{
		{Name: AttrRouteName, FieldType: "STRING"},
		{Name: AttrTripId, FieldType: "STRING"},
		{Name: AttrStopName, FieldType: "STRING"},
		{Name: "municipality", FieldType: "STRING"},
		{Name: "aht", FieldType: "REAL"},
		{Name: "iht", FieldType: "REAL"},
	}}

	recs := b.Run([]*TransitLine{l})

	if len(recs) != 1 {
		t.Fatal(len(recs))
	}

	rec := recs[0]

	if rec[AttrRouteName] != "55" {
		t.Error(rec[AttrRouteName])
	}
	if rec[AttrTripId] != "T" {
		t.Error(rec[AttrTripId])
	}
	if rec[AttrStopName] != "Stop A" {
		t.Error(rec[AttrStopName])
	}
	if rec["municipality"] != "TU" {
		t.Error(rec["municipality"])
	}
	if rec["aht"] != 30.0 {
		t.Error(rec["aht"])
	}

	// an undefined headway stays out of the record instead of showing
	// up as zero
	if _, ok := rec["iht"]; ok {
		t.Error(rec["iht"])
	}
}
