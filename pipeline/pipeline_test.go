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

func testPipeline(t *testing.T) *Pipeline {
	zones, err := LoadZoneLayer("./testdata/zones.geojson", "kunta")
	if err != nil {
		t.Fatal(err)
	}

	return &Pipeline{
		Filter: LineFilter{
			ExcludedAgency: "HSL",
			Date:           gtfs.NewDate(4, 4, 2017),
			Start:          mkTime(6 * 3600),
			End:            mkTime(10 * 3600),
			RouteTypes:     BusRouteTypes(),
		},
		Aggregator: ItineraryAggregator{StopVariance: 1},
		Headways: HeadwayCalculator{
			Periods:  []Period{{Attribute: "aht", Start: mkTime(7 * 3600), End: mkTime(9 * 3600)}},
			CalcType: DeparturesStudyPeriod,
		},
		Modes: ModeClassifier{StopDistKm: 10, Table: []VehicleMode{{Mode: "d", Id: 12}, {Mode: "e", Id: 13}}},
		Muni:  MunicipalityTagger{Zones: zones, ShortCodes: map[string]string{"Tuusula": "TU", "Kerava": "KE"}},
		Namer: LineNamer{RefLat: 60.1719, RefLon: 24.9414},
		Records: RecordBuilder{Attributes: []Attribute{
			{Name: AttrRouteName, FieldType: "STRING"},
			{Name: AttrTripId, FieldType: "STRING"},
			{Name: AttrStopName, FieldType: "STRING"},
			{Name: "aht", FieldType: "REAL"},
		}},
	}
}

func TestPipelineEndToEnd(t *testing.T) {
	feed, err := LoadFeed("./testfeed", false)
	if err != nil {
		t.Fatal(err)
	}

	p := testPipeline(t)

	lines, records, err := p.Run(feed)
	if err != nil {
		t.Fatal(err)
	}

	// T3 is excluded by agency, T4 inactive on the date, T5 is a tram
	// trip outside the supported route types; T1 and T2 merge into one
	// line
	if len(lines) != 1 || len(records) != 1 {
		t.Fatal(len(lines), len(records))
	}

	l := lines[0]

	if l.Canonical.Id != "T1" {
		t.Error(l.Canonical.Id)
	}
	if len(l.Itinerary) != 4 {
		t.Error(len(l.Itinerary))
	}
	if len(l.Departures) != 2 {
		t.Error(len(l.Departures))
	}

	if l.Mode != "d" || l.VehicleId != 12 {
		t.Error(l.Mode, l.VehicleId)
	}
	if l.Muni != "TU" {
		t.Error(l.Muni)
	}
	if l.Name != "TU0551" {
		t.Error(l.Name)
	}

	hw := l.Headways["aht"]
	if !hw.Defined || hw.Minutes != 30.0 {
		t.Error(hw)
	}

	rec := records[0]
	if rec[AttrRouteName] != "55" {
		t.Error(rec[AttrRouteName])
	}
	if rec[AttrStopName] != "Asema A" {
		t.Error(rec[AttrStopName])
	}
	if rec["aht"] != 30.0 {
		t.Error(rec["aht"])
	}
}

func TestPipelineChecksAttributesFirst(t *testing.T) {
	feed, err := LoadFeed("./testfeed", false)
	if err != nil {
		t.Fatal(err)
	}

	p := testPipeline(t)
	p.Records = RecordBuilder{Attributes: []Attribute{{Name: AttrRouteName, FieldType: "STRING"}}}

	var missErr *MissingRequiredAttributeError
	if _, _, err := p.Run(feed); !errors.As(err, &missErr) {
		t.Error(err)
	}
}
