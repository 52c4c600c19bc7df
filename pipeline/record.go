// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package pipeline

import (
	"fmt"
	"os"
)

// Attribute is one entry of the configured attribute list.
type Attribute struct {
	Name        string
	FieldType   string
	Description string
}

// AttributeRecord is the flat attribute mapping assembled for one line,
// the unit handed to the network import. A period attribute with an
// undefined headway is absent from the record.
type AttributeRecord map[string]interface{}

// The attributes every configuration must carry.
const (
	AttrRouteName = "route_name"
	AttrTripId    = "trip_id"
	AttrStopName  = "stop_name"
)

// RecordBuilder assembles one AttributeRecord per line from the
// configured attribute list. Pure assembly, values come from the
// preceding stages.
type RecordBuilder struct {
	Attributes []Attribute
}

// Check validates the configured attribute list up front, before any
// processing starts.
func (b RecordBuilder) Check() error {
	for _, req := range []string{AttrRouteName, AttrTripId, AttrStopName} {
		found := false
		for _, a := range b.Attributes {
			if a.Name == req {
				found = true
				break
			}
		}
		if !found {
			return &MissingRequiredAttributeError{Attribute: req}
		}
	}
	return nil
}

// Run builds the records, index-aligned with lines.
func (b RecordBuilder) Run(lines []*TransitLine) []AttributeRecord {
	fmt.Fprintf(os.Stdout, "Building attribute records... ")

	records := make([]AttributeRecord, 0, len(lines))

	for _, l := range lines {
		rec := make(AttributeRecord, len(b.Attributes))

		for _, a := range b.Attributes {
			if v, ok := b.value(l, a.Name); ok {
				rec[a.Name] = v
			}
		}

		records = append(records, rec)
	}

	fmt.Fprintf(os.Stdout, "done. (%d records)\n", len(records))

	return records
}

func (b RecordBuilder) value(l *TransitLine, name string) (interface{}, bool) {
	switch name {
	case AttrRouteName:
		if l.Route.Short_name != "" {
			return l.Route.Short_name, true
		}
		return l.Route.Long_name, true
	case AttrTripId:
		return l.Canonical.Id, true
	case AttrStopName:
		return l.FirstStop().Name, true
	case "agency_name":
		if l.Route.Agency == nil {
			return nil, false
		}
		return l.Route.Agency.Name, true
	case "line_id":
		return l.Name, true
	case "mode":
		return l.Mode, true
	case "vehicle":
		return l.VehicleId, true
	case "direction":
		return int(l.Direction), true
	case "municipality":
		if l.Muni == "" {
			return nil, false
		}
		return l.Muni, true
	}

	// period attribute, present only when the headway is defined
	if hw, ok := l.Headways[name]; ok && hw.Defined {
		return hw.Minutes, true
	}

	return nil, false
}
