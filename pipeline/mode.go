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

// VehicleMode is one entry of the configured mode table. Entries are
// evaluated in configured order; the first entry whose Mode matches the
// resolved mode supplies the vehicle id.
type VehicleMode struct {
	Mode string
	Id   int
}

// The GTFS route types imported as regular bus service, and the mode
// letter they map to. Regional/express/local bus variants all base on
// mode d.
var busModeHints = map[int16]string{
	3:   "d",
	700: "d",
	701: "d",
	702: "d",
	704: "d",
	715: "d",
}

// Long stop spacing marks an express coach, imported with the e mode
// variant instead of the base mode.
const longDistanceMode = "e"

// BusRouteTypes returns the GTFS route types the import supports, for
// use as the LineFilter's route type selection. Trips of other types
// never reach the classifier.
func BusRouteTypes() map[int16]bool {
	types := make(map[int16]bool, len(busModeHints))
	for t := range busModeHints {
		types[t] = true
	}
	return types
}

// ModeClassifier derives each line's vehicle mode from its average
// inter-stop distance and resolves the vehicle id via the ordered mode
// table.
type ModeClassifier struct {
	// StopDistKm is the average stop distance at or above which a line
	// gets the long-distance mode variant. The threshold is inclusive.
	StopDistKm float64

	// Table is the configured vehicle table in evaluation order.
	Table []VehicleMode
}

// Run classifies all lines. Fails with UnknownModeError if a line
// resolves to a mode absent from the table.
func (m ModeClassifier) Run(lines []*TransitLine) error {
	fmt.Fprintf(os.Stdout, "Classifying vehicle modes... ")

	longDist := 0

	for _, l := range lines {
		mode, ok := busModeHints[l.Route.Type]
		if !ok {
			fmt.Fprintf(os.Stdout, "failed.\n")
			return &UnknownModeError{Line: l.Canonical.Id, Mode: fmt.Sprintf("route type %d", l.Route.Type)}
		}

		if l.AvgStopDistKm() >= m.StopDistKm {
			mode = longDistanceMode
			longDist++
		}

		id, ok := m.vehicle(mode)
		if !ok {
			fmt.Fprintf(os.Stdout, "failed.\n")
			return &UnknownModeError{Line: l.Canonical.Id, Mode: mode}
		}

		l.Mode = mode
		l.VehicleId = id
	}

	fmt.Fprintf(os.Stdout, "done. (%d lines, %d long-distance)\n", len(lines), longDist)

	return nil
}

// vehicle resolves a mode via the table, first match in configured
// order wins.
func (m ModeClassifier) vehicle(mode string) (int, bool) {
	for _, vm := range m.Table {
		if vm.Mode == mode {
			return vm.Id, true
		}
	}
	return 0, false
}
