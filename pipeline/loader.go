// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/patrickbr/gtfsparser"
)

// The tables a feed must carry for an import run. shapes.txt is
// optional and only read when use_shapes is set.
var requiredTables = []string{
	"agency.txt",
	"calendar.txt",
	"calendar_dates.txt",
	"routes.txt",
	"stop_times.txt",
	"stops.txt",
	"trips.txt",
}

// LoadFeed parses the GTFS directory into the in-memory model. Every
// reference between the loaded tables must resolve; a dangling
// identifier surfaces as a DataIntegrityError. Field formats beyond
// structural parseability are not checked here, malformed values pass
// through to later stages unchanged.
func LoadFeed(dir string, useShapes bool) (*gtfsparser.Feed, error) {
	fi, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid GTFS folder path '%s': %s", dir, err.Error())
	}

	if fi.IsDir() {
		for _, table := range requiredTables {
			if _, err := os.Stat(filepath.Join(dir, table)); err != nil {
				return nil, fmt.Errorf("GTFS folder '%s' is missing required table %s", dir, table)
			}
		}
	}

	feed := gtfsparser.NewFeed()
	opts := gtfsparser.ParseOptions{UseDefValueOnError: false, DropErroneous: false, DryRun: false, CheckNullCoordinates: false, EmptyStringRepl: "", ZipFix: false}
	opts.DropShapes = !useShapes
	feed.SetParseOpts(opts)

	if err := feed.Parse(dir); err != nil {
		return nil, err
	}

	if err := checkIntegrity(feed); err != nil {
		return nil, err
	}

	return feed, nil
}

// checkIntegrity re-verifies the reference contract on the parsed
// model so that a dangling identifier is reported with its source
// table, whatever the parser's own error mode was.
func checkIntegrity(feed *gtfsparser.Feed) error {
	for id, r := range feed.Routes {
		if r.Agency == nil {
			return &DataIntegrityError{Table: "routes.txt", Id: id}
		}
	}

	for id, t := range feed.Trips {
		if t.Route == nil {
			return &DataIntegrityError{Table: "trips.txt", Id: id}
		}
		if t.Service == nil {
			return &DataIntegrityError{Table: "trips.txt", Id: id}
		}
		for _, st := range t.StopTimes {
			if st.Stop() == nil {
				return &DataIntegrityError{Table: "stop_times.txt", Id: id}
			}
		}
	}

	return nil
}
