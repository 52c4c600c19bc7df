// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/patrickbr/gtfsparser"
	"github.com/patrickbr/gtfswriter"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	flag "github.com/spf13/pflag"

	"github.com/vallutools/gtfs2emme/config"
	"github.com/vallutools/gtfs2emme/emme"
	"github.com/vallutools/gtfs2emme/pipeline"
)

// Direction reference point for line naming, the Helsinki central
// railway station.
const (
	refLat = 60.1719
	refLon = 24.9414
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "gtfs2emme - GTFS to Emme transit line converter\n\nUsage:\n\n  %s [<options>] -c <config file>\n\nAllowed options:\n\n", os.Args[0])
		flag.PrintDefaults()
	}

	configPath := flag.StringP("config", "c", "config.json", "run configuration JSON file")
	scenOverride := flag.IntP("scenario", "s", 0, "override the configured scenario id")
	dateOverride := flag.StringP("date", "d", "", "override the configured import date, as YYYY-MM-DD")
	outPath := flag.StringP("output", "o", "", "transaction file output path (default: <emme project>/transit_lines.txt)")
	filteredOut := flag.StringP("filtered-gtfs", "", "", "write the eligible trip subset as a GTFS feed to this directory")
	help := flag.BoolP("help", "?", false, "this message")

	flag.Parse()

	if *help {
		flag.Usage()
		return
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("could not load configuration")
	}

	if *scenOverride > 0 {
		cfg.EmmeScenId = *scenOverride
	}
	if *dateOverride != "" {
		cfg.ImportDate = *dateOverride
	}

	date, err := pipeline.ParseDate("gtfs_import_date", cfg.ImportDate)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid import date")
	}

	start, err := pipeline.ParseTimeOfDay("gtfs_start_time", cfg.StartTime)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid start time")
	}

	end, err := pipeline.ParseTimeOfDay("gtfs_end_time", cfg.EndTime)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid end time")
	}

	periods := make([]pipeline.Period, 0, len(cfg.PeriodHeadways))
	for _, ph := range cfg.PeriodHeadways {
		ps, err := pipeline.ParseTimeOfDay("period_headways."+ph.Attribute, ph.Start)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid period start")
		}
		pe, err := pipeline.ParseTimeOfDay("period_headways."+ph.Attribute, ph.End)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid period end")
		}
		periods = append(periods, pipeline.Period{Attribute: ph.Attribute, Start: ps, End: pe})
	}

	vehicles := make([]pipeline.VehicleMode, 0, len(cfg.VehicleIds))
	delModes := make([]string, 0, len(cfg.VehicleIds))
	for _, v := range cfg.VehicleIds {
		vehicles = append(vehicles, pipeline.VehicleMode{Mode: v.Mode, Id: v.Id})
		delModes = append(delModes, v.Mode)
	}

	attrs := make([]pipeline.Attribute, 0, len(cfg.GTFSAttributes))
	for _, a := range cfg.GTFSAttributes {
		attrs = append(attrs, pipeline.Attribute{Name: a.Name, FieldType: a.FieldType, Description: a.Description})
	}

	zones, err := pipeline.LoadZoneLayer(cfg.ZonesGeoJSONPath, cfg.MuniColName)
	if err != nil {
		log.Fatal().Err(err).Msg("could not load zone layer")
	}

	log.Info().
		Str("gtfs", cfg.GTFSFolderPath).
		Str("date", cfg.ImportDate).
		Int("scenario", cfg.EmmeScenId).
		Msg("starting import run")

	feed, err := pipeline.LoadFeed(cfg.GTFSFolderPath, cfg.UseShapes)
	if err != nil {
		log.Fatal().Err(err).Msg("could not load GTFS feed")
	}

	p := &pipeline.Pipeline{
		Filter: pipeline.LineFilter{
			ExcludedAgency: cfg.ExcludedAgencyId,
			Date:           date,
			Start:          start,
			End:            end,
			RouteTypes:     pipeline.BusRouteTypes(),
		},
		Aggregator: pipeline.ItineraryAggregator{StopVariance: *cfg.StopVariance},
		Headways:   pipeline.HeadwayCalculator{Periods: periods, CalcType: pipeline.HeadwayCalcType(cfg.HeadwayCalcType)},
		Modes:      pipeline.ModeClassifier{StopDistKm: *cfg.StopDistance, Table: vehicles},
		Muni:       pipeline.MunicipalityTagger{Zones: zones, ShortCodes: cfg.MuniShortCodes},
		Namer:      pipeline.LineNamer{RefLat: refLat, RefLon: refLon},
		Records:    pipeline.RecordBuilder{Attributes: attrs},
	}

	lines, records, err := p.Run(feed)
	if err != nil {
		log.Fatal().Err(err).Msg("pipeline run failed")
	}

	out := *outPath
	if out == "" {
		out = filepath.Join(cfg.EmmeProjPath, "transit_lines.txt")
	}

	var w emme.Importer = &emme.TransactionWriter{
		ProjectPath:   cfg.EmmeProjPath,
		Scenario:      cfg.EmmeScenId,
		OutPath:       out,
		DeleteModes:   delModes,
		PrimaryPeriod: periods[0].Attribute,
		Mapmatching:   cfg.MapmatchingCriteria,
	}

	if err := w.Begin(); err != nil {
		log.Fatal().Err(err).Msg("import target rejected")
	}
	for i, l := range lines {
		if err := w.ImportLine(l, records[i]); err != nil {
			w.Abort()
			log.Fatal().Err(err).Str("line", l.Name).Msg("could not import line")
		}
	}
	if err := w.Close(); err != nil {
		log.Fatal().Err(err).Msg("could not commit import transaction")
	}

	log.Info().Int("lines", len(lines)).Str("output", out).Msg("import transaction written")

	if *filteredOut != "" {
		writeFiltered(feed, lines, *filteredOut)
	}
}

// writeFiltered writes the feed reduced to the trips that contributed
// to a line, for inspection of what the run actually imported.
func writeFiltered(feed *gtfsparser.Feed, lines []*pipeline.TransitLine, dir string) {
	kept := make(map[string]bool)
	for _, l := range lines {
		for _, t := range l.Trips {
			kept[t.Id] = true
		}
	}

	drop := make([]string, 0)
	for id := range feed.Trips {
		if !kept[id] {
			drop = append(drop, id)
		}
	}
	for _, id := range drop {
		feed.DeleteTrip(id)
	}

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		os.Mkdir(dir, os.ModePerm)
	}

	w := gtfswriter.Writer{Sorted: true}
	if err := w.Write(feed, dir); err != nil {
		log.Fatal().Err(err).Str("output", dir).Msg("could not write filtered feed")
	}

	log.Info().Int("trips", len(kept)).Str("output", dir).Msg("filtered feed written")
}
