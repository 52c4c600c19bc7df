// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package pipeline

import (
	"github.com/patrickbr/gtfsparser"
)

// Pipeline runs the full aggregation over a loaded feed, stage by
// stage. Stages run strictly in sequence, each over the complete
// output of its predecessor; the first failing stage aborts the run.
type Pipeline struct {
	Filter     LineFilter
	Aggregator ItineraryAggregator
	Headways   HeadwayCalculator
	Modes      ModeClassifier
	Muni       MunicipalityTagger
	Namer      LineNamer
	Records    RecordBuilder
}

// Run executes the pipeline and returns the aggregated lines with
// their index-aligned attribute records.
func (p *Pipeline) Run(feed *gtfsparser.Feed) ([]*TransitLine, []AttributeRecord, error) {
	if err := p.Records.Check(); err != nil {
		return nil, nil, err
	}

	trips := p.Filter.Run(feed)
	lines := p.Aggregator.Run(trips)

	p.Headways.Run(lines)

	if err := p.Modes.Run(lines); err != nil {
		return nil, nil, err
	}

	p.Muni.Run(lines)
	p.Namer.Run(lines)

	records := p.Records.Run(lines)

	return lines, records, nil
}
