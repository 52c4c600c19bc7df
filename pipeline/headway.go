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
)

// HeadwayCalcType selects how a period headway is derived from the
// qualifying departures.
type HeadwayCalcType string

const (
	// DeparturesStudyPeriod averages the intervals between consecutive
	// departures inside the period.
	DeparturesStudyPeriod HeadwayCalcType = "DEPARTURES_STUDY_PERIOD"

	// StudyPeriodLength divides the period length by the departure
	// count.
	StudyPeriodLength HeadwayCalcType = "STUDY_PERIOD_LENGTH"
)

// Period is one named observation period. The headway computed for it
// is stored under Attribute in the line's headway map.
type Period struct {
	Attribute string
	Start     gtfs.Time
	End       gtfs.Time
}

// HeadwayCalculator computes per-period headways for each line from
// its contributing departures. A period with fewer than two qualifying
// departures gets an undefined headway; a line may legitimately have no
// service in a period.
type HeadwayCalculator struct {
	Periods  []Period
	CalcType HeadwayCalcType
}

// Run fills the headway map of every line.
func (h HeadwayCalculator) Run(lines []*TransitLine) {
	fmt.Fprintf(os.Stdout, "Calculating period headways... ")

	undefined := 0

	for _, l := range lines {
		l.Headways = make(map[string]Headway, len(h.Periods))
		for _, p := range h.Periods {
			hw := h.headway(l.Departures, p)
			if !hw.Defined {
				undefined++
			}
			l.Headways[p.Attribute] = hw
		}
	}

	fmt.Fprintf(os.Stdout, "done. (%d lines, %d periods, %d undefined)\n",
		len(lines), len(h.Periods), undefined)
}

func (h HeadwayCalculator) headway(deps []gtfs.Time, p Period) Headway {
	startSec := p.Start.SecondsSinceMidnight()
	endSec := p.End.SecondsSinceMidnight()

	qual := make([]int, 0, len(deps))
	for _, d := range deps {
		s := d.SecondsSinceMidnight()
		if s >= startSec && s < endSec {
			qual = append(qual, s)
		}
	}

	if len(qual) < 2 {
		return Headway{}
	}

	if h.CalcType == StudyPeriodLength {
		return Headway{Minutes: float64(endSec-startSec) / float64(len(qual)) / 60.0, Defined: true}
	}

	// departures arrive sorted from the aggregator, the mean interval
	// is the covered span over the interval count
	sum := 0
	for i := 1; i < len(qual); i++ {
		sum += qual[i] - qual[i-1]
	}

	return Headway{Minutes: float64(sum) / float64(len(qual)-1) / 60.0, Defined: true}
}
