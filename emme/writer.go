// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package emme

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vallutools/gtfs2emme/pipeline"
)

// TransactionWriter writes the aggregated lines as an Emme transit
// line transaction file. The file is built in a temporary sibling and
// renamed into place on Close, a failed run leaves no partial output.
type TransactionWriter struct {
	// ProjectPath is the Emme project the transaction file targets. It
	// must exist.
	ProjectPath string

	// Scenario is the target scenario id. It must be positive; whether
	// it exists in the project is checked by the import routine itself.
	Scenario int

	// OutPath is the final transaction file location.
	OutPath string

	// DeleteModes are the vehicle modes whose existing lines the
	// transaction deletes before adding the new ones.
	DeleteModes []string

	// PrimaryPeriod names the period attribute whose headway goes into
	// the line record. Undefined headways are written as 999.
	PrimaryPeriod string

	// Mapmatching is passed through to the import routine as criteria
	// comments.
	Mapmatching map[string]interface{}

	f     *os.File
	w     *bufio.Writer
	count int
}

var _ Importer = (*TransactionWriter)(nil)

// Begin validates the target and opens the temporary file.
func (t *TransactionWriter) Begin() error {
	if t.Scenario <= 0 {
		return &ImportTargetError{Scenario: t.Scenario, Reason: "scenario id must be positive"}
	}
	if info, err := os.Stat(t.ProjectPath); err != nil || !info.IsDir() {
		return &ImportTargetError{Scenario: t.Scenario, Reason: fmt.Sprintf("no Emme project at '%s'", t.ProjectPath)}
	}

	f, err := os.CreateTemp(filepath.Dir(t.OutPath), ".lines-*.txt")
	if err != nil {
		return err
	}
	t.f = f
	t.w = bufio.NewWriter(f)

	fmt.Fprintf(t.w, "c transit line transactions\n")
	fmt.Fprintf(t.w, "c project: %s\n", t.ProjectPath)
	fmt.Fprintf(t.w, "c scenario: %d\n", t.Scenario)
	for _, k := range sortedKeys(t.Mapmatching) {
		fmt.Fprintf(t.w, "c mapmatching %s=%v\n", k, t.Mapmatching[k])
	}

	if len(t.DeleteModes) > 0 {
		fmt.Fprintf(t.w, "d lines mod=%s\n", strings.Join(t.DeleteModes, ","))
	}

	fmt.Fprintf(t.w, "t lines\n")

	return nil
}

// ImportLine writes one transit line transaction block.
func (t *TransactionWriter) ImportLine(l *pipeline.TransitLine, rec pipeline.AttributeRecord) error {
	if t.f == nil {
		return &ImportTargetError{Scenario: t.Scenario, Reason: "writer not begun"}
	}

	headway := 999.0
	if hw, ok := l.Headways[t.PrimaryPeriod]; ok && hw.Defined {
		headway = hw.Minutes
	}

	descr := l.Route.Short_name
	if descr == "" {
		descr = l.Route.Long_name
	}

	fmt.Fprintf(t.w, "a '%s' %s %d %.2f '%s'\n", l.Name, l.Mode, l.VehicleId, headway, descr)

	for _, s := range l.Itinerary {
		fmt.Fprintf(t.w, "  dwt=0.01 %s\n", s.Id)
	}

	for _, k := range sortedKeys(map[string]interface{}(rec)) {
		fmt.Fprintf(t.w, "c attr %s=%v\n", k, rec[k])
	}

	t.count++

	return nil
}

// Close flushes and atomically moves the transaction file into place.
func (t *TransactionWriter) Close() error {
	if t.f == nil {
		return &ImportTargetError{Scenario: t.Scenario, Reason: "writer not begun"}
	}

	fmt.Fprintf(t.w, "c %d lines\n", t.count)

	if err := t.w.Flush(); err != nil {
		t.Abort()
		return err
	}
	if err := t.f.Close(); err != nil {
		os.Remove(t.f.Name())
		return err
	}

	err := os.Rename(t.f.Name(), t.OutPath)
	t.f = nil
	return err
}

// Abort discards everything written so far.
func (t *TransactionWriter) Abort() {
	if t.f == nil {
		return
	}
	t.f.Close()
	os.Remove(t.f.Name())
	t.f = nil
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
