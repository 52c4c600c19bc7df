// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package emme

import (
	"fmt"

	"github.com/vallutools/gtfs2emme/pipeline"
)

// Importer receives the pipeline's output for one scenario. Begin is
// called once before the first line, Close commits the import, Abort
// discards a failed run. An error from any call aborts the run;
// nothing written before the error becomes visible to the target.
type Importer interface {
	Begin() error
	ImportLine(l *pipeline.TransitLine, rec pipeline.AttributeRecord) error
	Abort()
	Close() error
}

// ImportTargetError is returned when the import target rejects the
// configured project or scenario.
type ImportTargetError struct {
	Scenario int
	Reason   string
}

func (e *ImportTargetError) Error() string {
	return fmt.Sprintf("import target rejected scenario %d: %s", e.Scenario, e.Reason)
}
