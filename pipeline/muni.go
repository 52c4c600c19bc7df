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

// MunicipalityTagger assigns each line the short code of the
// municipality containing its originating stop. A line whose first stop
// lies outside every zone polygon, or whose municipality has no
// configured code, is left untagged; that is not an error.
type MunicipalityTagger struct {
	Zones *ZoneLayer

	// ShortCodes maps the municipality name from the zone layer to its
	// short code.
	ShortCodes map[string]string
}

// Run tags all lines.
func (m MunicipalityTagger) Run(lines []*TransitLine) {
	fmt.Fprintf(os.Stdout, "Tagging municipalities... ")

	tagged := 0

	for _, l := range lines {
		if m.Zones == nil {
			continue
		}

		stop := l.FirstStop()
		name, ok := m.Zones.Find(float64(stop.Lon), float64(stop.Lat))
		if !ok {
			continue
		}

		code, ok := m.ShortCodes[name]
		if !ok {
			continue
		}

		l.Muni = code
		tagged++
	}

	fmt.Fprintf(os.Stdout, "done. (%d of %d lines tagged)\n", tagged, len(lines))
}
