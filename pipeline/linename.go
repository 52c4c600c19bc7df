// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package pipeline

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

var routeNumberRe = regexp.MustCompile(`[0-9]+`)

// LineNamer assigns every line a unique network line id of the form
// <letter><number><direction>: the municipality code of the line's
// area (fallback V, OnniBus lines O), the route number from the route
// short name (or a running number from 99 when the short name carries
// no digits), and a direction digit relative to a reference
// coordinate: 1 away from it, 2 towards it, 3 for loop lines.
type LineNamer struct {
	// RefLat/RefLon is the direction reference point, normally the
	// region's central station.
	RefLat float64
	RefLon float64
}

// Run names all lines. Names are unique within the run; collisions
// fall back to the running number of the line's letter.
func (n LineNamer) Run(lines []*TransitLine) {
	fmt.Fprintf(os.Stdout, "Forming line names... ")

	used := make(map[string]bool, len(lines))
	running := make(map[string]int)

	for _, l := range lines {
		letter := n.letter(l)
		dir := n.directionId(l)

		fill := 4
		if len(letter) == 2 {
			fill = 3
		}

		number := routeNumberRe.FindString(l.Route.Short_name)
		if number == "" {
			number = n.nextRunning(running, letter)
		}
		if len(number) > fill {
			number = number[len(number)-fill:]
		}

		name := fmt.Sprintf("%s%s%d", letter, zfill(number, fill), dir)
		for used[name] {
			name = fmt.Sprintf("%s%s%d", letter, zfill(n.nextRunning(running, letter), fill), dir)
		}

		used[name] = true
		l.Name = name
	}

	fmt.Fprintf(os.Stdout, "done. (%d lines)\n", len(lines))
}

func (n LineNamer) letter(l *TransitLine) string {
	if l.Route.Agency != nil && strings.Contains(l.Route.Agency.Name, "OnniBus") {
		return "O"
	}
	if l.Muni != "" {
		return l.Muni
	}
	return "V"
}

// directionId classifies the travel direction against the reference
// point: 1 = away, 2 = towards, 3 = loop (same first and last stop).
func (n LineNamer) directionId(l *TransitLine) int {
	first := l.FirstStop()
	last := l.LastStop()

	if first == last {
		return 3
	}

	startDiff := haversine(n.RefLat, n.RefLon, float64(first.Lat), float64(first.Lon))
	endDiff := haversine(n.RefLat, n.RefLon, float64(last.Lat), float64(last.Lon))

	if startDiff > endDiff {
		return 2
	}
	return 1
}

func zfill(s string, width int) string {
	for len(s) < width {
		s = "0" + s
	}
	return s
}

func (n LineNamer) nextRunning(running map[string]int, letter string) string {
	if _, ok := running[letter]; !ok {
		running[letter] = 99
	}
	num := running[letter]
	running[letter]++
	return fmt.Sprint(num)
}
