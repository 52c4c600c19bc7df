// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package pipeline

import (
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/patrickbr/gtfsparser"
	geojson "github.com/paulmach/go.geojson"
)

// ZoneLayer is the municipality polygon layer read from the zone
// GeoJSON file. Coordinates must be in the same system as the GTFS
// stops (WGS84 lon/lat).
type ZoneLayer struct {
	zones []zone
}

type zone struct {
	name  string
	polys []gtfsparser.Polygon
}

// getGtfsPoly converts a GeoJSON polygon (outer ring plus holes) into
// a gtfsparser polygon.
func getGtfsPoly(poly [][][]float64) gtfsparser.Polygon {
	outer := make([][2]float64, len(poly[0]))
	inners := make([][][2]float64, 0)
	for i, c := range poly[0] {
		outer[i] = [2]float64{c[0], c[1]}
	}
	for i := 1; i < len(poly); i++ {
		inners = append(inners, make([][2]float64, len(poly[i])))
		for j, c := range poly[i] {
			inners[i-1][j] = [2]float64{c[0], c[1]}
		}
	}

	return gtfsparser.NewPolygon(outer, inners)
}

// LoadZoneLayer reads the zone GeoJSON. The file must be UTF-8; the
// zone name is taken from the given feature property.
func LoadZoneLayer(path string, nameProp string) (*ZoneLayer, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("invalid zone geojson filepath '%s': %s", path, err.Error())
	}

	if !utf8.Valid(raw) {
		return nil, fmt.Errorf("zone geojson '%s' is not valid UTF-8", path)
	}

	fc, err := geojson.UnmarshalFeatureCollection(raw)
	if err != nil {
		return nil, fmt.Errorf("could not parse zone geojson '%s': %s", path, err.Error())
	}

	layer := &ZoneLayer{}

	for _, feature := range fc.Features {
		if feature.Geometry == nil {
			continue
		}

		name, _ := feature.Properties[nameProp].(string)
		z := zone{name: name}

		if feature.Geometry.IsPolygon() {
			z.polys = append(z.polys, getGtfsPoly(feature.Geometry.Polygon))
		}
		if feature.Geometry.IsMultiPolygon() {
			for _, poly := range feature.Geometry.MultiPolygon {
				z.polys = append(z.polys, getGtfsPoly(poly))
			}
		}

		if len(z.polys) > 0 {
			layer.zones = append(layer.zones, z)
		}
	}

	return layer, nil
}

// Find returns the name of the first zone containing the point, in
// feature order.
func (l *ZoneLayer) Find(lon float64, lat float64) (string, bool) {
	for _, z := range l.zones {
		for _, poly := range z.polys {
			if poly.PolyContains(lon, lat) {
				return z.name, true
			}
		}
	}
	return "", false
}
