// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
)

// VehicleEntry is one mode→vehicle-id pair of the vehicle table.
type VehicleEntry struct {
	Mode string
	Id   int
}

// VehicleTable preserves the key order of the vehicle_ids JSON object.
// The order is the mode evaluation order, first match wins.
type VehicleTable []VehicleEntry

// PeriodHeadway is one configured observation period. Start and End
// are HH:MM times of day, hours past 23 denote service past midnight.
type PeriodHeadway struct {
	Attribute string `json:"attribute" validate:"required"`
	Start     string `json:"start" validate:"required"`
	End       string `json:"end" validate:"required"`
}

// GTFSAttribute is one entry of the configured attribute list.
type GTFSAttribute struct {
	Name        string `json:"name" validate:"required"`
	FieldType   string `json:"field_type" validate:"required"`
	Description string `json:"description"`
}

// Config is the single JSON configuration document of a run.
type Config struct {
	EmmeProjPath     string `json:"emme_proj_path" validate:"required"`
	EmmeScenId       int    `json:"emme_scen_id" validate:"required"`
	ZonesGeoJSONPath string `json:"helmet_zones_geojson_path" validate:"required"`

	GTFSFolderPath   string `json:"gtfs_folder_path" validate:"required"`
	ExcludedAgencyId string `json:"gtfs_hsl_agency_id"`
	ImportDate       string `json:"gtfs_import_date" validate:"required"`
	StartTime        string `json:"gtfs_start_time" validate:"required"`
	EndTime          string `json:"gtfs_end_time" validate:"required"`
	UseShapes        bool   `json:"use_shapes"`

	VehicleIds     VehicleTable    `json:"vehicle_ids" validate:"required,min=1"`
	PeriodHeadways []PeriodHeadway `json:"period_headways" validate:"required,min=1,dive"`
	GTFSAttributes []GTFSAttribute `json:"gtfs_attributes" validate:"required,min=1,dive"`

	StopVariance    *int     `json:"stop_variance" validate:"omitempty,gte=0"`
	StopDistance    *float64 `json:"stop_distance" validate:"omitempty,gt=0"`
	HeadwayCalcType string   `json:"headway_calc_type" validate:"omitempty,oneof=DEPARTURES_STUDY_PERIOD STUDY_PERIOD_LENGTH"`

	MuniColName    string            `json:"muni_col_name"`
	MuniShortCodes map[string]string `json:"muni_short_codes"`

	// MapmatchingCriteria is passed through to the import routine
	// unchanged.
	MapmatchingCriteria map[string]interface{} `json:"mapmatching_criteria"`
}

// UnmarshalJSON decodes the vehicle_ids object token by token to keep
// the configured key order.
func (t *VehicleTable) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("vehicle_ids must be a JSON object")
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		mode, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("vehicle_ids has a non-string key")
		}

		var id int
		if err := dec.Decode(&id); err != nil {
			return fmt.Errorf("vehicle_ids entry '%s': %s", mode, err.Error())
		}

		*t = append(*t, VehicleEntry{Mode: mode, Id: id})
	}

	_, err = dec.Token()
	return err
}

// Load reads, defaults and validates a configuration file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("invalid config filepath '%s': %s", path, err.Error())
	}

	cfg := &Config{}
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("could not parse config '%s': %s", path, err.Error())
	}

	if cfg.StopVariance == nil {
		v := 8
		cfg.StopVariance = &v
	}
	if cfg.StopDistance == nil {
		d := 10.0
		cfg.StopDistance = &d
	}
	if cfg.HeadwayCalcType == "" {
		cfg.HeadwayCalcType = "DEPARTURES_STUDY_PERIOD"
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config '%s': %s", path, err.Error())
	}

	return cfg, nil
}
