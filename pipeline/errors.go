// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package pipeline

import "fmt"

// DataIntegrityError is a dangling reference in the GTFS input, naming
// the table the reference appears in and the identifier that did not
// resolve. Always fatal.
type DataIntegrityError struct {
	Table string
	Id    string
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("dangling reference in %s: '%s' does not resolve", e.Table, e.Id)
}

// FormatError is an unparsable date or time-of-day value. Always fatal.
type FormatError struct {
	Field string
	Value string
	Msg   string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("cannot parse %s '%s': %s", e.Field, e.Value, e.Msg)
}

// UnknownModeError means no entry of the configured vehicle table
// matched the mode resolved for a line. Always fatal.
type UnknownModeError struct {
	Line string
	Mode string
}

func (e *UnknownModeError) Error() string {
	return fmt.Sprintf("no vehicle configured for mode '%s' (line %s)", e.Mode, e.Line)
}

// MissingRequiredAttributeError means the configured attribute list
// omits one of the mandatory fields. Detected before any processing.
type MissingRequiredAttributeError struct {
	Attribute string
}

func (e *MissingRequiredAttributeError) Error() string {
	return fmt.Sprintf("required attribute '%s' missing from gtfs_attributes", e.Attribute)
}
