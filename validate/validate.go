// Package validate recomputes great-circle distances and elapsed durations
// from resolved coordinates and timezones, and reports rows whose stored
// values diverge beyond tolerance. Validation never mutates the dataset;
// rows missing required inputs are reported as unvalidated so callers can
// tell "confirmed consistent" from "could not check".
package validate

import (
	"fmt"
	"math"
	"time"

	"github.com/flightlog/flightlog"
	"github.com/flightlog/flightlog/dataset"
)

// meanEarthRadiusKM is the IUGG mean Earth radius
const meanEarthRadiusKM = 6371.0088

// Severity classifies a Finding
type Severity int

const (
	// SeverityError marks a stored value that contradicts the recomputed one
	SeverityError Severity = iota
	// SeverityUnvalidated marks a row whose inputs were insufficient to check
	SeverityUnvalidated
)

// String returns a string representation of a Severity
func (s Severity) String() string {
	if s == SeverityUnvalidated {
		return "unvalidated"
	}
	return "error"
}

// Finding reports one discrepancy or unchecked field on one row
type Finding struct {
	Row      int
	Field    string
	Expected string
	Actual   string
	Severity Severity
}

// ValidatorConf configures a Validator
type ValidatorConf struct {
	DistanceTolerance float64       // Allowed fractional deviation between stored and recomputed distance. Defaults to 0.10.
	DurationTolerance time.Duration // Allowed difference between stored and recomputed duration. Defaults to 15 minutes.
	DistanceColumn    string        // Name of the stored-distance column. Defaults to "dist".
	DurationColumn    string        // Name of the stored-duration column. Defaults to "duration".
}

// Validator checks cross-field numeric and temporal consistency
type Validator struct {
	conf *ValidatorConf
}

// CreateValidator returns a new Validator
func CreateValidator(conf *ValidatorConf) *Validator {
	if conf == nil {
		conf = &ValidatorConf{}
	}
	if conf.DistanceTolerance == 0 {
		conf.DistanceTolerance = 0.10
	}
	if conf.DurationTolerance == 0 {
		conf.DurationTolerance = 15 * time.Minute
	}
	if conf.DistanceColumn == "" {
		conf.DistanceColumn = "dist"
	}
	if conf.DurationColumn == "" {
		conf.DurationColumn = "duration"
	}
	return &Validator{conf: conf}
}

// Validate checks every row of the dataset in order and returns the findings
func (v *Validator) Validate(ds *dataset.Dataset) ([]Finding, error) {
	schema := ds.Schema()
	var findings []Finding
	for i, row := range ds.Rows() {
		findings = append(findings, v.checkDistance(schema, row, i)...)
		findings = append(findings, v.checkDuration(schema, row, i)...)
	}
	return findings, nil
}

func (v *Validator) checkDistance(schema flightlog.Schema, row flightlog.Row, idx int) []Finding {
	latDep, ok1 := schema.SideColumn(flightlog.SideDeparture, "lat")
	lonDep, ok2 := schema.SideColumn(flightlog.SideDeparture, "lon")
	latArr, ok3 := schema.SideColumn(flightlog.SideArrival, "lat")
	lonArr, ok4 := schema.SideColumn(flightlog.SideArrival, "lon")
	if !ok1 || !ok2 || !ok3 || !ok4 || !schema.HasColumn(v.conf.DistanceColumn) {
		return nil
	}
	for _, name := range []string{latDep.Name, lonDep.Name, latArr.Name, lonArr.Name} {
		if row.IsAbsent(name) {
			return []Finding{{Row: idx, Field: v.conf.DistanceColumn, Expected: "", Actual: "missing coordinates", Severity: SeverityUnvalidated}}
		}
	}
	lat1, _ := row.GetFloat(latDep.Name)
	lon1, _ := row.GetFloat(lonDep.Name)
	lat2, _ := row.GetFloat(latArr.Name)
	lon2, _ := row.GetFloat(lonArr.Name)
	computed := Haversine(lat1, lon1, lat2, lon2)
	if row.IsAbsent(v.conf.DistanceColumn) {
		return []Finding{{
			Row: idx, Field: v.conf.DistanceColumn,
			Expected: fmt.Sprintf("%.0f km", computed),
			Actual:   "absent",
			Severity: SeverityError,
		}}
	}
	stored, _ := row.GetFloat(v.conf.DistanceColumn)
	if computed > 0 && math.Abs(stored-computed)/computed > v.conf.DistanceTolerance {
		return []Finding{{
			Row: idx, Field: v.conf.DistanceColumn,
			Expected: fmt.Sprintf("%.0f km", computed),
			Actual:   fmt.Sprintf("%.0f km", stored),
			Severity: SeverityError,
		}}
	}
	return nil
}

func (v *Validator) checkDuration(schema flightlog.Schema, row flightlog.Row, idx int) []Finding {
	timeDep, ok1 := schema.SideColumn(flightlog.SideDeparture, "time")
	timeArr, ok2 := schema.SideColumn(flightlog.SideArrival, "time")
	offDep, ok3 := schema.SideColumn(flightlog.SideDeparture, "gmtoffset")
	offArr, ok4 := schema.SideColumn(flightlog.SideArrival, "gmtoffset")
	if !ok1 || !ok2 || !ok3 || !ok4 || !schema.HasColumn(v.conf.DurationColumn) {
		return nil
	}
	for _, name := range []string{timeDep.Name, timeArr.Name, offDep.Name, offArr.Name} {
		if row.IsAbsent(name) {
			return []Finding{{Row: idx, Field: v.conf.DurationColumn, Expected: "", Actual: "missing times or timezones", Severity: SeverityUnvalidated}}
		}
	}
	dep, _ := row.GetTime(timeDep.Name)
	arr, _ := row.GetTime(timeArr.Name)
	depOff, _ := row.GetFloat(offDep.Name)
	arrOff, _ := row.GetFloat(offArr.Name)
	computed := Elapsed(dep, arr, depOff, arrOff)
	if computed < 0 {
		// arrival before departure always indicates a timezone or
		// source-data error, never an acceptable value
		return []Finding{{
			Row: idx, Field: v.conf.DurationColumn,
			Expected: "non-negative elapsed time",
			Actual:   computed.String(),
			Severity: SeverityError,
		}}
	}
	if row.IsAbsent(v.conf.DurationColumn) {
		return []Finding{{
			Row: idx, Field: v.conf.DurationColumn,
			Expected: computed.String(),
			Actual:   "absent",
			Severity: SeverityError,
		}}
	}
	stored, _ := row.GetDuration(v.conf.DurationColumn)
	diff := stored - computed
	if diff < 0 {
		diff = -diff
	}
	if diff > v.conf.DurationTolerance {
		return []Finding{{
			Row: idx, Field: v.conf.DurationColumn,
			Expected: computed.String(),
			Actual:   stored.String(),
			Severity: SeverityError,
		}}
	}
	return nil
}

// Haversine returns the great-circle distance in kilometres between two
// coordinate pairs, on a mean Earth radius
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	rad := math.Pi / 180
	phi1, phi2 := lat1*rad, lat2*rad
	dPhi := (lat2 - lat1) * rad
	dLambda := (lon2 - lon1) * rad
	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return 2 * meanEarthRadiusKM * math.Asin(math.Sqrt(a))
}

// Elapsed returns arrival minus departure once both naive local times are
// shifted to UTC using their resolved GMT offsets, in hours
func Elapsed(dep, arr time.Time, depOffsetHours, arrOffsetHours float64) time.Duration {
	depUTC := dep.Add(-time.Duration(depOffsetHours * float64(time.Hour)))
	arrUTC := arr.Add(-time.Duration(arrOffsetHours * float64(time.Hour)))
	return arrUTC.Sub(depUTC)
}
