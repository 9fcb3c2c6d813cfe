// Package resolve populates timezone identifier and GMT offset columns for
// every dataset row that has coordinates and a lookup date but no resolved
// timezone yet. Distinct coordinate pairs are looked up once per run and
// cached, so repeated airports cost one external call; quota exhaustion
// stops the stage early with a count of unresolved rows rather than failing
// the run.
package resolve

import (
	"context"
	"math"

	"github.com/flightlog/flightlog"
	"github.com/flightlog/flightlog/dataset"
	"github.com/flightlog/flightlog/errors"
	"github.com/flightlog/flightlog/logging"
)

// roles of the side-grouped columns the resolver works with
const (
	roleLat       = "lat"
	roleLon       = "lon"
	roleTZID      = "tzid"
	roleGMTOffset = "gmtoffset"
)

type coordKey struct {
	lat float64
	lon float64
}

// ResolverConf configures a Resolver
type ResolverConf struct {
	Precision int // Decimal places coordinates are rounded to for caching and batching. Defaults to 4.
	Logger    *logging.Logger
}

// Resolver fills tzid/gmtoffset columns from a TimezoneSource. The cache is
// process-local, populated lazily and never evicted within a run.
type Resolver struct {
	source flightlog.TimezoneSource
	conf   *ResolverConf
	logger *logging.Logger
	cache  map[coordKey]flightlog.Timezone
}

// Result summarises one resolution pass
type Result struct {
	Resolved     int  // number of side entries filled in
	Unresolved   int  // number of side entries left absent
	QuotaReached bool // true when the run stopped early on quota exhaustion
}

// CreateResolver returns a new Resolver backed by the given source
func CreateResolver(source flightlog.TimezoneSource, conf *ResolverConf) *Resolver {
	if conf == nil {
		conf = &ResolverConf{}
	}
	if conf.Precision == 0 {
		conf.Precision = 4
	}
	logger := conf.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Resolver{
		source: source,
		conf:   conf,
		logger: logger,
		cache:  make(map[coordKey]flightlog.Timezone),
	}
}

func (r *Resolver) round(v float64) float64 {
	scale := math.Pow10(r.conf.Precision)
	return math.Round(v*scale) / scale
}

// target is one side of one row awaiting resolution
type target struct {
	row     flightlog.Row
	dateCol string
	tzidCol string
	offCol  string
}

// Resolve fills tzid and gmtoffset for every row side where they are absent
// and the row carries coordinates and a lookup date. The dataset is mutated
// in place. Quota exhaustion ends the pass early and is reported through the
// Result, not as an error; per-pair failures are logged and isolated.
func (r *Resolver) Resolve(ctx context.Context, ds *dataset.Dataset) (*Result, error) {
	schema := ds.Schema()
	res := &Result{}

	// group pending row sides by rounded coordinate pair, preserving
	// first-seen order so runs are deterministic
	groups := make(map[coordKey][]target)
	var order []coordKey
	for _, side := range []flightlog.Side{flightlog.SideDeparture, flightlog.SideArrival} {
		latCol, okLat := schema.SideColumn(side, roleLat)
		lonCol, okLon := schema.SideColumn(side, roleLon)
		tzidCol, okTZ := schema.SideColumn(side, roleTZID)
		offCol, okOff := schema.SideColumn(side, roleGMTOffset)
		if !okLat || !okLon || !okTZ || !okOff {
			continue
		}
		var dateCol flightlog.Column
		okDate := false
		for _, col := range schema.SideColumns(side) {
			if col.TZLookup {
				dateCol = col
				okDate = true
				break
			}
		}
		if !okDate {
			continue
		}
		for _, row := range ds.Rows() {
			if !row.IsAbsent(tzidCol.Name) && !row.IsAbsent(offCol.Name) {
				continue
			}
			if row.IsAbsent(latCol.Name) || row.IsAbsent(lonCol.Name) || row.IsAbsent(dateCol.Name) {
				res.Unresolved++
				continue
			}
			lat, err := row.GetFloat(latCol.Name)
			if err != nil {
				res.Unresolved++
				continue
			}
			lon, err := row.GetFloat(lonCol.Name)
			if err != nil {
				res.Unresolved++
				continue
			}
			key := coordKey{lat: r.round(lat), lon: r.round(lon)}
			if _, seen := groups[key]; !seen {
				order = append(order, key)
			}
			groups[key] = append(groups[key], target{
				row:     row,
				dateCol: dateCol.Name,
				tzidCol: tzidCol.Name,
				offCol:  offCol.Name,
			})
		}
	}

	r.logger.Infof("dataset %s: resolving %d distinct coordinate pairs", ds.ID(), len(order))
	for i, key := range order {
		targets := groups[key]
		tz, ok := r.cache[key]
		if !ok {
			date, err := targets[0].row.GetTime(targets[0].dateCol)
			if err != nil {
				res.Unresolved += len(targets)
				continue
			}
			tz, err = r.source.Lookup(ctx, key.lat, key.lon, date)
			if err != nil {
				if _, quota := err.(errors.QuotaError); quota {
					// recoverable: the limit is hourly and external to the
					// process, so leave the rest for a later run
					res.QuotaReached = true
					for _, remaining := range order[i:] {
						res.Unresolved += len(groups[remaining])
					}
					r.logger.Warnf("dataset %s: quota exhausted, %d row sides unresolved", ds.ID(), res.Unresolved)
					return res, nil
				}
				if ctx.Err() != nil {
					return res, ctx.Err()
				}
				r.logger.Errorf("dataset %s: %v", ds.ID(), err)
				res.Unresolved += len(targets)
				continue
			}
			r.cache[key] = tz
		}
		for _, t := range targets {
			if err := t.row.SetString(t.tzidCol, tz.ID); err != nil {
				return res, err
			}
			if err := t.row.SetFloat(t.offCol, tz.GMTOffset); err != nil {
				return res, err
			}
			res.Resolved++
		}
	}
	r.logger.Infof("dataset %s: resolved %d row sides, %d unresolved", ds.ID(), res.Resolved, res.Unresolved)
	return res, nil
}
