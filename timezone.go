package flightlog

import (
	"context"
	"time"
)

// Timezone is the result of resolving a coordinate pair on a given date: the
// IANA timezone identifier and the offset from GMT, in hours, that applied on
// the queried date.
type Timezone struct {
	ID        string
	GMTOffset float64
}

// TimezoneSource looks up the timezone for a coordinate pair on a given
// date. Implementations are expected to be rate limited: a lookup may fail
// with errors.QuotaError, which callers treat as a signal to stop issuing
// further lookups for the rest of the run, with errors.NotFoundError when no
// timezone covers the coordinates, or with any other error for transient
// failures. The production implementation is geonames.Client; tests inject
// deterministic fakes.
type TimezoneSource interface {
	Lookup(ctx context.Context, lat, lon float64, date time.Time) (Timezone, error)
}
