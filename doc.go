// Package flightlog contains the core components of flightlog, an engine for
// maintaining a personal flight-history dataset. This root package defines the
// types which are employed by every stage of the pipeline - declared schemas,
// typed rows, column types and the timezone lookup capability - while
// subpackages provide implementations for loading schemas, decoding and
// encoding datasets, merging freshly scraped rows into an existing store,
// resolving airport timezones, validating distances and durations, and
// exporting to third-party formats.
package flightlog
