// Package refdata loads the read-only reference tables the pipeline
// consults: the OurAirports airport table, the OpenFlights airline table and
// the aircraft type designator table. Tables are keyed by airport, airline
// and aircraft codes and refreshed by the update routines in this package;
// nothing else ever mutates them.
package refdata

import (
	"io"
	"strings"

	"github.com/flightlog/flightlog"
	"github.com/flightlog/flightlog/codec"
	"github.com/flightlog/flightlog/dataset"
	"github.com/flightlog/flightlog/schema"
)

// Airport is one row of the airport reference table
type Airport struct {
	ID           int64
	Ident        string
	Name         string
	Municipality string
	Country      string
	IATA         string
	Lat          float64
	Lon          float64
}

// Airports is a lookup table of airports keyed by ICAO ident and IATA code
type Airports struct {
	byIdent map[string]*Airport
	byIATA  map[string]*Airport
}

// LoadAirports reads an OurAirports-format CSV into a lookup table
func LoadAirports(r io.Reader) (*Airports, error) {
	s, err := schema.Load("airports")
	if err != nil {
		return nil, err
	}
	ds, err := codec.ReadDataset(r, s, &codec.ReaderConf{HeaderLines: 1})
	if err != nil {
		return nil, err
	}
	table := &Airports{
		byIdent: make(map[string]*Airport, ds.NumRows()),
		byIATA:  make(map[string]*Airport, ds.NumRows()),
	}
	for _, row := range ds.Rows() {
		a := &Airport{}
		a.ID, _ = row.GetInt("id")
		a.Ident, _ = row.GetString("ident")
		a.Name, _ = row.GetString("name")
		a.Municipality, _ = row.GetString("municipality")
		a.Country, _ = row.GetString("iso_country")
		a.IATA, _ = row.GetString("iata_code")
		a.Lat, _ = row.GetFloat("latitude_deg")
		a.Lon, _ = row.GetFloat("longitude_deg")
		if a.Ident != "" {
			table.byIdent[a.Ident] = a
		}
		if a.IATA != "" {
			table.byIATA[a.IATA] = a
		}
	}
	return table, nil
}

// ByIdent returns the airport with the given ICAO ident, if known
func (t *Airports) ByIdent(ident string) (*Airport, bool) {
	a, ok := t.byIdent[ident]
	return a, ok
}

// ByIATA returns the airport with the given IATA code, if known
func (t *Airports) ByIATA(code string) (*Airport, bool) {
	a, ok := t.byIATA[code]
	return a, ok
}

// NumAirports returns the number of airports keyed by ident
func (t *Airports) NumAirports() int {
	return len(t.byIdent)
}

// Airline is one row of the OpenFlights airline reference table
type Airline struct {
	ID       int64
	Name     string
	IATA     string
	ICAO     string
	Callsign string
	Country  string
	Active   bool
}

// Airlines is a lookup table of airlines keyed by IATA and ICAO code
type Airlines struct {
	byIATA map[string]*Airline
	byICAO map[string]*Airline
}

// LoadAirlines reads an OpenFlights airlines.dat file (no header, \N for
// absent values) into a lookup table
func LoadAirlines(r io.Reader) (*Airlines, error) {
	s, err := schema.Load("airlines")
	if err != nil {
		return nil, err
	}
	ds, err := codec.ReadDataset(r, s, &codec.ReaderConf{NilValue: `\N`})
	if err != nil {
		return nil, err
	}
	table := &Airlines{
		byIATA: make(map[string]*Airline, ds.NumRows()),
		byICAO: make(map[string]*Airline, ds.NumRows()),
	}
	for _, row := range ds.Rows() {
		a := &Airline{}
		a.ID, _ = row.GetInt("id")
		a.Name, _ = row.GetString("name")
		a.IATA, _ = row.GetString("iata")
		a.ICAO, _ = row.GetString("icao")
		a.Callsign, _ = row.GetString("callsign")
		a.Country, _ = row.GetString("country")
		active, _ := row.GetString("active")
		a.Active = strings.EqualFold(active, "Y")
		if a.IATA != "" {
			table.byIATA[a.IATA] = a
		}
		if a.ICAO != "" {
			table.byICAO[a.ICAO] = a
		}
	}
	return table, nil
}

// ByIATA returns the airline with the given IATA code, if known
func (t *Airlines) ByIATA(code string) (*Airline, bool) {
	a, ok := t.byIATA[code]
	return a, ok
}

// ByICAO returns the airline with the given ICAO code, if known
func (t *Airlines) ByICAO(code string) (*Airline, bool) {
	a, ok := t.byICAO[code]
	return a, ok
}

// AircraftType is one row of the aircraft type designator table
type AircraftType struct {
	ICAOType  string
	IATAType  string
	ModelName string
}

// AircraftTypes is a lookup table of aircraft type designators keyed by IATA
// type code
type AircraftTypes struct {
	byIATA map[string]*AircraftType
}

// LoadAircraftTypes reads an aircraft type designator CSV into a lookup table
func LoadAircraftTypes(r io.Reader) (*AircraftTypes, error) {
	s, err := schema.Load("aircraft")
	if err != nil {
		return nil, err
	}
	ds, err := codec.ReadDataset(r, s, &codec.ReaderConf{HeaderLines: 1})
	if err != nil {
		return nil, err
	}
	table := &AircraftTypes{byIATA: make(map[string]*AircraftType, ds.NumRows())}
	for _, row := range ds.Rows() {
		a := &AircraftType{}
		a.ICAOType, _ = row.GetString("icao_type")
		a.IATAType, _ = row.GetString("iata_type")
		a.ModelName, _ = row.GetString("model_name")
		if a.IATAType != "" {
			table.byIATA[a.IATAType] = a
		}
	}
	return table, nil
}

// ByIATAType returns the designator with the given IATA type code, if known
func (t *AircraftTypes) ByIATAType(code string) (*AircraftType, bool) {
	a, ok := t.byIATA[code]
	return a, ok
}

// EnrichAirports fills absent airport columns (name, city, country,
// coordinates, reference id) on both sides of every row from the airport
// table, matching first on ICAO ident and then on IATA code. Already-present
// values are left alone.
func EnrichAirports(ds *dataset.Dataset, airports *Airports) int {
	s := ds.Schema()
	enriched := 0
	for _, side := range []flightlog.Side{flightlog.SideDeparture, flightlog.SideArrival} {
		icaoCol, okICAO := s.SideColumn(side, "icao")
		iataCol, okIATA := s.SideColumn(side, "iata")
		if !okICAO && !okIATA {
			continue
		}
		for _, row := range ds.Rows() {
			var airport *Airport
			if okICAO && !row.IsAbsent(icaoCol.Name) {
				if code, err := row.GetString(icaoCol.Name); err == nil {
					airport, _ = airports.ByIdent(code)
				}
			}
			if airport == nil && okIATA && !row.IsAbsent(iataCol.Name) {
				if code, err := row.GetString(iataCol.Name); err == nil {
					airport, _ = airports.ByIATA(code)
				}
			}
			if airport == nil {
				continue
			}
			if fillSide(s, row, side, airport) {
				enriched++
			}
		}
	}
	return enriched
}

func fillSide(s flightlog.Schema, row flightlog.Row, side flightlog.Side, airport *Airport) bool {
	filled := false
	fillString := func(role, value string) {
		col, ok := s.SideColumn(side, role)
		if !ok || value == "" || !row.IsAbsent(col.Name) {
			return
		}
		if row.SetString(col.Name, value) == nil {
			filled = true
		}
	}
	fillString("name", airport.Name)
	fillString("municipality", airport.Municipality)
	fillString("iso_country", airport.Country)
	fillString("icao", airport.Ident)
	fillString("iata", airport.IATA)
	if col, ok := s.SideColumn(side, "lat"); ok && row.IsAbsent(col.Name) {
		if row.SetFloat(col.Name, airport.Lat) == nil {
			filled = true
		}
	}
	if col, ok := s.SideColumn(side, "lon"); ok && row.IsAbsent(col.Name) {
		if row.SetFloat(col.Name, airport.Lon) == nil {
			filled = true
		}
	}
	if col, ok := s.SideColumn(side, "ourairports_id"); ok && row.IsAbsent(col.Name) {
		if row.SetInt(col.Name, airport.ID) == nil {
			filled = true
		}
	}
	return filled
}
