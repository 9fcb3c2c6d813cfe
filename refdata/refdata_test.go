package refdata

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flightlog/flightlog/dataset"
	"github.com/flightlog/flightlog/schema"
)

const airportsCSV = `"id","ident","type","name","latitude_deg","longitude_deg","elevation_ft","continent","iso_country","iso_region","municipality","scheduled_service","gps_code","iata_code","local_code","home_link","wikipedia_link","keywords"
2434,"EGLL","large_airport","London Heathrow Airport",51.4706,-0.461941,83,"EU","GB","GB-ENG","London","yes","EGLL","LHR","","","",""
3622,"KJFK","large_airport","John F Kennedy International Airport",40.639801,-73.7789,13,"NA","US","US-NY","New York","yes","KJFK","JFK","","","",""
26396,"SCGZ","small_airport","Guardiamarina Zanartu Airport",-54.931244,-67.626957,88,"SA","CL","CL-MA","Puerto Williams","yes","SCGZ","WPU","","","",""
`

const airlinesDat = `324,"All Nippon Airways","ANA All Nippon Airways","NH","ANA","ALL NIPPON","Japan","Y"
1355,"British Airways",\N,"BA","BAW","SPEEDBIRD","United Kingdom","Y"
2822,"Indian Airlines",\N,"IC","IAC","INDAIR","India","N"
`

const aircraftCSV = `icao_type,iata_type,model_name
B738,738,Boeing 737-800
A20N,32N,Airbus A320neo
B77W,77W,Boeing 777-300ER
`

func TestLoadAirports(t *testing.T) {
	table, err := LoadAirports(strings.NewReader(airportsCSV))
	require.Nil(t, err)
	require.Equal(t, 3, table.NumAirports())

	lhr, ok := table.ByIdent("EGLL")
	require.True(t, ok)
	require.Equal(t, int64(2434), lhr.ID)
	require.Equal(t, "London Heathrow Airport", lhr.Name)
	require.Equal(t, "London", lhr.Municipality)
	require.Equal(t, "GB", lhr.Country)
	require.Equal(t, "LHR", lhr.IATA)
	require.InDelta(t, 51.4706, lhr.Lat, 0.0001)
	require.InDelta(t, -0.461941, lhr.Lon, 0.0001)

	jfk, ok := table.ByIATA("JFK")
	require.True(t, ok)
	require.Equal(t, "KJFK", jfk.Ident)

	_, ok = table.ByIdent("XXXX")
	require.False(t, ok)
}

func TestLoadAirlines(t *testing.T) {
	table, err := LoadAirlines(strings.NewReader(airlinesDat))
	require.Nil(t, err)

	ba, ok := table.ByIATA("BA")
	require.True(t, ok)
	require.Equal(t, int64(1355), ba.ID)
	require.Equal(t, "British Airways", ba.Name)
	require.Equal(t, "BAW", ba.ICAO)
	require.Equal(t, "SPEEDBIRD", ba.Callsign)
	require.Equal(t, "United Kingdom", ba.Country)
	require.True(t, ba.Active)

	ic, ok := table.ByICAO("IAC")
	require.True(t, ok)
	require.False(t, ic.Active)

	_, ok = table.ByIATA("ZZ")
	require.False(t, ok)
}

func TestLoadAircraftTypes(t *testing.T) {
	table, err := LoadAircraftTypes(strings.NewReader(aircraftCSV))
	require.Nil(t, err)

	b738, ok := table.ByIATAType("738")
	require.True(t, ok)
	require.Equal(t, "B738", b738.ICAOType)
	require.Equal(t, "Boeing 737-800", b738.ModelName)

	_, ok = table.ByIATAType("000")
	require.False(t, ok)
}

const legDialect = `
dialect: airportlegs
columns:
  - name: iata_dep
    type: string
    side: dep
    provenance: iata
  - name: iata_arr
    type: string
    side: arr
    provenance: iata
  - name: icao_dep
    type: string
    side: dep
    provenance: icao
  - name: icao_arr
    type: string
    side: arr
    provenance: icao
  - name: name_dep
    type: string
    side: dep
    provenance: name
  - name: name_arr
    type: string
    side: arr
    provenance: name
  - name: city_dep
    type: string
    side: dep
    provenance: municipality
  - name: city_arr
    type: string
    side: arr
    provenance: municipality
  - name: country_dep
    type: string
    side: dep
    provenance: iso_country
  - name: country_arr
    type: string
    side: arr
    provenance: iso_country
  - name: lat_dep
    type: float
    side: dep
    provenance: lat
  - name: lat_arr
    type: float
    side: arr
    provenance: lat
  - name: lon_dep
    type: float
    side: dep
    provenance: lon
  - name: lon_arr
    type: float
    side: arr
    provenance: lon
  - name: oaid_dep
    type: integer
    side: dep
    provenance: ourairports_id
  - name: oaid_arr
    type: integer
    side: arr
    provenance: ourairports_id
`

func TestEnrichAirports(t *testing.T) {
	airports, err := LoadAirports(strings.NewReader(airportsCSV))
	require.Nil(t, err)
	s, err := schema.Parse("airportlegs", []byte(legDialect))
	require.Nil(t, err)

	ds := dataset.CreateDataset(s)
	// departure known by ICAO, arrival only by IATA
	row := dataset.CreateRow(s)
	require.Nil(t, row.SetString("icao_dep", "EGLL"))
	require.Nil(t, row.SetString("iata_arr", "JFK"))
	require.Nil(t, ds.Append(row))
	// neither code known: left alone
	unknown := dataset.CreateRow(s)
	require.Nil(t, unknown.SetString("iata_dep", "ZZZ"))
	require.Nil(t, ds.Append(unknown))

	enriched := EnrichAirports(ds, airports)
	require.Equal(t, 2, enriched)

	got := ds.Row(0)
	name, err := got.GetString("name_dep")
	require.Nil(t, err)
	require.Equal(t, "London Heathrow Airport", name)
	iata, err := got.GetString("iata_dep")
	require.Nil(t, err)
	require.Equal(t, "LHR", iata)
	icao, err := got.GetString("icao_arr")
	require.Nil(t, err)
	require.Equal(t, "KJFK", icao)
	lat, err := got.GetFloat("lat_arr")
	require.Nil(t, err)
	require.InDelta(t, 40.6398, lat, 0.0001)
	oaid, err := got.GetInt("oaid_dep")
	require.Nil(t, err)
	require.Equal(t, int64(2434), oaid)

	require.True(t, ds.Row(1).IsAbsent("name_dep"))
	require.True(t, ds.Row(1).IsAbsent("name_arr"))
}

func TestEnrichAirportsKeepsExistingValues(t *testing.T) {
	airports, err := LoadAirports(strings.NewReader(airportsCSV))
	require.Nil(t, err)
	s, err := schema.Parse("airportlegs", []byte(legDialect))
	require.Nil(t, err)

	ds := dataset.CreateDataset(s)
	row := dataset.CreateRow(s)
	require.Nil(t, row.SetString("icao_dep", "EGLL"))
	require.Nil(t, row.SetString("name_dep", "Heathrow"))
	require.Nil(t, ds.Append(row))

	EnrichAirports(ds, airports)
	name, err := ds.Row(0).GetString("name_dep")
	require.Nil(t, err)
	require.Equal(t, "Heathrow", name)
	city, err := ds.Row(0).GetString("city_dep")
	require.Nil(t, err)
	require.Equal(t, "London", city)
}
