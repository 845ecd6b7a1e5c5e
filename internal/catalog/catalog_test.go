package catalog

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kidseatfree/venue-cli/internal/model"
)

const testMetadata = `{
  "version": "2.0",
  "lastUpdated": "2025-06-01",
  "regions": {
    "act-canberra": {
      "id": "act-canberra",
      "name": "Canberra",
      "country": "Australia",
      "timezone": "Australia/Sydney",
      "priority": 1,
      "defaultCenter": {"latitude": -35.2809, "longitude": 149.13},
      "areas": {"belconnen": {"name": "belconnen", "displayName": "Belconnen"}},
      "files": {"venues": "regions/act-canberra/venues.json", "suburbs": "regions/act-canberra/suburbs.json"}
    },
    "nsw-sydney": {
      "name": "Sydney",
      "country": "Australia",
      "priority": 2,
      "files": {"venues": "regions/nsw-sydney/venues.json", "suburbs": "regions/nsw-sydney/suburbs.json"}
    }
  }
}`

const testVenues = `{
  "region": "act-canberra",
  "lastUpdated": "2025-06-01",
  "notes": "hand checked",
  "venues": [
    {
      "id": "example-bistro",
      "name": "Example Bistro",
      "area": "belconnen",
      "address": "1 Example St, Belconnen ACT 2617",
      "latitude": -35.2388,
      "longitude": 149.0661,
      "days": ["tuesday"],
      "details": "Kids eat free with an adult main",
      "membershipRequired": false,
      "membershipDetails": null,
      "website": "https://example.com",
      "phone": ["02 6000 0000"],
      "extraDetails": [],
      "verifiedDate": "2025-06-01",
      "active": true
    }
  ]
}`

const testSuburbs = `{
  "region": "act-canberra",
  "suburbs": [
    {"name": "belconnen", "displayName": "Belconnen", "latitude": -35.2388, "longitude": 149.0661}
  ]
}`

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"metadata.json":                     {Data: []byte(testMetadata)},
		"regions/act-canberra/venues.json":  {Data: []byte(testVenues)},
		"regions/act-canberra/suburbs.json": {Data: []byte(testSuburbs)},
		"regions/nsw-sydney/venues.json":    {Data: []byte(`{"region":"nsw-sydney","venues":null}`)},
	}
}

func TestOpen(t *testing.T) {
	c, err := Open(testFS())
	require.NoError(t, err)

	regions := c.Regions()
	require.Len(t, regions, 2)
	assert.Equal(t, "act-canberra", regions[0].ID)
	assert.Equal(t, "nsw-sydney", regions[1].ID, "id falls back to the map key")
	assert.Equal(t, "2.0", c.Metadata().Version)
}

func TestOpen_MissingMetadata(t *testing.T) {
	_, err := Open(fstest.MapFS{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog: read metadata")
}

func TestOpen_NoRegions(t *testing.T) {
	_, err := Open(fstest.MapFS{"metadata.json": {Data: []byte(`{"regions":{}}`)}})
	require.Error(t, err)
}

func TestOpen_MalformedMetadata(t *testing.T) {
	_, err := Open(fstest.MapFS{"metadata.json": {Data: []byte(`{`)}})
	require.Error(t, err)
}

func TestRegion(t *testing.T) {
	c, err := Open(testFS())
	require.NoError(t, err)

	r, ok := c.Region("nsw-sydney")
	require.True(t, ok)
	assert.Equal(t, "nsw-sydney", r.ID)

	_, ok = c.Region("tas-hobart")
	assert.False(t, ok)
}

func TestLoadRegion(t *testing.T) {
	c, err := Open(testFS())
	require.NoError(t, err)

	data, err := c.LoadRegion(context.Background(), "act-canberra")
	require.NoError(t, err)

	assert.Equal(t, "Canberra", data.Region.Name)
	assert.Equal(t, "hand checked", data.Venues.Notes)
	require.Len(t, data.Venues.Venues, 1)

	v := data.Venues.Venues[0]
	assert.Equal(t, "Example Bistro", v.Name)
	assert.Equal(t, []model.Day{model.Tuesday}, v.Days)
	assert.Nil(t, v.MembershipDetails)
	_, mapped := v.Coordinate()
	assert.True(t, mapped)

	require.Len(t, data.Suburbs, 1)
	assert.Equal(t, "Belconnen", data.Suburbs[0].DisplayName)
}

func TestLoadRegion_MissingSuburbsDegrades(t *testing.T) {
	c, err := Open(testFS())
	require.NoError(t, err)

	data, err := c.LoadRegion(context.Background(), "nsw-sydney")
	require.NoError(t, err)
	assert.NotNil(t, data.Suburbs)
	assert.Empty(t, data.Suburbs)
	assert.NotNil(t, data.Venues.Venues)
	assert.Empty(t, data.Venues.Venues)
}

func TestLoadRegion_UnknownRegion(t *testing.T) {
	c, err := Open(testFS())
	require.NoError(t, err)

	_, err = c.LoadRegion(context.Background(), "tas-hobart")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownRegion)
}

func TestLoadRegion_MissingVenuesFails(t *testing.T) {
	fsys := testFS()
	delete(fsys, "regions/act-canberra/venues.json")
	c, err := Open(fsys)
	require.NoError(t, err)

	_, err = c.LoadRegion(context.Background(), "act-canberra")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read venues")
}

func TestLoadRegion_CancelledContext(t *testing.T) {
	c, err := Open(testFS())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.LoadRegion(ctx, "act-canberra")
	require.Error(t, err)
}

func TestLoadSuburbs_NoFileNamed(t *testing.T) {
	fsys := fstest.MapFS{"metadata.json": {Data: []byte(`{"regions":{"x":{"files":{"venues":"x.json"}}}}`)}}
	c, err := Open(fsys)
	require.NoError(t, err)

	suburbs, err := c.LoadSuburbs("x")
	require.NoError(t, err)
	assert.Empty(t, suburbs)
}

func TestExists(t *testing.T) {
	c, err := Open(testFS())
	require.NoError(t, err)

	assert.True(t, c.Exists("regions/act-canberra/venues.json"))
	assert.True(t, c.Exists("./regions/act-canberra/venues.json"))
	assert.False(t, c.Exists("regions/nsw-sydney/suburbs.json"))
}

func TestSaveVenues_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, MetadataFile), []byte(testMetadata), 0o644))

	var doc model.VenueDocument
	require.NoError(t, json.Unmarshal([]byte(testVenues), &doc))
	doc.Venues[0].Suburb = "Belconnen"
	doc.Venues[0].Postcode = "2617"

	c, err := OpenDir(dir)
	require.NoError(t, err)
	region, ok := c.Region("act-canberra")
	require.True(t, ok)

	require.NoError(t, SaveVenues(dir, region, &doc))

	raw, err := os.ReadFile(filepath.Join(dir, "regions", "act-canberra", "venues.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n  \"region\": \"act-canberra\"")
	assert.Equal(t, byte('\n'), raw[len(raw)-1])

	loaded, err := c.LoadVenues("act-canberra")
	require.NoError(t, err)
	assert.Equal(t, "2617", loaded.Venues[0].Postcode)
	assert.Equal(t, "Belconnen", loaded.Venues[0].Suburb)

	entries, err := os.ReadDir(filepath.Join(dir, "regions", "act-canberra"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestSaveVenues_NoVenueFile(t *testing.T) {
	err := SaveVenues(t.TempDir(), model.RegionMetadata{ID: "x"}, &model.VenueDocument{})
	require.Error(t, err)
}

func TestReadFile(t *testing.T) {
	c, err := Open(testFS())
	require.NoError(t, err)

	data, err := c.ReadFile("regions/act-canberra/suburbs.json")
	require.NoError(t, err)
	assert.Equal(t, testSuburbs, string(data))

	_, err = c.ReadFile("regions/nsw-sydney/suburbs.json")
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
