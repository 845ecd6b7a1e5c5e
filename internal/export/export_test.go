package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
	"gopkg.in/yaml.v3"

	"github.com/kidseatfree/venue-cli/internal/browse"
	"github.com/kidseatfree/venue-cli/internal/model"
)

var testNow = time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func sampleResults() []browse.Result {
	bistro := model.Venue{
		ID:           "example-bistro",
		Name:         "Example Bistro",
		Area:         "belconnen",
		Address:      "1 Example St, Belconnen ACT 2617",
		Days:         []model.Day{model.Tuesday, model.Thursday},
		Details:      "Kids eat free with an adult main",
		Website:      "https://bistro.example",
		Phone:        []string{"02 6000 0000"},
		VerifiedDate: "2025-06-20",
		Active:       true,
	}
	bistro.SetCoordinate(model.Coordinate{Latitude: -35.2388, Longitude: 149.0661})

	club := model.Venue{
		ID:                 "tuggers-club",
		Name:               "Tuggers Club",
		Area:               "tuggeranong",
		Days:               []model.Day{model.Sunday},
		Details:            "Members' kids eat free",
		MembershipRequired: true,
		MembershipDetails:  ptr("Free club membership"),
		Website:            "https://club.example",
		Phone:              []string{"1", "2"},
		VerifiedDate:       "2025-01-01",
		Active:             true,
	}

	return []browse.Result{
		{Venue: bistro, DistanceKm: ptr(1.234)},
		{Venue: club},
	}
}

func testOptions() Options {
	return Options{
		Now: testNow,
		Areas: map[string]model.Area{
			"belconnen": {Name: "belconnen", DisplayName: "Belconnen"},
		},
	}
}

func TestParseFormat(t *testing.T) {
	for _, name := range Formats() {
		f, err := ParseFormat(name)
		require.NoError(t, err)
		assert.Equal(t, Format(name), f)
	}

	f, err := ParseFormat(" JSON ")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestFormat_Binary(t *testing.T) {
	assert.True(t, FormatXLSX.Binary())
	assert.False(t, FormatTable.Binary())
	assert.False(t, FormatGeoJSON.Binary())
}

func TestWrite_UnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, Format("csv"), nil, Options{})
	require.Error(t, err)
}

func TestWrite_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatTable, sampleResults(), testOptions()))

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.GreaterOrEqual(t, len(lines), 4)

	assert.True(t, strings.HasPrefix(lines[0], "NAME"))
	assert.Contains(t, lines[2], "Example Bistro")
	assert.Contains(t, lines[2], "Belconnen")
	assert.Contains(t, lines[2], "Tuesday, Thursday")
	assert.Contains(t, lines[2], "1.2 km")
	assert.Contains(t, lines[2], "fresh")

	assert.Contains(t, lines[3], "Tuggers Club")
	assert.Contains(t, lines[3], "tuggeranong", "unknown area ids are shown as is")
	assert.Contains(t, lines[3], "Free club membership")
	assert.Contains(t, lines[3], "expired")

	assert.Contains(t, out, "2 venue(s)")
}

func TestWrite_TableEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatTable, nil, testOptions()))
	assert.Equal(t, "No venues match the current filters.\n", buf.String())
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, sampleResults(), testOptions()))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)

	assert.Equal(t, "example-bistro", got[0]["id"])
	assert.InDelta(t, 1.234, got[0]["distanceKm"], 1e-9)
	assert.Equal(t, "fresh", got[0]["verification"])
	assert.InDelta(t, -35.2388, got[0]["latitude"], 1e-9)

	_, hasDistance := got[1]["distanceKm"]
	assert.False(t, hasDistance)
	assert.Equal(t, "Free club membership", got[1]["membershipDetails"])
	assert.Equal(t, "expired", got[1]["verification"])
}

func TestWrite_JSONEmptyIsArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, []browse.Result{}, testOptions()))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWrite_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatYAML, sampleResults(), testOptions()))

	var got []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)

	assert.Equal(t, "Example Bistro", got[0]["name"])
	assert.Equal(t, 1.234, got[0]["distance_km"])
	assert.Equal(t, true, got[1]["membership_required"])
}

func TestWrite_GeoJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatGeoJSON, sampleResults(), testOptions()))

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			ID       string `json:"id"`
			Geometry *struct {
				Type        string    `json:"type"`
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fc))

	assert.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 2)

	first := fc.Features[0]
	assert.Equal(t, "example-bistro", first.ID)
	require.NotNil(t, first.Geometry)
	assert.Equal(t, "Point", first.Geometry.Type)
	assert.Equal(t, []float64{149.0661, -35.2388}, first.Geometry.Coordinates, "GeoJSON order is lon, lat")
	assert.InDelta(t, 1.234, first.Properties["distance_km"], 1e-9)

	second := fc.Features[1]
	assert.Nil(t, second.Geometry, "unmapped venues keep a null geometry")
	assert.Equal(t, "Tuggers Club", second.Properties["name"])
}

func TestWrite_XLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatXLSX, sampleResults(), testOptions()))

	f, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)

	sheet, ok := f.Sheet[SheetName]
	require.True(t, ok)
	require.Len(t, sheet.Rows, 3)

	header := sheet.Rows[0]
	assert.Equal(t, "ID", header.Cells[0].String())
	assert.Equal(t, "Status", header.Cells[len(xlsxHeader)-1].String())

	bistro := sheet.Rows[1]
	require.Len(t, bistro.Cells, len(xlsxHeader))
	assert.Equal(t, "example-bistro", bistro.Cells[0].String())
	assert.Equal(t, "Belconnen", bistro.Cells[2].String())
	assert.Equal(t, "fresh", bistro.Cells[15].String())

	club := sheet.Rows[2]
	require.Len(t, club.Cells, len(xlsxHeader))
	assert.Equal(t, "1; 2", club.Cells[10].String())
	assert.Equal(t, "", club.Cells[11].String())
}
