package export

import (
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/kidseatfree/venue-cli/internal/browse"
)

// SheetName is the worksheet written by the xlsx format.
const SheetName = "Venues"

var xlsxHeader = []string{
	"ID", "Name", "Area", "Address", "Suburb", "Postcode", "Days", "Details",
	"Membership", "Website", "Phone", "Latitude", "Longitude", "Distance (km)",
	"Verified", "Status",
}

func writeXLSX(w io.Writer, results []browse.Result, opts Options) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetName)
	if err != nil {
		return eris.Wrap(err, "xlsx: add sheet")
	}

	header := sheet.AddRow()
	for _, h := range xlsxHeader {
		header.AddCell().SetString(h)
	}

	now := opts.now()
	for _, r := range results {
		v := r.Venue
		row := sheet.AddRow()
		for _, s := range []string{
			v.ID,
			v.Name,
			opts.areaName(v.Area),
			v.Address,
			v.Suburb,
			v.Postcode,
			dayList(v.Days),
			v.Details,
			membershipText(v),
			v.Website,
			strings.Join(v.Phone, "; "),
		} {
			row.AddCell().SetString(s)
		}

		if c, ok := v.Coordinate(); ok {
			row.AddCell().SetFloat(c.Latitude)
			row.AddCell().SetFloat(c.Longitude)
		} else {
			row.AddCell().SetString("")
			row.AddCell().SetString("")
		}
		if r.DistanceKm != nil {
			row.AddCell().SetFloat(*r.DistanceKm)
		} else {
			row.AddCell().SetString("")
		}

		row.AddCell().SetString(v.VerifiedDate)
		row.AddCell().SetString(string(v.VerificationStatus(now)))
	}

	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "xlsx: write file")
	}
	return nil
}
