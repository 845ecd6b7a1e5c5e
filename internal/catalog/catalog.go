// Package catalog reads and writes the static region, venue, and suburb documents.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/kidseatfree/venue-cli/internal/model"
)

// MetadataFile is the name of the region index inside the data directory.
const MetadataFile = "metadata.json"

// ErrUnknownRegion is returned when a region id is not listed in the metadata.
var ErrUnknownRegion = errors.New("catalog: unknown region")

// RegionData is everything needed to browse one region.
type RegionData struct {
	Region  model.RegionMetadata
	Venues  model.VenueDocument
	Suburbs []model.Suburb
}

// Catalog gives read access to a data directory.
type Catalog struct {
	fsys fs.FS
	meta model.Metadata
}

// Open reads the metadata document from fsys.
func Open(fsys fs.FS) (*Catalog, error) {
	var meta model.Metadata
	if err := readJSON(fsys, MetadataFile, &meta); err != nil {
		return nil, eris.Wrap(err, "catalog: read metadata")
	}
	if len(meta.Regions) == 0 {
		return nil, eris.New("catalog: metadata lists no regions")
	}
	return &Catalog{fsys: fsys, meta: meta}, nil
}

// OpenDir opens the data directory at dir.
func OpenDir(dir string) (*Catalog, error) {
	return Open(os.DirFS(dir))
}

// Metadata returns the raw metadata document.
func (c *Catalog) Metadata() model.Metadata {
	return c.meta
}

// Regions returns all regions ordered by priority.
func (c *Catalog) Regions() []model.RegionMetadata {
	return c.meta.RegionsByPriority()
}

// Region returns the metadata for id.
func (c *Catalog) Region(id string) (model.RegionMetadata, bool) {
	r, ok := c.meta.Regions[id]
	if !ok {
		return model.RegionMetadata{}, false
	}
	if r.ID == "" {
		r.ID = id
	}
	return r, true
}

// LoadRegion reads the venue and suburb documents for id. A region without a
// readable suburb document loads with no suburbs rather than failing.
func (c *Catalog) LoadRegion(ctx context.Context, id string) (*RegionData, error) {
	region, ok := c.Region(id)
	if !ok {
		return nil, eris.Wrapf(ErrUnknownRegion, "catalog: region %q", id)
	}
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "catalog: load region")
	}

	venues, err := c.LoadVenues(id)
	if err != nil {
		return nil, err
	}

	suburbs, err := c.LoadSuburbs(id)
	if err != nil {
		zap.L().Warn("suburb data unavailable, continuing without suggestions",
			zap.String("region", id),
			zap.Error(err),
		)
		suburbs = []model.Suburb{}
	}

	return &RegionData{Region: region, Venues: *venues, Suburbs: suburbs}, nil
}

// LoadVenues reads the venue document for id.
func (c *Catalog) LoadVenues(id string) (*model.VenueDocument, error) {
	region, ok := c.Region(id)
	if !ok {
		return nil, eris.Wrapf(ErrUnknownRegion, "catalog: region %q", id)
	}

	var doc model.VenueDocument
	if err := readJSON(c.fsys, region.Files.Venues, &doc); err != nil {
		return nil, eris.Wrapf(err, "catalog: read venues for %s", id)
	}
	if doc.Venues == nil {
		doc.Venues = []model.Venue{}
	}
	return &doc, nil
}

// LoadSuburbs reads the suburb document for id. A region that names no suburb
// file has no suburbs.
func (c *Catalog) LoadSuburbs(id string) ([]model.Suburb, error) {
	region, ok := c.Region(id)
	if !ok {
		return nil, eris.Wrapf(ErrUnknownRegion, "catalog: region %q", id)
	}
	if region.Files.Suburbs == "" {
		return []model.Suburb{}, nil
	}

	var doc model.SuburbDocument
	if err := readJSON(c.fsys, region.Files.Suburbs, &doc); err != nil {
		return nil, eris.Wrapf(err, "catalog: read suburbs for %s", id)
	}
	if doc.Suburbs == nil {
		doc.Suburbs = []model.Suburb{}
	}
	return doc.Suburbs, nil
}

// Exists reports whether name is present in the data directory.
func (c *Catalog) Exists(name string) bool {
	_, err := fs.Stat(c.fsys, cleanName(name))
	return err == nil
}

// ReadFile returns the raw bytes of a document in the data directory.
func (c *Catalog) ReadFile(name string) ([]byte, error) {
	data, err := fs.ReadFile(c.fsys, cleanName(name))
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: read %s", name)
	}
	return data, nil
}

// SaveVenues writes doc as the venue document of region beneath dir. The file
// is replaced atomically.
func SaveVenues(dir string, region model.RegionMetadata, doc *model.VenueDocument) error {
	if region.Files.Venues == "" {
		return eris.Errorf("catalog: region %q has no venue file", region.ID)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return eris.Wrap(err, "catalog: marshal venues")
	}
	data = append(data, '\n')

	dest := filepath.Join(dir, filepath.FromSlash(cleanName(region.Files.Venues)))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return eris.Wrap(err, "catalog: create venue dir")
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".venues-*.json")
	if err != nil {
		return eris.Wrap(err, "catalog: create temp file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return eris.Wrap(err, "catalog: write venues")
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrap(err, "catalog: close temp file")
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return eris.Wrap(err, "catalog: replace venue file")
	}
	return nil
}

func readJSON(fsys fs.FS, name string, v any) error {
	data, err := fs.ReadFile(fsys, cleanName(name))
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// cleanName turns a metadata file reference into an fs.FS path.
func cleanName(name string) string {
	p := path.Clean("/" + filepath.ToSlash(name))
	return p[1:]
}
