// Package dataset loads the property CSV into a property.Store.
//
// Real-estate exports are messy: prices carry "$" and thousands
// separators, counts appear as floats, and missing values show up as
// empty strings or NA markers. Parsing is therefore forgiving: a row is
// only skipped when a required numeric field cannot be recovered at all,
// and skips are accounted for in the load report rather than failing the
// whole load. Files ending in .gz are decompressed transparently.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/propgo/propgo"
	"github.com/propgo/propgo/property"
)

// Columns maps the record fields to CSV header names.
type Columns struct {
	Bedrooms  string `yaml:"bedrooms"`
	Bathrooms string `yaml:"bathrooms"`
	Price     string `yaml:"price"`
	YearBuilt string `yaml:"yearBuilt"`
	Latitude  string `yaml:"latitude"`
	Longitude string `yaml:"longitude"`
	Basement  string `yaml:"basement"`
	Fireplace string `yaml:"fireplace"`
	Attic     string `yaml:"attic"`
	Garage    string `yaml:"garage"`
}

// DefaultColumns returns the header names of the cleaned dataset export.
func DefaultColumns() Columns {
	return Columns{
		Bedrooms:  "bedrooms",
		Bathrooms: "bathrooms",
		Price:     "price",
		YearBuilt: "year_built",
		Latitude:  "latitude",
		Longitude: "longitude",
		Basement:  "has_basement",
		Fireplace: "has_fireplace",
		Attic:     "has_attic",
		Garage:    "has_garage",
	}
}

// Report summarizes one load.
type Report struct {
	Rows    int // data rows read
	Loaded  int // rows turned into properties
	Skipped int // rows dropped for unrecoverable required fields
}

// Load reads the CSV at path. Bedrooms and price are required per row;
// everything else defaults to zero/false when absent. A file with headers
// but no usable rows yields an empty store and propgo.ErrEmptyDataset,
// which callers may treat as non-fatal.
func Load(path string, cols Columns) (*property.Store, Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Report{}, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, Report{}, fmt.Errorf("open gzip dataset: %w", err)
		}
		defer gz.Close()
		r = gz
	}

	return Read(r, cols)
}

// Read parses CSV data from r. See Load.
func Read(r io.Reader, cols Columns) (*property.Store, Report, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // tolerate ragged rows

	header, err := cr.Read()
	if err == io.EOF {
		return property.NewStore(nil), Report{}, propgo.ErrEmptyDataset
	}
	if err != nil {
		return nil, Report{}, fmt.Errorf("read header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{cols.Bedrooms, cols.Price} {
		if _, ok := col[required]; !ok {
			return nil, Report{}, fmt.Errorf("dataset is missing required column %q", required)
		}
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var (
		props  []property.Property
		report Report
	)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, report, fmt.Errorf("read row %d: %w", report.Rows+1, err)
		}
		report.Rows++

		bedrooms, ok1 := parseIntLike(field(row, cols.Bedrooms))
		price, ok2 := parsePriceLike(field(row, cols.Price))
		if !ok1 || !ok2 || bedrooms < 0 || price <= 0 {
			report.Skipped++
			continue
		}

		bathrooms, _ := parseFloatLike(field(row, cols.Bathrooms))
		yearBuilt, _ := parseIntLike(field(row, cols.YearBuilt))
		lat, _ := parseFloatLike(field(row, cols.Latitude))
		lon, _ := parseFloatLike(field(row, cols.Longitude))

		props = append(props, property.Property{
			Bedrooms:     int(bedrooms),
			Bathrooms:    bathrooms,
			Price:        int64(price),
			YearBuilt:    int(yearBuilt),
			Latitude:     lat,
			Longitude:    lon,
			HasBasement:  parseBoolLike(field(row, cols.Basement)),
			HasFireplace: parseBoolLike(field(row, cols.Fireplace)),
			HasAttic:     parseBoolLike(field(row, cols.Attic)),
			HasGarage:    parseBoolLike(field(row, cols.Garage)),
		})
		report.Loaded++
	}

	store := property.NewStore(props)
	if store.Len() == 0 {
		return store, report, propgo.ErrEmptyDataset
	}
	return store, report, nil
}

// missing markers commonly found in exports
func isNA(s string) bool {
	switch strings.ToLower(s) {
	case "", "na", "n/a", "none", "null", "-":
		return true
	}
	return false
}

// parseIntLike recovers an integer from exports that render counts as
// "3", "3.0", or " 3 ".
func parseIntLike(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if isNA(s) {
		return 0, false
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, true
	}
	if f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64); err == nil {
		if f == float64(int64(f)) {
			return int64(f), true
		}
	}
	return 0, false
}

// parsePriceLike strips currency formatting ("$250,000") before parsing.
func parsePriceLike(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "$")
	if isNA(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func parseFloatLike(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if isNA(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// parseBoolLike accepts true/false words and numeric indicator columns,
// where any positive count (fireplaces, garage indicator) means present.
func parseBoolLike(s string) bool {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "true", "t", "yes", "y":
		return true
	case "false", "f", "no", "n":
		return false
	}
	if v, ok := parseFloatLike(s); ok {
		return v > 0
	}
	return false
}
