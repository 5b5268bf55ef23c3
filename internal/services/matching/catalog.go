package matching

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"invoice-reconciliation-backend/internal/common"
	"invoice-reconciliation-backend/internal/models"
)

// Catalog maps a normalized model number to its product master row.
type Catalog map[string]models.CatalogEntry

// NewCatalog keys entries by their normalized model number. Later entries
// replace earlier ones with the same key.
func NewCatalog(entries []models.CatalogEntry) Catalog {
	c := make(Catalog, len(entries))
	for _, e := range entries {
		key := Normalize(e.ModelNo)
		if key == "" {
			continue
		}
		c[key] = e
	}
	return c
}

// CatalogLoader supplies the catalog for one run.
type CatalogLoader func() (Catalog, error)

func StaticCatalog(c Catalog) CatalogLoader {
	return func() (Catalog, error) { return c, nil }
}

func FileCatalog(path string) CatalogLoader {
	return func() (Catalog, error) { return LoadCatalogXLSX(path) }
}

// LoadCatalogXLSX reads the first sheet of the product master workbook.
// Columns: model no, product name, SKU, category code, standard rate.
// The first row is a header.
func LoadCatalogXLSX(path string) (Catalog, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, common.MissingInput("match", path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open master workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Catalog{}, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read master sheet %q: %w", sheets[0], err)
	}

	var entries []models.CatalogEntry
	for i, row := range rows {
		if i == 0 {
			continue
		}
		entries = append(entries, models.CatalogEntry{
			ModelNo:      cell(row, 0),
			ProductName:  cell(row, 1),
			SKU:          cell(row, 2),
			CategoryCode: cell(row, 3),
			StandardRate: parseRate(cell(row, 4)),
		})
	}
	return NewCatalog(entries), nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseRate(s string) *float64 {
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
