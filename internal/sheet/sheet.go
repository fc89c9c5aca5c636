// Package sheet imports candidate lists from spreadsheets and exports liked
// places to one.
package sheet

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"placeswipe/internal/domain"
)

// LikesSheet is the sheet name used for exported likes
const LikesSheet = "Likes"

// ErrNoSheet is returned when a workbook has no sheets
var ErrNoSheet = errors.New("sheet: workbook has no sheets")

var likesHeader = []interface{}{"Name", "Note", "Distance (mi)", "Lat", "Lng"}

// parseCoord accepts "41.5" and the comma-decimal "41,5"
func parseCoord(val string) (float64, error) {
	val = strings.TrimSpace(strings.ReplaceAll(val, ",", "."))
	if val == "" {
		return 0, fmt.Errorf("empty")
	}
	return strconv.ParseFloat(val, 64)
}

func cell(row []string, i int) string {
	if i >= 0 && i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

// columns maps the fields ReadCandidates needs to column indexes
type columns struct {
	name, note, lat, lng int
}

var defaultColumns = columns{name: 0, note: 1, lat: 2, lng: 3}

// headerColumns locates columns by header text so exported likes, which
// carry an extra distance column, import cleanly. Unknown headers fall back
// to the default positions.
func headerColumns(header []string) columns {
	cols := columns{name: -1, note: -1, lat: -1, lng: -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "name":
			cols.name = i
		case "note", "notes":
			cols.note = i
		case "lat", "latitude":
			cols.lat = i
		case "lng", "lon", "long", "longitude":
			cols.lng = i
		}
	}
	if cols.name < 0 {
		return defaultColumns
	}
	return cols
}

// ReadCandidates reads the first sheet of an xlsx workbook. Row 1 is a
// header naming the Name, Note, Lat and Lng columns; without a recognisable
// header those are taken as columns A to D. Rows without a name are skipped
// and rows with an unusable position keep the name without a coordinate.
func ReadCandidates(r io.Reader) ([]domain.Candidate, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("sheet: open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheet
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("sheet: read rows: %w", err)
	}

	if len(rows) == 0 {
		return nil, nil
	}
	cols := headerColumns(rows[0])

	var candidates []domain.Candidate
	for _, row := range rows[1:] {
		name := cell(row, cols.name)
		if name == "" {
			continue
		}

		c := domain.Candidate{Name: name, Note: cell(row, cols.note)}

		lat, err1 := parseCoord(cell(row, cols.lat))
		lng, err2 := parseCoord(cell(row, cols.lng))
		if err1 == nil && err2 == nil {
			c.Coordinate = domain.NewCoordinate(lat, lng)
		}

		candidates = append(candidates, c)
	}
	return candidates, nil
}

// WriteLikes writes liked candidates as an xlsx workbook to w
func WriteLikes(w io.Writer, likes []domain.Candidate) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(LikesSheet)
	if err != nil {
		return err
	}

	sw, err := f.NewStreamWriter(LikesSheet)
	if err != nil {
		return err
	}

	if err := sw.SetRow("A1", likesHeader); err != nil {
		return err
	}

	for i, c := range likes {
		row := []interface{}{c.Name, c.Note, nil, nil, nil}
		if c.DistanceMi != nil {
			row[2] = math.Round(*c.DistanceMi*10) / 10
		}
		if c.Coordinate != nil {
			row[3] = c.Coordinate.Lat
			row[4] = c.Coordinate.Lng
		}

		addr, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(addr, row); err != nil {
			return err
		}
	}

	if err := sw.Flush(); err != nil {
		return err
	}

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	return f.Write(w)
}
