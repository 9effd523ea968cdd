// Package input reads the batch task file that drives a run.
package input

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/freightwatch/bltracker/internal/track"
)

// ReadTasks loads tasks from a CSV or XLSX batch file. Header names are
// matched case- and whitespace-insensitively; rows missing the identifier or
// the extractor key are skipped. A file yielding no valid rows is an error:
// a run with nothing to do is a startup failure, not an empty success.
func ReadTasks(path string) ([]track.Task, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		rows, err = readXLSX(path)
	default:
		rows, err = readCSV(path)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, eris.Errorf("input: %s is empty", path)
	}

	idCol, keyCol := headerColumns(rows[0])
	if idCol < 0 || keyCol < 0 {
		return nil, eris.Errorf("input: %s is missing the id or carrier column", path)
	}

	var tasks []track.Task
	for _, row := range rows[1:] {
		if idCol >= len(row) || keyCol >= len(row) {
			continue
		}
		id := strings.TrimSpace(row[idCol])
		key := strings.ToLower(strings.TrimSpace(row[keyCol]))
		if id == "" || key == "" {
			continue
		}
		tasks = append(tasks, track.Task{ID: id, ExtractorKey: key})
	}
	if len(tasks) == 0 {
		return nil, eris.Errorf("input: %s has no valid rows", path)
	}
	return tasks, nil
}

// headerColumns resolves the id and extractor-key column indexes from the
// header row. Both the original spreadsheet headers (bl/scraper) and the
// generic ones (id/carrier) are accepted.
func headerColumns(header []string) (idCol, keyCol int) {
	idCol, keyCol = -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "bl", "id":
			if idCol < 0 {
				idCol = i
			}
		case "scraper", "carrier", "extractor":
			if keyCol < 0 {
				keyCol = i
			}
		}
	}
	return idCol, keyCol
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "input: open csv")
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "input: read csv")
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func readXLSX(path string) ([][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "input: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("input: %s has no sheets", path)
	}

	sheet := f.Sheets[0]
	rows := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		rows = append(rows, cells)
	}
	return rows, nil
}
