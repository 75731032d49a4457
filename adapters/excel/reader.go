// Package excel imports daily check-in history from spreadsheet exports
// so users arriving from other tracking apps start with a populated
// window instead of an empty one.
package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"suppsignal/domain/checkin"
	"suppsignal/domain/core"
	"suppsignal/internal/logging"
)

// CheckinReader reads daily check-in rows from .xlsx or .csv files.
// Expected header: date, mood, sleep_quality, energy, focus (order
// free, extra columns ignored).
type CheckinReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	log      *logging.Logger
}

// NewCheckinReader creates a reader that handles both Excel and CSV files
func NewCheckinReader(filePath string, log *logging.Logger) *CheckinReader {
	if log == nil {
		log = logging.DefaultLogger
	}
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(filePath)) == ".csv" {
		fileType = "csv"
	}
	return &CheckinReader{filePath: filePath, fileType: fileType, log: log.For("excel")}
}

// Read parses the file into daily entries for the given user. Rows with
// unparseable dates are skipped with a warning; unknown mood strings
// leave the mood unset rather than failing the import.
func (r *CheckinReader) Read(userID core.UserID) ([]checkin.DailyEntry, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	default:
		rows, err = r.readExcelRows()
	}
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("file must have a header row and at least one data row")
	}

	return r.parseRows(userID, rows)
}

func (r *CheckinReader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	// Always use the first sheet
	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	r.log.Debug("read %d rows from sheet %q", len(rows), sheet)
	return rows, nil
}

func (r *CheckinReader) readCSVRows() ([][]string, error) {
	f, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return rows, nil
}

func (r *CheckinReader) parseRows(userID core.UserID, rows [][]string) ([]checkin.DailyEntry, error) {
	cols := map[string]int{}
	for i, h := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	dateCol, ok := cols["date"]
	if !ok {
		return nil, fmt.Errorf("missing required 'date' column")
	}

	var entries []checkin.DailyEntry
	for i, row := range rows[1:] {
		day, err := parseDay(cell(row, dateCol))
		if err != nil {
			r.log.Warn("skipping row %d: %v", i+2, err)
			continue
		}

		entry := checkin.DailyEntry{
			UserID:  userID,
			Day:     day,
			Metrics: map[checkin.Metric]float64{},
		}
		if c, ok := cols["mood"]; ok {
			if m := parseMood(cell(row, c)); m != nil {
				entry.Mood = m
			}
		}
		for col, metric := range map[string]checkin.Metric{
			"sleep_quality": checkin.MetricSleep,
			"energy":        checkin.MetricEnergy,
			"focus":         checkin.MetricFocus,
		} {
			c, ok := cols[col]
			if !ok {
				continue
			}
			if v, err := strconv.ParseFloat(strings.TrimSpace(cell(row, c)), 64); err == nil {
				entry.Metrics[metric] = v
			}
		}
		entries = append(entries, entry)
	}

	r.log.Info("imported %d check-in entries from %s", len(entries), r.filePath)
	return entries, nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
}

func parseDay(s string) (core.Day, error) {
	return core.ParseDay(strings.TrimSpace(s))
}

// parseMood maps common export spellings onto the engine's three-bucket
// scale
func parseMood(s string) *checkin.MoodBucket {
	var m checkin.MoodBucket
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "bad", "poor":
		m = checkin.MoodLow
	case "ok", "okay", "neutral", "fine":
		m = checkin.MoodOK
	case "sharp", "great", "good", "high":
		m = checkin.MoodSharp
	default:
		return nil
	}
	return &m
}
