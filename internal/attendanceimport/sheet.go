package attendanceimport

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Logical spreadsheet fields. Device logs come from many vendors, so the
// header row is matched against synonyms instead of a fixed layout.
const (
	fieldEmployeeID = "employee_id"
	fieldName       = "name"
	fieldDate       = "date"
	fieldTimeIn     = "time_in"
	fieldTimeOut    = "time_out"
	fieldDeviceID   = "device_id"
	fieldLocation   = "location"
)

// Synonym order matters: the more specific fields claim their columns before
// the looser ones so that "check in time" never lands on the name column.
var fieldOrder = []string{
	fieldTimeIn, fieldTimeOut, fieldDate, fieldEmployeeID, fieldName, fieldDeviceID, fieldLocation,
}

var fieldSynonyms = map[string][]string{
	fieldEmployeeID: {"employee id", "employee_id", "employee no", "emp id", "badge", "nik", "number", "id"},
	fieldName:       {"employee name", "full name", "name", "nama"},
	fieldDate:       {"date", "tanggal", "work day", "day"},
	fieldTimeIn:     {"time in", "time_in", "check in", "check-in", "clock in", "clock-in", "masuk", "in"},
	fieldTimeOut:    {"time out", "time_out", "check out", "check-out", "clock out", "clock-out", "pulang", "out"},
	fieldDeviceID:   {"device", "terminal", "machine", "mesin"},
	fieldLocation:   {"location", "lokasi", "site", "branch"},
}

// columnMap maps logical fields to zero-based column indexes.
type columnMap map[string]int

// detectColumns lower-cases the header row and assigns each logical field
// the first unclaimed header containing one of its synonyms. Unmatched
// fields stay unmapped; the row loop decides what that costs.
func detectColumns(headers []string) columnMap {
	lowered := make([]string, len(headers))
	for i, h := range headers {
		lowered[i] = strings.ToLower(strings.TrimSpace(h))
	}

	cols := columnMap{}
	claimed := make([]bool, len(headers))

	for _, field := range fieldOrder {
	next:
		for _, syn := range fieldSynonyms[field] {
			for i, h := range lowered {
				if claimed[i] || h == "" {
					continue
				}
				if matchesHeader(h, syn) {
					cols[field] = i
					claimed[i] = true
					break next
				}
			}
		}
	}
	return cols
}

// matchesHeader does substring matching except for the bare "id" synonym,
// which must equal the whole header so it cannot claim "device id".
func matchesHeader(header, syn string) bool {
	if syn == "id" {
		return header == syn
	}
	return strings.Contains(header, syn)
}

func (m columnMap) has(field string) bool {
	_, ok := m[field]
	return ok
}

func (m columnMap) cell(row []string, field string) string {
	idx, ok := m[field]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// sheetRow is one parsed data row, still unresolved against the directory.
type sheetRow struct {
	RowNumber   int
	EmployeeKey string
	Name        string
	Date        time.Time
	TimeIn      *time.Time
	TimeOut     *time.Time
	DeviceID    string
	Location    string
}

// excelEpoch is day zero of the 1900 date system (the off-by-two is the
// historical Lotus leap-year bug; excelize serials already account for it).
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"02-01-2006",
	"01/02/2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	time.RFC3339,
}

// parseSheetDate accepts spreadsheet serial numbers, ISO strings and a few
// locale formats.
func parseSheetDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		if serial < 1 || serial > 200000 {
			return time.Time{}, fmt.Errorf("date serial %q out of range", raw)
		}
		days := int(serial)
		return excelEpoch.AddDate(0, 0, days), nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

var clockLayouts = []string{
	"15:04:05",
	"15:04",
	"3:04 PM",
	"3:04:05 PM",
}

// parseSheetClock turns a time cell into an instant on the given day. Cells
// may hold "HH:mm[:ss]" strings, serial fractions-of-a-day, or a full
// datetime.
func parseSheetClock(raw string, day time.Time) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	if frac, err := strconv.ParseFloat(raw, 64); err == nil {
		if frac < 0 || frac >= 2 {
			return nil, fmt.Errorf("time fraction %q out of range", raw)
		}
		// Serial datetimes carry the day in the integer part.
		frac = frac - math.Floor(frac)
		seconds := int(math.Round(frac * 24 * 3600))
		t := day.Add(time.Duration(seconds) * time.Second)
		return &t, nil
	}

	for _, layout := range clockLayouts {
		if c, err := time.Parse(layout, raw); err == nil {
			t := time.Date(day.Year(), day.Month(), day.Day(), c.Hour(), c.Minute(), c.Second(), 0, time.UTC)
			return &t, nil
		}
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		u := t.UTC()
		return &u, nil
	}
	if t, err := time.Parse("2006-01-02 15:04:05", raw); err == nil {
		u := t.UTC()
		return &u, nil
	}

	return nil, fmt.Errorf("unrecognized time %q", raw)
}
