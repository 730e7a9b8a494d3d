package export

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/patientor/patientor/internal/domain/entry"
	"github.com/patientor/patientor/internal/state"
)

const (
	SheetPatients = "Patients"
	SheetEntries  = "Entries"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var (
	PatientHeader = []string{"ID", "Name", "Gender", "Occupation"}
	EntryHeader   = []string{"Patient ID", "Patient", "Entry ID", "Date", "Type", "Specialist", "Description", "Diagnoses", "Details"}

	patientWidths = []float64{38, 25, 10, 30}
	entryWidths   = []float64{38, 25, 38, 12, 24, 20, 45, 25, 40}
)

// Workbook writes the cached patient list and every loaded record's entries
// to an xlsx file. Only records that have been opened have entries; SSNs are
// left out.
func Workbook(st state.State) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetPatients); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetEntries); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	var patientRows [][]interface{}
	for _, p := range st.PatientList() {
		patientRows = append(patientRows, []interface{}{p.ID, p.Name, string(p.Gender), p.Occupation})
	}
	if err := writeSheet(f, SheetPatients, PatientHeader, patientWidths, headerStyle, patientRows); err != nil {
		return nil, err
	}

	entryRows, err := entryRows(st)
	if err != nil {
		return nil, err
	}
	if err := writeSheet(f, SheetEntries, EntryHeader, entryWidths, headerStyle, entryRows); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func entryRows(st state.State) ([][]interface{}, error) {
	ids := make([]string, 0, len(st.PatientsFullData))
	for id := range st.PatientsFullData {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var rows [][]interface{}
	for _, id := range ids {
		p := st.PatientsFullData[id]
		for _, e := range p.Entries {
			details, err := Details(e)
			if err != nil {
				return nil, fmt.Errorf("patient %s: %w", id, err)
			}
			info := e.Info()
			rows = append(rows, []interface{}{
				p.ID, p.Name, info.ID, info.Date, string(e.EntryType()),
				info.Specialist, info.Description, strings.Join(info.DiagnosisCodes, ", "), details,
			})
		}
	}
	return rows, nil
}

// Details is the variant-specific part of an entry as one line of text.
func Details(e entry.Entry) (string, error) {
	switch e := e.(type) {
	case entry.HealthCheckEntry:
		return "rating: " + e.HealthCheckRating.String(), nil
	case entry.HospitalEntry:
		return fmt.Sprintf("discharged %s: %s", e.Discharge.Date, e.Discharge.Criteria), nil
	case entry.OccupationalHealthcareEntry:
		s := "employer: " + e.EmployerName
		if !e.SickLeave.Blank() {
			s += fmt.Sprintf("; sick leave %s to %s", e.SickLeave.StartDate, e.SickLeave.EndDate)
		}
		return s, nil
	}
	return "", fmt.Errorf("%w: %T", entry.ErrUnknownType, e)
}

func writeSheet(f *excelize.File, sheet string, header []string, widths []float64, headerStyle int, rows [][]interface{}) error {
	cells := make([]interface{}, len(header))
	for i, h := range header {
		cells[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &cells); err != nil {
		return fmt.Errorf("%s: write header: %w", sheet, err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return fmt.Errorf("%s: %w", sheet, err)
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("%s: style header: %w", sheet, err)
	}

	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("%s: %w", sheet, err)
		}
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return fmt.Errorf("%s: set column width: %w", sheet, err)
		}
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("%s: %w", sheet, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s: write row %d: %w", sheet, i+2, err)
		}
	}

	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
