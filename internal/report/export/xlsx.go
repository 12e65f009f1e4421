// Package export serializes report rows and project reports to xlsx, pdf
// and docx. Writers only touch the io.Writer they are given.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/roksva123/go-gitlab-dashboard/internal/model"
	"github.com/roksva123/go-gitlab-dashboard/internal/report"
)

const (
	TasksSheet  = "Tasks"
	defaultTab  = "Sheet1"
	headerFill  = "D9E2F3"
	columnWidth = 22
)

// ContentTypes maps export formats to their MIME types.
var ContentTypes = map[string]string{
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"pdf":  "application/pdf",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// WriteXLSX writes one spreadsheet row per report row on a "Tasks" sheet.
func WriteXLSX(w io.Writer, rows []model.ReportRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(defaultTab, TasksSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	table := model.Table{Title: TasksSheet, Header: report.RowHeader}
	for _, r := range rows {
		table.Rows = append(table.Rows, report.Cells(r))
	}
	if err := writeSheet(f, TasksSheet, table); err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

// WriteReportXLSX writes a summary sheet followed by one sheet per report
// section.
func WriteReportXLSX(w io.Writer, r model.ProjectReport) error {
	f := excelize.NewFile()
	defer f.Close()

	const summary = "Summary"
	if err := f.SetSheetName(defaultTab, summary); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for i, line := range report.SummaryLines(r) {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetCellStr(summary, cell, line); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}
	for _, section := range report.Sections(r) {
		if _, err := f.NewSheet(section.Title); err != nil {
			return fmt.Errorf("add sheet %s: %w", section.Title, err)
		}
		if err := writeSheet(f, section.Title, section); err != nil {
			return err
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, t model.Table) error {
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerFill}},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	header := make([]interface{}, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(t.Header), 1)
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(t.Header))
	if err := f.SetColWidth(sheet, "A", lastCol, columnWidth); err != nil {
		return fmt.Errorf("column width: %w", err)
	}

	for i, row := range t.Rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	return nil
}
