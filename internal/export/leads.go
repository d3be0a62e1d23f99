// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package export writes admin data exports.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/olegiv/pathway-go/internal/model"
)

// LeadsSheet is the worksheet name of the lead export.
const LeadsSheet = "Leads"

// XLSXContentType is the MIME type of an Excel workbook.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var leadColumns = []struct {
	header string
	width  float64
	value  func(l *model.Lead) any
}{
	{"Created", 20, func(l *model.Lead) any { return l.CreatedAt.UTC().Format("2006-01-02 15:04") }},
	{"Name", 24, func(l *model.Lead) any { return l.Name }},
	{"Email", 28, func(l *model.Lead) any { return l.Email }},
	{"Phone", 18, func(l *model.Lead) any { return l.Phone }},
	{"Purpose", 14, func(l *model.Lead) any { return string(l.Purpose) }},
	{"Status", 12, func(l *model.Lead) any { return string(l.Status) }},
	{"Countries", 24, func(l *model.Lead) any { return strings.Join(l.CountryInterest, ", ") }},
	{"Services", 24, func(l *model.Lead) any { return strings.Join(l.ServiceInterest, ", ") }},
	{"Message", 40, func(l *model.Lead) any { return l.Message }},
	{"Source", 14, func(l *model.Lead) any { return l.Source }},
	{"UTM Source", 14, func(l *model.Lead) any { return l.UTMSource }},
	{"UTM Medium", 14, func(l *model.Lead) any { return l.UTMMedium }},
	{"UTM Campaign", 16, func(l *model.Lead) any { return l.UTMCampaign }},
	{"Country", 10, func(l *model.Lead) any { return l.GeoCountry }},
	{"Device", 10, func(l *model.Lead) any { return l.Device }},
	{"Notes", 40, func(l *model.Lead) any { return l.Notes }},
	{"ID", 38, func(l *model.Lead) any { return l.ID }},
}

// WriteLeads writes leads as an XLSX workbook with one header row and one
// row per lead.
func WriteLeads(w io.Writer, leads []model.Lead) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing workbook: %w", cerr)
		}
	}()

	if err := f.SetSheetName("Sheet1", LeadsSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	header := make([]any, len(leadColumns))
	for i, c := range leadColumns {
		header[i] = c.header
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(LeadsSheet, col, col, c.width); err != nil {
			return fmt.Errorf("setting column width: %w", err)
		}
	}
	if err := f.SetSheetRow(LeadsSheet, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(leadColumns), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(LeadsSheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	for i := range leads {
		row := make([]any, len(leadColumns))
		for j, c := range leadColumns {
			row[j] = c.value(&leads[i])
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(LeadsSheet, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(LeadsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freezing header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
