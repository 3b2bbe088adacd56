package artifact

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"sunspec-gateway/internal/mapping/application"
	mapping "sunspec-gateway/internal/mapping/domain"
)

// BuildResolutionXLSX renders the resolved table and run summary as a
// reviewable workbook.
func BuildResolutionXLSX(t *mapping.Table, rep application.Report) ([]byte, error) {
	f := excelize.NewFile()
	summarySheet := "Summary"
	pointsSheet := "All Points"
	f.SetSheetName("Sheet1", summarySheet)
	f.NewSheet(pointsSheet)

	_ = f.SetCellValue(summarySheet, "A1", "Point Mapping Resolution")
	_ = f.SetCellValue(summarySheet, "A3", "Resolved entries")
	_ = f.SetCellValue(summarySheet, "B3", rep.Resolved)
	_ = f.SetCellValue(summarySheet, "A4", "Dropped standards definitions")
	_ = f.SetCellValue(summarySheet, "B4", len(rep.Dropped))
	_ = f.SetCellValue(summarySheet, "A5", "Unknown-category entries")
	_ = f.SetCellValue(summarySheet, "B5", len(rep.UnknownCategory))
	_ = f.SetCellValue(summarySheet, "A6", "Unmatched correction rules")
	_ = f.SetCellValue(summarySheet, "B6", unmatchedTotal(rep.UnmatchedCorrections))
	_ = f.SetCellValue(summarySheet, "A7", "Pass checksum")
	_ = f.SetCellValue(summarySheet, "B7", rep.PassChecksum)

	row := 9
	_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), "Category")
	_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), "Points")
	for _, c := range categoryCounts(t) {
		row++
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), c.name)
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), c.count)
	}

	headers := []string{"Canonical", "Entity", "Models", "VSN300", "VSN700",
		"Label", "Display Name", "Category", "Unit", "Device Class", "State Class",
		"Description", "Source", "Modbus"}
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetCellValue(pointsSheet, col+"1", h)
	}
	for i, e := range t.Entries() {
		r := i + 2
		cells := []interface{}{
			e.CanonicalName, e.EntityName, joinModels(e.Models),
			e.VSN300Name, e.VSN700Name,
			e.Label, e.DisplayName, string(e.Category), e.Unit, e.DeviceClass, e.StateClass,
			e.Description, e.DataSource, e.AvailableInModbus,
		}
		for j, v := range cells {
			col, _ := excelize.ColumnNumberToName(j + 1)
			_ = f.SetCellValue(pointsSheet, fmt.Sprintf("%s%d", col, r), v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildResolutionPDF renders a compact run summary for review sign-off.
func BuildResolutionPDF(t *mapping.Table, rep application.Report) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Point Mapping Resolution")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Resolved entries: %d", rep.Resolved))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Dropped standards definitions: %d", len(rep.Dropped)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Unknown-category entries: %d", len(rep.UnknownCategory)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Unmatched correction rules: %d", unmatchedTotal(rep.UnmatchedCorrections)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Pass checksum: %s", rep.PassChecksum))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(70, 6, "Category", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "Points", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, c := range categoryCounts(t) {
		pdf.CellFormat(70, 6, c.name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%d", c.count), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	if len(rep.UnknownCategory) > 0 {
		pdf.Ln(4)
		pdf.Cell(0, 6, "Unknown category: "+strings.Join(rep.UnknownCategory, ", "))
		pdf.Ln(5)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type categoryCount struct {
	name  string
	count int
}

func categoryCounts(t *mapping.Table) []categoryCount {
	counts := make(map[string]int)
	for _, e := range t.Entries() {
		counts[string(e.Category)]++
	}
	out := make([]categoryCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, categoryCount{name: name, count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

func unmatchedTotal(m map[string][]string) int {
	n := 0
	for _, keys := range m {
		n += len(keys)
	}
	return n
}

func joinModels(models []mapping.ModelID) string {
	parts := make([]string, len(models))
	for i, m := range models {
		parts[i] = string(m)
	}
	return strings.Join(parts, ", ")
}
