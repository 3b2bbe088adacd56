package source

import (
	"errors"
	"strings"

	"github.com/xuri/excelize/v2"

	mapping "sunspec-gateway/internal/mapping/domain"
)

// sunspecModelSheets are the workbook sheets holding the models this system
// consumes. Other sheets (120, 124, 8xx variants) are ignored.
var sunspecModelSheets = []string{"1", "103", "160", "203", "802"}

// LoadSunSpecWorkbook reads point definitions from the open SunSpec models
// workbook. Each model sheet carries a header row with Name/Label/Description
// columns at a sheet-specific offset.
func LoadSunSpecWorkbook(path string) ([]StandardsDefinition, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	defer f.Close()

	var defs []StandardsDefinition
	for _, sheet := range sunspecModelSheets {
		rows, err := f.GetRows(sheet)
		if err != nil {
			// A missing model sheet is tolerated; a standards workbook
			// without any usable sheet is not.
			continue
		}
		model := mapping.ModelID("M" + sheet)
		defs = append(defs, parseModelSheet(model, rows, false)...)
	}
	if len(defs) == 0 {
		return nil, &LoadError{Source: path, Err: errors.New("no model sheets with point definitions")}
	}
	return defs, nil
}

// LoadVendorWorkbook reads the M64061 vendor extension model from the ABB
// workbook. The model lives as a section of the "Inverter Modbus" sheet,
// delimited by a header cell naming the model number.
func LoadVendorWorkbook(path string) ([]StandardsDefinition, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	defer f.Close()

	rows, err := f.GetRows("Inverter Modbus")
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}

	var defs []StandardsDefinition
	inSection := false
	for _, row := range rows {
		first := cell(row, 0)
		if strings.Contains(first, "64061") {
			inSection = true
			continue
		}
		if inSection && first != "" && strings.Contains(first, "Model") {
			break
		}
		if !inSection {
			continue
		}
		name := cell(row, 8)
		if name == "" || name == "Name" || strings.HasPrefix(name, "=") {
			continue
		}
		defs = append(defs, StandardsDefinition{
			Model:       mapping.ModelVendor,
			PointName:   name,
			DataType:    cell(row, 6),
			Proprietary: true,
		})
	}
	if len(defs) == 0 {
		return nil, &LoadError{Source: path, Err: errors.New("vendor model section not found")}
	}
	return defs, nil
}

func parseModelSheet(model mapping.ModelID, rows [][]string, proprietary bool) []StandardsDefinition {
	headerIdx := -1
	var nameCol, labelCol, descCol, unitCol, typeCol, sfCol int
	nameCol, labelCol, descCol, unitCol, typeCol, sfCol = -1, -1, -1, -1, -1, -1

	for i, row := range rows {
		for j, val := range row {
			if val != "Name" {
				continue
			}
			headerIdx = i
			nameCol = j
			for k, header := range row {
				switch header {
				case "Label":
					labelCol = k
				case "Description":
					descCol = k
				case "Units":
					unitCol = k
				case "Type":
					typeCol = k
				case "SF":
					sfCol = k
				}
			}
			break
		}
		if headerIdx >= 0 {
			break
		}
	}
	if headerIdx < 0 {
		return nil
	}

	var defs []StandardsDefinition
	for _, row := range rows[headerIdx+1:] {
		name := cell(row, nameCol)
		if name == "" {
			continue
		}
		defs = append(defs, StandardsDefinition{
			Model:       model,
			PointName:   name,
			Label:       cell(row, labelCol),
			Description: cell(row, descCol),
			Unit:        cell(row, unitCol),
			DataType:    cell(row, typeCol),
			ScaleFactor: cell(row, sfCol),
			Proprietary: proprietary,
		})
	}
	return defs
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
