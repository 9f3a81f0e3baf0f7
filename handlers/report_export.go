package handlers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Iamwillypieter/Canang-Indah-Dashboard-sub000/middleware"
	"github.com/Iamwillypieter/Canang-Indah-Dashboard-sub000/models"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func writeWorkbook(w http.ResponseWriter, r *http.Request, name string, sheets []models.Sheet) {
	f, err := createExcelFile(name, sheets)
	if err != nil {
		middleware.WriteError(w, r, fmt.Errorf("build workbook: %w", err))
		return
	}
	defer f.Close()

	buffer, err := f.WriteToBuffer()
	if err != nil {
		middleware.WriteError(w, r, fmt.Errorf("write workbook: %w", err))
		return
	}

	filename := fmt.Sprintf("%s_%s.xlsx", sanitizeFilename(name), time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buffer.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buffer.Bytes())
}

func writeCSV(w http.ResponseWriter, r *http.Request, name string, sheets []models.Sheet) {
	data, err := createCSVFile(sheets)
	if err != nil {
		middleware.WriteError(w, r, fmt.Errorf("write csv: %w", err))
		return
	}
	filename := fmt.Sprintf("%s_%s.csv", sanitizeFilename(name), time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// createExcelFile lays out one worksheet per sheet: title, header row,
// then data rows.
func createExcelFile(title string, sheets []models.Sheet) (*excelize.File, error) {
	f := excelize.NewFile()

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{
			Horizontal: "left",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#4472C4"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, err
	}
	dataStyle, err := f.NewStyle(&excelize.Style{
		Border: []excelize.Border{
			{Type: "left", Color: "CCCCCC", Style: 1},
			{Type: "right", Color: "CCCCCC", Style: 1},
			{Type: "top", Color: "CCCCCC", Style: 1},
			{Type: "bottom", Color: "CCCCCC", Style: 1},
		},
	})
	if err != nil {
		return nil, err
	}

	for i, sheet := range sheets {
		name := sheetName(sheet.Name, i)
		index, err := f.NewSheet(name)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			f.SetActiveSheet(index)
		}

		f.SetCellValue(name, "A1", title)
		f.SetCellStyle(name, "A1", "A1", titleStyle)
		f.SetRowHeight(name, 1, 24)

		// headers on row 3
		for col, h := range sheet.Header {
			cell, _ := excelize.CoordinatesToCellName(col+1, 3)
			f.SetCellValue(name, cell, h)
			f.SetCellStyle(name, cell, cell, headerStyle)
			colName, _ := excelize.ColumnNumberToName(col + 1)
			f.SetColWidth(name, colName, colName, 16)
		}

		for rowIdx, row := range sheet.Rows {
			for col, value := range row {
				cell, _ := excelize.CoordinatesToCellName(col+1, rowIdx+4)
				f.SetCellValue(name, cell, value)
				f.SetCellStyle(name, cell, cell, dataStyle)
			}
		}
	}

	// Delete default Sheet1 if we created a new one
	if len(sheets) > 0 {
		f.DeleteSheet("Sheet1")
	}
	return f, nil
}

// createCSVFile writes every sheet in turn, separated by a blank line.
func createCSVFile(sheets []models.Sheet) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	for i, sheet := range sheets {
		if i > 0 {
			writer.Write([]string{})
		}
		writer.Write([]string{sheet.Name})
		writer.Write(sheet.Header)
		for _, row := range sheet.Rows {
			record := make([]string, len(row))
			for j, v := range row {
				record[j] = fmt.Sprintf("%v", v)
			}
			writer.Write(record)
		}
	}

	writer.Flush()
	return buf.Bytes(), writer.Error()
}

// sheetName keeps worksheet names within excel's 31 character limit and
// never blank.
func sheetName(name string, index int) string {
	if name == "" {
		name = fmt.Sprintf("Sheet%d", index+2)
	}
	runes := []rune(name)
	if len(runes) > 31 {
		runes = runes[:31]
	}
	return string(runes)
}

// sanitizeFilename sanitizes a filename for safe download
func sanitizeFilename(filename string) string {
	// Remove or replace characters that are invalid in filenames
	replacements := map[rune]rune{
		'/':  '_',
		'\\': '_',
		':':  '_',
		'*':  '_',
		'?':  '_',
		'"':  '_',
		'<':  '_',
		'>':  '_',
		'|':  '_',
		' ':  '_',
	}

	result := []rune{}
	for _, char := range filename {
		if replacement, ok := replacements[char]; ok {
			result = append(result, replacement)
		} else {
			result = append(result, char)
		}
	}

	return string(result)
}
