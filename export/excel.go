// Package export renders an opening's responses as an XLSX workbook for
// recruiters who work outside the shared spreadsheet.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/recruitkit/recruitkit/gsheet"
	"github.com/recruitkit/recruitkit/model"
)

const sheetName = "Responses"

// ResponsesWorkbook builds a workbook with the same column layout as the
// opening's spreadsheet tab: metadata prefix plus one column per schema
// question. Without a schema, answers collapse into a single JSON-ish
// column per response.
func ResponsesWorkbook(schema []model.Question, responses []model.Response) (*excelize.File, error) {
	f := excelize.NewFile()

	f.SetSheetName("Sheet1", sheetName)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		f.Close()
		return nil, err
	}

	headers := gsheet.HeaderRow(schema)
	if len(schema) == 0 {
		headers = append(headers, "Answers")
	}
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, err
		}
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, response := range responses {
		row := []string{
			response.CreatedAt,
			response.OpeningID,
			response.OpeningTitle,
			response.Source,
			response.ResumeLink,
		}
		if len(schema) > 0 {
			row = append(row, answerColumns(schema, response.Answers)...)
		} else {
			row = append(row, fmt.Sprint(response.Answers))
		}

		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				f.Close()
				return nil, err
			}
			f.SetCellValue(sheetName, cell, value)
		}
	}

	return f, nil
}

func answerColumns(schema []model.Question, answers map[string]any) []string {
	columns := make([]string, 0, len(schema))
	for _, q := range schema {
		value := answers[q.ID]
		if value == nil {
			value = answers[q.Label]
		}
		columns = append(columns, cellString(value))
	}
	return columns
}

func cellString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []any:
		s := ""
		for i, item := range v {
			if i > 0 {
				s += ", "
			}
			s += cellString(item)
		}
		return s
	default:
		return fmt.Sprint(v)
	}
}
