package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/CoderJeffrey/washsale-calculator/src/models"
	"github.com/CoderJeffrey/washsale-calculator/src/security/validation"
)

// CSVParser reads an uploaded activity export into a header-keyed row table.
// It makes no assumptions about column meaning; that is the trade event
// parser's job.
type CSVParser struct{}

func NewCSVParser() *CSVParser {
	return &CSVParser{}
}

func (p *CSVParser) Parse(file io.Reader) (*models.RawTable, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(validation.StripUnprintable(h))
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV records: %w", err)
	}

	rows := make([]models.RawRow, 0, len(records))
	for _, record := range records {
		row := make(models.RawRow, len(columns))
		for i, cell := range record {
			if i >= len(columns) {
				break
			}
			row[columns[i]] = validation.StripUnprintable(cell)
		}
		rows = append(rows, row)
	}

	return &models.RawTable{Columns: columns, Rows: rows}, nil
}
