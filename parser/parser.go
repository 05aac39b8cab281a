package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrUnsupportedFormat marks a source URL whose extension is neither
	// CSV nor a spreadsheet.
	ErrUnsupportedFormat = errors.New("unsupported file format: only CSV and Excel files are supported")

	// ErrMalformed marks content that could not be decoded as its format.
	ErrMalformed = errors.New("malformed file content")
)

// Parse converts raw file content into ordered rows. The format is picked
// by the url's extension. An empty or headers-only file yields no rows.
func Parse(content []byte, url string) ([]Row, error) {
	switch {
	case strings.HasSuffix(url, ".csv"):
		return parseCSV(content)
	case strings.HasSuffix(url, ".xlsx"), strings.HasSuffix(url, ".xls"):
		return parseExcel(content)
	default:
		return nil, ErrUnsupportedFormat
	}
}

func parseCSV(content []byte) ([]Row, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []Row{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	rows := []Row{}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		rows = append(rows, zip(headers, record))
	}

	return rows, nil
}

func parseExcel(content []byte) ([]Row, error) {
	workbook, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return []Row{}, nil
	}

	cells, err := workbook.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if len(cells) == 0 {
		return []Row{}, nil
	}

	headers := make([]string, 0, len(cells[0]))
	for _, header := range cells[0] {
		headers = append(headers, strings.TrimSpace(header))
	}

	rows := []Row{}

	for _, record := range cells[1:] {
		rows = append(rows, zip(headers, record))
	}

	return rows, nil
}

// zip pairs headers with values by position. Rows shorter than the header
// line produce shorter records; values past the last header are dropped.
func zip(headers []string, values []string) Row {
	row := make(Row, 0, len(headers))

	for i, header := range headers {
		if i >= len(values) {
			break
		}
		row = append(row, Field{Column: header, Value: values[i]})
	}

	return row
}
