package csv

import (
	"encoding/csv"
	"errors"
	"io"

	"hermannm.dev/wrap"
)

// Number of lines sampled when deducing the field delimiter of a file.
const delimiterSampleRows = 20

type Reader struct {
	inner      *csv.Reader
	currentRow int
}

// NewReader creates a reader for the given CSV file, deducing its field delimiter from its first
// lines.
func NewReader(csvFile io.ReadSeeker) (*Reader, error) {
	delimiter, err := DeduceFieldDelimiter(csvFile, delimiterSampleRows, DefaultDelimitersToCheck)
	if err != nil {
		return nil, err
	}

	return &Reader{inner: newInnerReader(csvFile, delimiter), currentRow: 0}, nil
}

func newInnerReader(csvFile io.Reader, delimiter rune) *csv.Reader {
	reader := csv.NewReader(csvFile)
	reader.Comma = delimiter
	// Spreadsheet exports often have ragged rows and stray quotes.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return reader
}

func (reader *Reader) Delimiter() rune {
	return reader.inner.Comma
}

// ReadRow reads the next record from the file. The returned slice is owned by the caller.
// Row numbers start at 1 for the header row.
func (reader *Reader) ReadRow() (row []string, rowNumber int, done bool, err error) {
	reader.currentRow++

	row, err = reader.inner.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, true, nil
		} else {
			return nil, 0, false, wrap.Errorf(err, "failed to read CSV row %d", reader.currentRow)
		}
	}

	return row, reader.currentRow, false, nil
}

func (reader *Reader) ReadHeaderRow() (row []string, err error) {
	row, rowNumber, done, err := reader.ReadRow()
	if err != nil {
		return nil, err
	}
	if done {
		return nil, errors.New("CSV file ended before header row")
	}
	if rowNumber != 1 {
		return nil, errors.New("tried to read header row after reading previous rows")
	}
	return row, nil
}
