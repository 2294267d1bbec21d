package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"catalogue-cleaner/models"
	"catalogue-cleaner/utils"
)

// ErrInputNotFound is returned when the feed path does not exist; the run
// aborts before any row is produced.
var ErrInputNotFound = errors.New("input file not found")

// MalformedRecordError marks feed-level corruption: a line with the wrong
// column count or a non-integer id. These are structural errors, not normal
// dirtiness, and fail the whole run.
type MalformedRecordError struct {
	Line   int
	Detail string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record at line %d: %s", e.Line, e.Detail)
}

// fieldsPerRow is the fixed positional layout: id, raw_name, raw_price, shop, date.
const fieldsPerRow = 5

// Reader streams the headerless catalogue feed into RawRow records in file
// order.
type Reader struct {
	path   string
	logger *utils.Logger
}

// NewReader creates a Reader for the feed at path.
func NewReader(path string, logger *utils.Logger) *Reader {
	return &Reader{path: path, logger: logger}
}

// ReadAll scans the feed and returns every row in file order. It fails fast:
// a missing file yields ErrInputNotFound and any structural defect yields a
// MalformedRecordError, both before partial results are handed on.
func (r *Reader) ReadAll() ([]*models.RawRow, error) {
	if _, err := os.Stat(r.path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, r.path)
		}
		return nil, fmt.Errorf("source: stat %q: %w", r.path, err)
	}

	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("source: open %q: %w", r.path, err)
	}
	defer f.Close()

	r.logger.Info("[source] Scanning feed: %s", r.path)

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = fieldsPerRow
	cr.ReuseRecord = true

	rows := make([]*models.RawRow, 0, 1024)
	line := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			if errors.Is(err, csv.ErrFieldCount) {
				return nil, &MalformedRecordError{
					Line:   line,
					Detail: fmt.Sprintf("expected %d columns, got %d", fieldsPerRow, len(record)),
				}
			}
			return nil, fmt.Errorf("source: read line %d: %w", line, err)
		}

		id, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, &MalformedRecordError{
				Line:   line,
				Detail: fmt.Sprintf("non-integer id %q", record[0]),
			}
		}

		rows = append(rows, &models.RawRow{
			ID:       id,
			RawName:  record[1],
			RawPrice: record[2],
			Shop:     record[3],
			Date:     record[4],
		})
	}

	r.logger.Info("[source] Read %d rows", len(rows))
	return rows, nil
}
