// csv.go — Stream card records from CSV rows with a header line.
package batch

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xob0t/CardStencil/pkg/card"
	"github.com/xob0t/CardStencil/pkg/config"
	"github.com/xob0t/CardStencil/pkg/logging"
)

const bom = "\ufeff"

// RecordSource yields records until io.EOF. Errors of kind RecordInvalid
// concern one row; any other error ends the stream.
type RecordSource interface {
	Next() (card.Record, error)
}

// CSVSource reads records from CSV. Header names are matched
// case-insensitively against the configured columns.
type CSVSource struct {
	r       *csv.Reader
	headers []string
	cols    map[string]int
	names   config.Columns
	row     int
}

// NewCSVSource reads the header line of r. A leading UTF-8 byte order mark
// is removed.
func NewCSVSource(r io.Reader, columns config.Columns) (*CSVSource, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv has no header")
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], bom)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, dup := cols[key]; !dup {
			cols[key] = i
		}
	}

	s := &CSVSource{
		r:       cr,
		headers: header,
		cols:    cols,
		names:   columns,
	}

	log := logging.Logger()
	log.Info("detected headers", "headers", header)
	for _, name := range []string{columns.FirstName, columns.LastName, columns.Role, columns.Photo, columns.District, columns.School} {
		if name == "" {
			continue
		}
		if _, ok := cols[strings.ToLower(name)]; !ok {
			log.Warn("column not found, values will be empty", "column", name)
		}
	}
	return s, nil
}

// Headers returns the header line with the BOM removed.
func (s *CSVSource) Headers() []string { return s.headers }

// Next returns the next data row. Rows are numbered from 1.
func (s *CSVSource) Next() (card.Record, error) {
	fields, err := s.r.Read()
	if errors.Is(err, io.EOF) {
		return card.Record{}, io.EOF
	}
	s.row++
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			return card.Record{}, &card.Error{Kind: card.KindRecordInvalid, Row: s.row, Err: err}
		}
		return card.Record{}, fmt.Errorf("read csv row %d: %w", s.row, err)
	}

	get := func(name string) string {
		if idx, ok := s.cols[strings.ToLower(name)]; ok && name != "" && idx < len(fields) {
			return strings.TrimSpace(fields[idx])
		}
		return ""
	}

	return card.Record{
		Row:       s.row,
		FirstName: get(s.names.FirstName),
		LastName:  get(s.names.LastName),
		Role:      get(s.names.Role),
		School:    get(s.names.School),
		District:  get(s.names.District),
		PhotoRef:  get(s.names.Photo),
	}, nil
}

// SliceSource yields fixed records, numbering any with Row 0 by position.
type SliceSource struct {
	Records []card.Record
	next    int
}

func (s *SliceSource) Next() (card.Record, error) {
	if s.next >= len(s.Records) {
		return card.Record{}, io.EOF
	}
	rec := s.Records[s.next]
	s.next++
	if rec.Row == 0 {
		rec.Row = s.next
	}
	return rec, nil
}
