package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"golang.org/x/text/encoding/unicode"
)

// csvHeader mirrors the record table's column names
var csvHeader = []string{"id", "date", "merchant", "description", "amount", "temp_name", "image_path"}

// ExportCSV writes a full-table snapshot as BOM-prefixed UTF-8 CSV, one row
// per record with a header row of column names.
func (s *Service) ExportCSV(w io.Writer) error {
	records, err := s.store.List()
	if err != nil {
		return fmt.Errorf("listing records: %w", err)
	}

	// UTF8BOM writes the byte-order mark spreadsheet tools expect
	cw := csv.NewWriter(unicode.UTF8BOM.NewEncoder().Writer(w))
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, r := range records {
		row := []string{
			strconv.FormatUint(r.ID, 10),
			r.Date,
			r.Merchant,
			r.Description,
			strconv.Itoa(r.Amount),
			r.TempName,
			r.ImagePath,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportFilename returns the snapshot filename for the current time,
// {YYYYMMDDHHMMSS}_ai_journal.csv.
func (s *Service) ExportFilename() string {
	return s.timeSource.Now().Format("20060102150405") + "_ai_journal.csv"
}
