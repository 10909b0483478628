package export

import (
	"bytes"
	"encoding/csv"
	"errors"
)

var ErrNoRecords = errors.New("no records to export")

// BuildCSV renders a header row plus data rows. encoding/csv applies the
// required escaping: fields containing commas, quotes or newlines are
// wrapped in double quotes with internal quotes doubled.
//
// Zero data rows is an error by contract: an export must never produce an
// empty or header-only file.
func BuildCSV(header []string, rows [][]string) ([]byte, error) {
	if len(rows) == 0 {
		return nil, ErrNoRecords
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
