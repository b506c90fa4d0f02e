package tabular

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"tvschema/internal/fileutil"
)

// WriteCSV writes the table atomically. Null cells are written as empty cells.
func WriteCSV(path string, t *Table) error {
	return fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return EncodeCSV(w, t)
	})
}

// EncodeCSV streams the header and rows in column order.
func EncodeCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, col := range t.Columns {
			record[i] = row[col]
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Envelope is the metadata wrapper around JSON output.
type Envelope struct {
	BuiltAt time.Time
	RunID   string
	Table   *Table
}

// WriteJSON writes the envelope atomically.
func WriteJSON(path string, env Envelope) error {
	return fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return EncodeJSON(w, env)
	})
}

// EncodeJSON renders the envelope with products in row order and keys in
// column order. Null cells become JSON null.
func EncodeJSON(w io.Writer, env Envelope) error {
	var buf bytes.Buffer
	buf.WriteString("{\n")
	fmt.Fprintf(&buf, "  \"built_at\": %s,\n", mustString(env.BuiltAt.UTC().Format(time.RFC3339)))
	fmt.Fprintf(&buf, "  \"run_id\": %s,\n", mustString(env.RunID))
	fmt.Fprintf(&buf, "  \"total_products\": %d,\n", env.Table.Len())
	buf.WriteString("  \"products\": [")
	for i, row := range env.Table.Rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString("\n    {")
		for j, col := range env.Table.Columns {
			if j > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(mustString(col))
			buf.WriteString(": ")
			if v, ok := row[col]; ok {
				buf.WriteString(mustString(v))
			} else {
				buf.WriteString("null")
			}
		}
		buf.WriteByte('}')
	}
	if env.Table.Len() > 0 {
		buf.WriteString("\n  ")
	}
	buf.WriteString("]\n}\n")
	_, err := w.Write(buf.Bytes())
	return err
}

func mustString(s string) string {
	data, err := json.Marshal(s)
	if err != nil {
		// Marshal of a Go string cannot fail.
		panic(err)
	}
	return string(data)
}
