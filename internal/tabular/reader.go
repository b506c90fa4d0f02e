package tabular

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ReadFile loads a table from a .csv or .json file. The table is named after
// the file's base name.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	name := filepath.Base(path)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSV(name, f)
	case ".json":
		return ReadJSON(name, f)
	default:
		return nil, fmt.Errorf("%s: unsupported table format %q", path, filepath.Ext(path))
	}
}

// ReadCSV parses a header row followed by records. Empty cells read as null.
func ReadCSV(name string, r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)
	// Spreadsheet exports often carry a UTF-8 byte order mark.
	if bom, err := br.Peek(3); err == nil && bytes.Equal(bom, []byte{0xEF, 0xBB, 0xBF}) {
		_, _ = br.Discard(3)
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return New(name), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: read header: %w", name, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	table := New(name, header...)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if len(record) > len(header) {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("%s: line %d has %d fields, header has %d", name, line, len(record), len(header))
		}
		row := make(Row, len(header))
		for i, cell := range record {
			if cell == "" {
				continue
			}
			row[header[i]] = cell
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// ReadJSON parses either an array of objects or an envelope object whose
// "products" member holds that array. Column order follows first appearance
// of each key. JSON null reads as null; nested values are kept as compact
// JSON text.
func ReadJSON(name string, r io.Reader) (*Table, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	table := New(name)
	switch tok {
	case json.Delim('['):
		if err := readObjects(dec, table); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return table, nil
	case json.Delim('{'):
		found := false
		for dec.More() {
			key, err := readKey(dec)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			if key != "products" {
				var skip json.RawMessage
				if err := dec.Decode(&skip); err != nil {
					return nil, fmt.Errorf("%s: %w", name, err)
				}
				continue
			}
			open, err := dec.Token()
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			if open != json.Delim('[') {
				return nil, fmt.Errorf("%s: products must be an array", name)
			}
			if err := readObjects(dec, table); err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			found = true
		}
		if !found {
			return nil, fmt.Errorf("%s: object has no products array", name)
		}
		return table, nil
	default:
		return nil, fmt.Errorf("%s: expected array or object, got %v", name, tok)
	}
}

// readObjects consumes objects until the closing bracket of the current array.
func readObjects(dec *json.Decoder, table *Table) error {
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if tok != json.Delim('{') {
			return fmt.Errorf("row %d: expected object, got %v", table.Len()+1, tok)
		}
		row := Row{}
		for dec.More() {
			key, err := readKey(dec)
			if err != nil {
				return err
			}
			table.AddColumn(key)
			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				return fmt.Errorf("row %d column %q: %w", table.Len()+1, key, err)
			}
			value, ok, err := cellFromJSON(raw)
			if err != nil {
				return fmt.Errorf("row %d column %q: %w", table.Len()+1, key, err)
			}
			if ok {
				row[key] = value
			}
		}
		if _, err := dec.Token(); err != nil {
			return err
		}
		table.Rows = append(table.Rows, row)
	}
	_, err := dec.Token()
	return err
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %v", tok)
	}
	return key, nil
}

func cellFromJSON(raw json.RawMessage) (string, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", false, nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", false, err
		}
		return s, true, nil
	case '{', '[', 't', 'f':
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err != nil {
			return "", false, err
		}
		return buf.String(), true, nil
	default:
		return formatNumber(string(trimmed)), true, nil
	}
}

// formatNumber rewrites exponent notation in plain decimal form.
func formatNumber(text string) string {
	if !strings.ContainsAny(text, "eE") {
		return text
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return text
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
