package file

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/portnet/pkg/domain"
	"github.com/spf13/cast"
)

// Format is the on-disk encoding of a record file.
type Format string

const (
	FormatJSON   Format = "json"
	FormatNDJSON Format = "ndjson"
	FormatCSV    Format = "csv"
)

// ParseFormat validates a format name. An empty name means "detect from extension".
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatJSON, FormatNDJSON, FormatCSV:
		return f, nil
	case "jsonl":
		return FormatNDJSON, nil
	default:
		return "", fmt.Errorf("unknown record format %q", s)
	}
}

// DetectFormat infers the format from the file extension, defaulting to NDJSON.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".csv":
		return FormatCSV
	default:
		return FormatNDJSON
	}
}

// RecordStore implements ports.EventSource and ports.EventSink over a single file.
// JSON numbers are decoded as json.Number so large identifiers keep their digits;
// CSV cells are strings and empty cells are treated as absent.
type RecordStore struct {
	Path   string
	Format Format
}

// NewRecordStore creates a record store for path, detecting the format from its extension.
func NewRecordStore(path string) *RecordStore {
	return &RecordStore{Path: path, Format: DetectFormat(path)}
}

// NewRecordStoreWithFormat creates a record store with an explicit format.
func NewRecordStoreWithFormat(path string, format Format) *RecordStore {
	if format == "" {
		format = DetectFormat(path)
	}
	return &RecordStore{Path: path, Format: format}
}

// Load reads every record from the file.
func (s *RecordStore) Load(ctx context.Context) ([]domain.RawRecord, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open record file: %w", err)
	}
	defer f.Close()

	switch s.Format {
	case FormatJSON:
		return decodeJSONArray(f)
	case FormatCSV:
		return decodeCSV(f)
	default:
		return decodeNDJSON(ctx, f)
	}
}

// Write replaces the file with records, atomically.
func (s *RecordStore) Write(ctx context.Context, records []domain.RawRecord) error {
	var buf bytes.Buffer
	var err error

	switch s.Format {
	case FormatJSON:
		err = encodeJSONArray(&buf, records)
	case FormatCSV:
		err = encodeCSV(&buf, records)
	default:
		err = encodeNDJSON(&buf, records)
	}
	if err != nil {
		return err
	}
	return writeAtomic(s.Path, buf.Bytes())
}

func decodeJSONArray(r io.Reader) ([]domain.RawRecord, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var records []domain.RawRecord
	if err := dec.Decode(&records); err != nil {
		if errors.Is(err, io.EOF) {
			return []domain.RawRecord{}, nil
		}
		return nil, fmt.Errorf("failed to decode json records: %w", err)
	}
	return records, nil
}

func decodeNDJSON(ctx context.Context, r io.Reader) ([]domain.RawRecord, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	records := []domain.RawRecord{}
	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		if line%10000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		dec := json.NewDecoder(bytes.NewReader(text))
		dec.UseNumber()
		var rec domain.RawRecord
		if err := dec.Decode(&rec); err != nil {
			return nil, fmt.Errorf("line %d: failed to decode record: %w", line, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read record file: %w", err)
	}
	return records, nil
}

func decodeCSV(r io.Reader) ([]domain.RawRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []domain.RawRecord{}, nil
		}
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	records := []domain.RawRecord{}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row: %w", err)
		}

		rec := make(domain.RawRecord, len(header))
		for i, key := range header {
			if i < len(row) && row[i] != "" {
				rec[key] = row[i]
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

func encodeJSONArray(w io.Writer, records []domain.RawRecord) error {
	if records == nil {
		records = []domain.RawRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	return nil
}

func encodeNDJSON(w io.Writer, records []domain.RawRecord) error {
	enc := json.NewEncoder(w)
	for i, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("record %d: failed to encode: %w", i, err)
		}
	}
	return nil
}

// encodeCSV writes the canonical input columns first, then any extra keys in
// alphabetical order.
func encodeCSV(w io.Writer, records []domain.RawRecord) error {
	known := make(map[string]bool, len(domain.RecordColumns))
	for _, c := range domain.RecordColumns {
		known[c] = true
	}
	extra := map[string]bool{}
	for _, rec := range records {
		for k := range rec {
			if !known[k] {
				extra[k] = true
			}
		}
	}
	header := append([]string(nil), domain.RecordColumns...)
	extras := make([]string, 0, len(extra))
	for k := range extra {
		extras = append(extras, k)
	}
	sort.Strings(extras)
	header = append(header, extras...)

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	row := make([]string, len(header))
	for i, rec := range records {
		for j, key := range header {
			row[j] = formatCell(rec.Get(key))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("record %d: failed to write csv row: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case time.Time:
		return x.UTC().Format(time.RFC3339)
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		b, _ := json.Marshal(v)
		return string(b)
	}
	return s
}
