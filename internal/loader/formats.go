package loader

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Format string

const (
	// FormatText is "name mass x y z vx vy vz" per line, AU and AU/day.
	FormatText Format = "text"
	// FormatJSONL is one JSON Record per line, SI units.
	FormatJSONL Format = "jsonl"
	// FormatYAML is a document with a "bodies" list, SI units.
	FormatYAML Format = "yaml"
)

// FormatFromPath picks a format from the file extension. Anything that
// is not JSON or YAML is read as text.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".json", ".ndjson":
		return FormatJSONL
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatText
	}
}

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSONL, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrFormat, s)
	}
}

// LoadFile reads and validates every record in path.
func LoadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadRecords(f, FormatFromPath(path))
}

// ReadRecords decodes and validates records from r.
func ReadRecords(r io.Reader, format Format) ([]Record, error) {
	switch format {
	case FormatText:
		return readText(r)
	case FormatJSONL:
		return readJSONL(r)
	case FormatYAML:
		return readYAML(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrFormat, format)
	}
}

func readText(r io.Reader) ([]Record, error) {
	recs := make([]Record, 0)
	scanner := bufio.NewScanner(r)
	line := 0

	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		if len(fields) != 8 {
			return nil, &ParseError{Line: line, Err: fmt.Errorf("expected 8 fields, got %d", len(fields))}
		}

		vals := make([]float64, 7)
		for i, f := range fields[1:] {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, &ParseError{Line: line, Err: err}
			}
			vals[i] = v
		}

		rec := Record{Name: fields[0], Mass: vals[0]}
		rec.Position.X = vals[1] * AUToMeters
		rec.Position.Y = vals[2] * AUToMeters
		rec.Position.Z = vals[3] * AUToMeters
		rec.Velocity.X = vals[4] * AUToMeters / DayToSeconds
		rec.Velocity.Y = vals[5] * AUToMeters / DayToSeconds
		rec.Velocity.Z = vals[6] * AUToMeters / DayToSeconds

		if err := rec.Validate(); err != nil {
			return nil, &ParseError{Line: line, Err: err}
		}
		recs = append(recs, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return recs, nil
}

func readJSONL(r io.Reader) ([]Record, error) {
	recs := make([]Record, 0)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0

	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		var rec Record
		dec := json.NewDecoder(strings.NewReader(text))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&rec); err != nil {
			return nil, &ParseError{Line: line, Err: err}
		}
		if err := rec.Validate(); err != nil {
			return nil, &ParseError{Line: line, Err: err}
		}
		recs = append(recs, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return recs, nil
}

type yamlDocument struct {
	Bodies []Record `yaml:"bodies"`
}

func readYAML(r io.Reader) ([]Record, error) {
	var doc yamlDocument
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, err
	}

	for i, rec := range doc.Bodies {
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("body %d: %w", i+1, err)
		}
	}
	if doc.Bodies == nil {
		doc.Bodies = make([]Record, 0)
	}
	return doc.Bodies, nil
}

// WriteJSONL writes one record per line.
func WriteJSONL(w io.Writer, recs []Record) error {
	enc := json.NewEncoder(w)
	for _, r := range recs {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteYAML writes records as a "bodies" document readable by FormatYAML.
func WriteYAML(w io.Writer, recs []Record) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(yamlDocument{Bodies: recs}); err != nil {
		return err
	}
	return enc.Close()
}
