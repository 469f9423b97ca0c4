package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/KaramelBytes/heartlens/internal/utils"
)

// LoadOptions controls how a CSV is read.
type LoadOptions struct {
	// Delimiter for CSV. If 0, '\t' for .tsv files and ',' otherwise.
	Delimiter rune
	// Schema lists the columns that must be present. Nil means HeartSchema.
	Schema Schema
}

// DefaultLoadOptions returns options for the heart-disease CSV.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{Schema: HeartSchema}
}

// LoadCSV reads a CSV file into a Table. A leading "~" in path is expanded.
func LoadCSV(path string, opt LoadOptions) (*Table, error) {
	path, err := utils.ExpandHome(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	t, err := ReadCSV(f, delim, opt.Schema)
	if err != nil {
		return nil, err
	}
	t.Name = filepath.Base(path)
	return t, nil
}

// ReadCSV parses CSV text from r. The first record is the header.
func ReadCSV(r io.Reader, delim rune, schema Schema) (*Table, error) {
	if schema == nil {
		schema = HeartSchema
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = !unicode.IsSpace(delim)
	cr.Comma = delim

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("read header: empty file")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}
	seen := make(map[string]bool, len(header))
	for _, h := range header {
		seen[h] = true
	}
	for _, f := range schema {
		if !seen[f.Name] {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, f.Name)
		}
	}

	raw := make([][]string, len(header))
	rows := 0
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", rows+1, err)
		}
		rows++
		for j := range header {
			v := ""
			if j < len(rec) {
				v = strings.TrimSpace(rec[j])
			}
			raw[j] = append(raw[j], v)
		}
	}

	t := &Table{}
	for j, name := range header {
		kind := inferKind(raw[j])
		if f, ok := schema.Lookup(name); ok {
			kind = f.Kind
		}
		col, err := buildColumn(name, kind, raw[j])
		if err != nil {
			return nil, err
		}
		if err := t.add(col); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func buildColumn(name string, kind Kind, vals []string) (*Column, error) {
	c := &Column{Name: name, Kind: kind}
	if kind == Categorical {
		c.Cats = make([]string, len(vals))
		copy(c.Cats, vals)
		return c, nil
	}
	c.Nums = make([]float64, len(vals))
	for i, v := range vals {
		if v == "" {
			c.Nums[i] = math.NaN()
			continue
		}
		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: column %s: invalid number %q", i+1, name, v)
		}
		c.Nums[i] = x
	}
	return c, nil
}

func inferKind(vals []string) Kind {
	for _, v := range vals {
		if v == "" {
			continue
		}
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			return Categorical
		}
	}
	return Numeric
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}
