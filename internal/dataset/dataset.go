package dataset

// Benchmark results table: one row per (bodies, threads) run
// Loaded once from CSV, immutable afterwards

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const (
	ColumnBodies  = "bodies"
	ColumnThreads = "threads"
	ColumnTimeSec = "time_sec"
)

// RequiredColumns must all appear in the header; other columns are ignored
var RequiredColumns = []string{ColumnBodies, ColumnThreads, ColumnTimeSec}

// Record is one benchmark run. Bodies keeps the raw cell text: it is a label, not a number.
type Record struct {
	Bodies  string
	Threads int
	TimeSec float64
}

// Group is the records sharing one Bodies value, in source row order
type Group struct {
	Bodies  string
	Records []Record
}

// Threads returns the x values of the group in row order
func (g Group) Threads() []int {
	out := make([]int, len(g.Records))
	for i, rec := range g.Records {
		out[i] = rec.Threads
	}
	return out
}

// Times returns the y values of the group in row order
func (g Group) Times() []float64 {
	out := make([]float64, len(g.Records))
	for i, rec := range g.Records {
		out[i] = rec.TimeSec
	}
	return out
}

type Dataset struct {
	source  string
	records []Record
}

// Load reads the CSV file at path
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DataLoadError{Path: path, Err: err}
	}
	defer f.Close()

	return Parse(f, path)
}

// Parse reads CSV from r; source names the input in errors
func Parse(r io.Reader, source string) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged rows are checked per column below
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &DataLoadError{Path: source, Err: ErrNoHeader}
	}
	if err != nil {
		return nil, wrapCSVError(source, err)
	}

	index, err := columnIndex(header)
	if err != nil {
		return nil, &DataLoadError{Path: source, Line: 1, Err: err}
	}

	ds := &Dataset{source: source}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, wrapCSVError(source, err)
		}

		line, _ := reader.FieldPos(0)
		if isBlank(row) {
			continue
		}

		rec, err := parseRecord(row, index)
		if err != nil {
			return nil, &DataLoadError{Path: source, Line: line, Err: err}
		}
		ds.records = append(ds.records, rec)
	}

	return ds, nil
}

func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return index, nil
}

func parseRecord(row []string, index map[string]int) (Record, error) {
	field := func(col string) (string, error) {
		i := index[col]
		if i >= len(row) {
			return "", fmt.Errorf("%w: %s", ErrEmptyField, col)
		}
		v := strings.TrimSpace(row[i])
		if v == "" {
			return "", fmt.Errorf("%w: %s", ErrEmptyField, col)
		}
		return v, nil
	}

	bodies, err := field(ColumnBodies)
	if err != nil {
		return Record{}, err
	}

	threadsRaw, err := field(ColumnThreads)
	if err != nil {
		return Record{}, err
	}
	threads, err := strconv.Atoi(threadsRaw)
	if err != nil {
		return Record{}, fmt.Errorf("invalid %s %q: %w", ColumnThreads, threadsRaw, err)
	}

	timeRaw, err := field(ColumnTimeSec)
	if err != nil {
		return Record{}, err
	}
	timeSec, err := strconv.ParseFloat(timeRaw, 64)
	if err != nil {
		return Record{}, fmt.Errorf("invalid %s %q: %w", ColumnTimeSec, timeRaw, err)
	}

	return Record{Bodies: bodies, Threads: threads, TimeSec: timeSec}, nil
}

func wrapCSVError(source string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &DataLoadError{Path: source, Line: pe.Line, Err: pe.Err}
	}
	return &DataLoadError{Path: source, Err: err}
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Source is the path or name the dataset was read from
func (d *Dataset) Source() string {
	return d.source
}

func (d *Dataset) Len() int {
	return len(d.records)
}

// Records returns a copy of all rows in file order
func (d *Dataset) Records() []Record {
	out := make([]Record, len(d.records))
	copy(out, d.records)
	return out
}

// GroupByBodies partitions rows by Bodies. Groups come in order of first appearance,
// rows inside a group keep file order.
func (d *Dataset) GroupByBodies() []Group {
	var groups []Group
	position := make(map[string]int)

	for _, rec := range d.records {
		i, ok := position[rec.Bodies]
		if !ok {
			i = len(groups)
			position[rec.Bodies] = i
			groups = append(groups, Group{Bodies: rec.Bodies})
		}
		groups[i].Records = append(groups[i].Records, rec)
	}

	return groups
}
