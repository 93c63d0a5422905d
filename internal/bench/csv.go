package bench

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"nbody-bench/internal/dataset"
	storage "nbody-bench/internal/infra/fs"
)

// WriteCSV writes results with the header the chart expects
func WriteCSV(w io.Writer, results []Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(dataset.RequiredColumns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, res := range results {
		row := []string{
			strconv.Itoa(res.Bodies),
			strconv.Itoa(res.Threads),
			strconv.FormatFloat(res.TimeSec, 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV atomically replaces path with the results table
func SaveCSV(path string, results []Result) error {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, results); err != nil {
		return err
	}
	if err := storage.WriteFileAtomic(path, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}
	return nil
}
