package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestParse_Example(t *testing.T) {
	input := "bodies,threads,time_sec\n10,1,5.0\n10,2,2.6\n20,1,9.8\n"

	ds, err := Parse(strings.NewReader(input), "results.csv")
	require.NoError(t, err)
	require.Equal(t, 3, ds.Len())

	groups := ds.GroupByBodies()
	require.Len(t, groups, 2)

	assert.Equal(t, "10", groups[0].Bodies)
	assert.Equal(t, []Record{
		{Bodies: "10", Threads: 1, TimeSec: 5.0},
		{Bodies: "10", Threads: 2, TimeSec: 2.6},
	}, groups[0].Records)

	assert.Equal(t, "20", groups[1].Bodies)
	assert.Equal(t, []Record{{Bodies: "20", Threads: 1, TimeSec: 9.8}}, groups[1].Records)
}

func TestParse_ExtraColumnsAndOrder(t *testing.T) {
	input := "run,time_sec,host,threads,bodies\n" +
		"a,1.5,h1,4,100\n" +
		"b,0.7,h1,8,100\n"

	ds, err := Parse(strings.NewReader(input), "mem")
	require.NoError(t, err)
	assert.Equal(t, []Record{
		{Bodies: "100", Threads: 4, TimeSec: 1.5},
		{Bodies: "100", Threads: 8, TimeSec: 0.7},
	}, ds.Records())
}

func TestParse_BOMAndSpaces(t *testing.T) {
	input := "\ufeffbodies, threads, time_sec\n 50, 2, 0.25\n"

	ds, err := Parse(strings.NewReader(input), "mem")
	require.NoError(t, err)
	assert.Equal(t, []Record{{Bodies: "50", Threads: 2, TimeSec: 0.25}}, ds.Records())
}

func TestGroupByBodies_FirstAppearanceOrder(t *testing.T) {
	input := "bodies,threads,time_sec\n" +
		"200,1,9\n" +
		"10,1,1\n" +
		"200,2,5\n" +
		"10,2,0.6\n" +
		"50,1,3\n"

	ds, err := Parse(strings.NewReader(input), "mem")
	require.NoError(t, err)

	groups := ds.GroupByBodies()
	var keys []string
	for _, g := range groups {
		keys = append(keys, g.Bodies)
	}
	assert.Equal(t, []string{"200", "10", "50"}, keys)
	assert.Equal(t, 2, groups[0].Threads()[1])
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
		line    int
	}{
		{"empty input", "", ErrNoHeader, 0},
		{"missing time_sec", "bodies,threads\n10,1\n", ErrMissingColumn, 1},
		{"missing bodies", "threads,time_sec\n1,2.0\n", ErrMissingColumn, 1},
		{"empty cell", "bodies,threads,time_sec\n10,,1.0\n", ErrEmptyField, 2},
		{"short row", "bodies,threads,time_sec\n10,1\n", ErrEmptyField, 2},
		{"bad threads", "bodies,threads,time_sec\n10,one,1.0\n", strconv.ErrSyntax, 2},
		{"bad time", "bodies,threads,time_sec\n10,1,fast\n10,2,1\n", strconv.ErrSyntax, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input), "results.csv")
			require.Error(t, err)

			var dle *DataLoadError
			require.ErrorAs(t, err, &dle)
			assert.Equal(t, "results.csv", dle.Path)
			assert.Equal(t, tt.line, dle.Line)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestParse_MalformedQuoting(t *testing.T) {
	_, err := Parse(strings.NewReader("bodies,threads,time_sec\n\"10,1,2\n"), "mem")
	var dle *DataLoadError
	require.ErrorAs(t, err, &dle)
}

func TestLoad_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")

	_, err := Load(path)
	var dle *DataLoadError
	require.ErrorAs(t, err, &dle)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	require.NoError(t, os.WriteFile(path, []byte("bodies,threads,time_sec\n10,1,5.0\n"), 0644))

	ds, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, ds.Source())
	assert.Equal(t, 1, ds.Len())
}

func TestRecords_ReturnsCopy(t *testing.T) {
	ds, err := Parse(strings.NewReader("bodies,threads,time_sec\n10,1,5.0\n"), "mem")
	require.NoError(t, err)

	recs := ds.Records()
	recs[0].TimeSec = 99
	assert.Equal(t, 5.0, ds.Records()[0].TimeSec)
}

// For any valid table: one group per distinct bodies value, group sizes match row
// counts, and each group's rows are the source rows in order.
func TestGroupByBodies_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		labels := rapid.SliceOfNDistinct(rapid.IntRange(1, 5000), 1, 6, rapid.ID[int]).Draw(t, "labels")
		n := rapid.IntRange(1, 40).Draw(t, "rows")

		var sb strings.Builder
		sb.WriteString("bodies,threads,time_sec\n")
		rows := make([]Record, 0, n)
		for i := 0; i < n; i++ {
			rec := Record{
				Bodies:  strconv.Itoa(rapid.SampledFrom(labels).Draw(t, "bodies")),
				Threads: rapid.IntRange(1, 64).Draw(t, "threads"),
				TimeSec: rapid.Float64Range(1e-6, 1e4).Draw(t, "time"),
			}
			rows = append(rows, rec)
			fmt.Fprintf(&sb, "%s,%d,%s\n", rec.Bodies, rec.Threads, strconv.FormatFloat(rec.TimeSec, 'g', -1, 64))
		}

		ds, err := Parse(strings.NewReader(sb.String()), "gen")
		if err != nil {
			t.Fatalf("parse: %v", err)
		}

		distinct := map[string]bool{}
		var firstSeen []string
		for _, r := range rows {
			if !distinct[r.Bodies] {
				distinct[r.Bodies] = true
				firstSeen = append(firstSeen, r.Bodies)
			}
		}

		groups := ds.GroupByBodies()
		if len(groups) != len(distinct) {
			t.Fatalf("got %d groups, want %d", len(groups), len(distinct))
		}

		total := 0
		for gi, g := range groups {
			if g.Bodies != firstSeen[gi] {
				t.Fatalf("group %d is %q, want %q", gi, g.Bodies, firstSeen[gi])
			}
			var want []Record
			for _, r := range rows {
				if r.Bodies == g.Bodies {
					want = append(want, r)
				}
			}
			if len(g.Records) != len(want) {
				t.Fatalf("group %q has %d rows, want %d", g.Bodies, len(g.Records), len(want))
			}
			for i := range want {
				if g.Records[i] != want[i] {
					t.Fatalf("group %q row %d = %+v, want %+v", g.Bodies, i, g.Records[i], want[i])
				}
			}
			total += len(g.Records)
		}
		if total != n {
			t.Fatalf("grouped %d rows, want %d", total, n)
		}
	})
}
