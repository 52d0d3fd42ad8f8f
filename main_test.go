package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags restores every flag to its default to avoid test contamination.
func resetFlags() {
	for _, fs := range []*pflag.FlagSet{rootCmd.PersistentFlags(), inspectCmd.Flags()} {
		fs.VisitAll(func(f *pflag.Flag) {
			f.Changed = false
			_ = f.Value.Set(f.DefValue)
		})
	}
	if h := inspectCmd.Flags().Lookup("help"); h != nil {
		_ = h.Value.Set("false")
	}
}

func newTestCmd(t *testing.T) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	resetFlags()
	stderr = io.Discard
	stdout := new(bytes.Buffer)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(io.Discard)
	return rootCmd, stdout
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// noConfig points --config at a file that does not exist so the user's
// own config is never read.
func noConfig(t *testing.T) string {
	return filepath.Join(t.TempDir(), "none.yaml")
}

const salesCSV = "Region,Amount,Date\nEast,10,2024-01-05\nWest,5,2024-02-10\nEast,3,2024-03-15\nNorth,7,2024-04-20\n"

func TestInspect_SummaryRowsAndChart(t *testing.T) {
	cmd, stdout := newTestCmd(t)
	path := writeFile(t, "sales.csv", salesCSV)
	cmd.SetArgs([]string{"inspect", path, "--config", noConfig(t), "--no-color",
		"--search", "east", "--sort-col", "amount", "--desc", "--chart"})

	require.NoError(t, cmd.Execute())

	out := stdout.String()
	assert.Contains(t, out, "sheet 1/1: Sheet1 (4 rows)")
	assert.Contains(t, out, `Rows: 2 of 4 match "east", sorted by Amount desc`)
	assert.Contains(t, out, "Chart: Amount by Region")
	assert.Regexp(t, `East\s+█+\s+13`, out)
	assert.Regexp(t, `North\s+█+\s+7`, out)
}

func TestInspect_ColumnByPosition(t *testing.T) {
	cmd, stdout := newTestCmd(t)
	path := writeFile(t, "sales.csv", salesCSV)
	cmd.SetArgs([]string{"inspect", path, "--config", noConfig(t), "--sort-col", "2", "--no-rows"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), "sorted by Amount asc")
	assert.NotContains(t, stdout.String(), "│")
}

func TestInspect_UnsupportedFile(t *testing.T) {
	cmd, _ := newTestCmd(t)
	path := writeFile(t, "notes.txt", "hello")
	cmd.SetArgs([]string{"inspect", path, "--config", noConfig(t)})

	err := cmd.Execute()
	var ece *exitCodeError
	require.True(t, errors.As(err, &ece))
	assert.Equal(t, ExitInvalidArgs, ece.code)
	assert.Contains(t, ece.msg, "Unsupported file type")
}

func TestInspect_ParseFailure(t *testing.T) {
	cmd, _ := newTestCmd(t)
	path := writeFile(t, "broken.xlsx", "definitely not a zip archive")
	cmd.SetArgs([]string{"inspect", path, "--config", noConfig(t)})

	err := cmd.Execute()
	var ece *exitCodeError
	require.True(t, errors.As(err, &ece))
	assert.Equal(t, ExitParseFailure, ece.code)
	assert.Contains(t, ece.msg, "Could not read the file")
}

func TestInspect_UnknownSheet(t *testing.T) {
	cmd, _ := newTestCmd(t)
	path := writeFile(t, "sales.csv", salesCSV)
	cmd.SetArgs([]string{"inspect", path, "--config", noConfig(t), "--sheet", "Budget"})

	err := cmd.Execute()
	var ece *exitCodeError
	require.True(t, errors.As(err, &ece))
	assert.Equal(t, ExitInvalidArgs, ece.code)
	assert.Contains(t, ece.msg, `"Budget" not found`)
}

func TestInspect_FlagsOverrideConfig(t *testing.T) {
	cmd, stdout := newTestCmd(t)
	cfgPath := writeFile(t, "config.yaml", "row_limit: 1\nchart_top_n: 1\n")
	path := writeFile(t, "sales.csv", salesCSV)
	cmd.SetArgs([]string{"inspect", path, "--config", cfgPath, "--row-limit", "3"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, 3, cfg.RowLimit)
	assert.Equal(t, 1, cfg.ChartTopN)
	assert.Contains(t, stdout.String(), "(showing first 3)")
}

func TestRoot_ZeroRowLimitRejected(t *testing.T) {
	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{"row-limit flag", []string{"--row-limit", "0"}, "row_limit must be positive, got 0"},
		{"inspect limit", []string{"--limit", "0"}, "--limit must be positive, got 0"},
		{"inspect top", []string{"--top=-1"}, "--top must be positive, got -1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, _ := newTestCmd(t)
			path := writeFile(t, "sales.csv", salesCSV)
			cmd.SetArgs(append([]string{"inspect", path, "--config", noConfig(t)}, tt.args...))

			err := cmd.Execute()
			var ece *exitCodeError
			require.True(t, errors.As(err, &ece))
			assert.Equal(t, ExitInvalidArgs, ece.code)
			assert.Contains(t, ece.msg, tt.msg)
		})
	}
}

func TestRoot_InvalidConfig(t *testing.T) {
	cmd, _ := newTestCmd(t)
	cfgPath := writeFile(t, "config.yaml", "csv_encoding: klingon\n")
	cmd.SetArgs([]string{"version", "--config", cfgPath})

	err := cmd.Execute()
	var ece *exitCodeError
	require.True(t, errors.As(err, &ece))
	assert.Equal(t, ExitInvalidArgs, ece.code)
}

func TestVersionCmd(t *testing.T) {
	cmd, stdout := newTestCmd(t)
	cmd.SetArgs([]string{"version", "--config", noConfig(t)})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), "sheetscope dev")
}

func TestResolveIndex(t *testing.T) {
	names := []string{"Region", "Amount", "Column 3"}
	tests := []struct {
		name    string
		ref     string
		want    int
		wantErr bool
	}{
		{"exact name", "Amount", 1, false},
		{"case insensitive", "region", 0, false},
		{"placeholder header", "column 3", 2, false},
		{"position", "2", 1, false},
		{"position out of range", "4", 0, true},
		{"unknown", "Price", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveIndex(names, tt.ref)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
