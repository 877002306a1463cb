package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uyouii/splash-energy/common"
	"github.com/uyouii/splash-energy/report"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

// fixtures writes 16 camera splashes with one particle of energy 10 and 48
// sticky paper splashes with two beads each.
func fixtures(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()

	var camera, sticky strings.Builder
	camera.WriteString("no,v,e\n")
	for no := 1; no <= 16; no++ {
		fmt.Fprintf(&camera, "%d,3.5,10\n", no)
	}
	sticky.WriteString("no,e\n")
	for no := 1; no <= 48; no++ {
		fmt.Fprintf(&sticky, "%d,1\n%d,1\n", no, no)
	}

	cameraPath, stickyPath := filepath.Join(dir, "hsc.csv"), filepath.Join(dir, "sp.csv")
	require.NoError(t, os.WriteFile(cameraPath, []byte(camera.String()), 0o644))
	require.NoError(t, os.WriteFile(stickyPath, []byte(sticky.String()), 0o644))
	return cameraPath, stickyPath
}

func lastLineOf(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	return lines[len(lines)-1]
}

func TestRoot_TextReport(t *testing.T) {
	camera, sticky := fixtures(t)

	stdout, _, err := execute(t, "", camera, sticky, "5", "--seed", "7")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Scaling mean = 2, std = 0")
	assert.Equal(t, "5 0.0000 5.0000 5.0000 2 3", lastLineOf(stdout))

	stdout, _, err = execute(t, "", camera, sticky, "5", "--include-parts")
	require.NoError(t, err)
	assert.Equal(t, "5 0.0000 5.0000 5.0000 2 3 2 2", lastLineOf(stdout))
}

func TestRoot_JSONReport(t *testing.T) {
	camera, sticky := fixtures(t)

	stdout, _, err := execute(t, "", camera, sticky, "5", "--format", report.FormatJSON, "--samples", "10")
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	assert.Equal(t, "5 0.0000 5.0000 5.0000 2 3", doc["summary_line"])
	assert.NotEmpty(t, doc["run_id"])
}

func TestRoot_PlotsAndDumpConfig(t *testing.T) {
	camera, sticky := fixtures(t)
	dir := filepath.Join(t.TempDir(), "plots")

	_, stderr, err := execute(t, "", camera, sticky, "5", "--plot-dir", dir, "--dump-config")
	require.NoError(t, err)
	assert.Contains(t, stderr, "SampleCount")
	assert.FileExists(t, filepath.Join(dir, report.RatioPlotFile))
	assert.FileExists(t, filepath.Join(dir, report.EnergyPlotFile))
}

func TestRoot_Errors(t *testing.T) {
	camera, sticky := fixtures(t)

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"quantum count not a number", []string{camera, sticky, "five"}, common.ErrorInvalidArgs},
		{"zero quantum count", []string{camera, sticky, "0"}, common.ErrorInvalidValue},
		{"zero samples", []string{camera, sticky, "5", "--samples", "0"}, common.ErrorDegenerateInput},
		{"unknown format", []string{camera, sticky, "5", "--format", "xml"}, common.ErrorInvalidArgs},
		{"missing file", []string{filepath.Join(t.TempDir(), "absent.csv"), sticky, "5"}, os.ErrNotExist},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := execute(t, "", tt.args...)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, stdout)
		})
	}

	_, _, err := execute(t, "", camera, sticky)
	assert.Error(t, err)
}

func TestPartitions(t *testing.T) {
	want := "no,prob\n2,0.5\n3,0.5\n"

	stdout, _, err := execute(t, "", "partitions", "6", "1", "6", "6", "2", "3")
	require.NoError(t, err)
	assert.Equal(t, want, stdout)

	html := filepath.Join(t.TempDir(), "parts.html")
	input := "Energy mean = 6, std = 1\n6 1.0000 6.0000 6.0000 2 3\n\n"
	stdout, _, err = execute(t, input, "partitions", "-", "--html", html)
	require.NoError(t, err)
	assert.Equal(t, want, stdout)

	content, err := os.ReadFile(html)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Particles per splash")
}

func TestPartitions_Errors(t *testing.T) {
	_, _, err := execute(t, "", "partitions", "6", "1", "6")
	assert.ErrorIs(t, err, common.ErrorInvalidArgs)

	_, _, err = execute(t, "", "partitions", "-")
	assert.ErrorIs(t, err, common.ErrorInvalidArgs)

	// std 0 cannot describe a normal distribution
	_, _, err = execute(t, "", "partitions", "5", "0", "5", "5", "2", "3")
	assert.ErrorIs(t, err, common.ErrorInvalidValue)
}
