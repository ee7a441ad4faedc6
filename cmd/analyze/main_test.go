package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"gaitcli/internal/dataprocessing"
	"gaitcli/internal/dataset"
	"gaitcli/internal/infrastructure"
	"gaitcli/pkg/contracts/domain"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GAIT_CONFIG", "")
	t.Setenv("GAIT_LOGGING_LEVEL", "error")
	infrastructure.ResetLoggerForTesting()
	t.Cleanup(infrastructure.ResetLoggerForTesting)
}

// fullTrial has every default landmark; the torso moves from the origin to
// (3,4,0) over two seconds.
func fullTrial(t *testing.T, name string) *domain.Trial {
	t.Helper()
	var names []string
	var rows [3][]float64
	for g, group := range dataprocessing.DefaultMarkerSet().Groups() {
		names = append(names, group.Channels[:]...)
		for i := range rows {
			p := []float64{float64(g), float64(g * g), 1}
			if group.Name == domain.Torso {
				p = []float64{0, 0, 0}
				if i == 2 {
					p = []float64{3, 4, 0}
				}
			}
			rows[i] = append(rows[i], p...)
		}
	}
	data := append(append(rows[0], rows[1]...), rows[2]...)
	trial, err := domain.NewTrial(name, names, mat.NewDense(3, len(names), data), []float64{0, 1, 2}, true)
	require.NoError(t, err)
	return trial
}

func writeDataset(t *testing.T, trials ...*domain.Trial) string {
	t.Helper()
	ds := dataset.New()
	for _, tr := range trials {
		ds.Add(tr)
	}
	path := filepath.Join(t.TempDir(), "dataset.msgpack")
	require.NoError(t, ds.Save(path))
	return path
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-version"}, &stdout, &stderr)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "gaitcli analyze v")
}

func TestRun_BadFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run([]string{"-nope"}, &stdout, &stderr))
}

func TestRun_WritesOutputs(t *testing.T) {
	isolateEnv(t)
	in := writeDataset(t, fullTrial(t, "walk01"), fullTrial(t, "walk02"))
	out := t.TempDir()
	metricsPath := filepath.Join(t.TempDir(), "gait.prom")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-in", in, "-out", out, "-workers", "2", "-metrics-file", metricsPath}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	for _, name := range []string{
		"walk01_angles.csv", "walk02_angles.csv", "walking_speed.csv",
		"walk01_output.png", "walk02_output.png",
	} {
		assert.FileExists(t, filepath.Join(out, name))
	}

	summary, err := os.ReadFile(filepath.Join(out, "walking_speed.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(summary)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "walk01,2.5"))

	metrics, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "gait_trials_processed_total")

	assert.Contains(t, stdout.String(), "2 succeeded, 0 failed")
	assert.Contains(t, stdout.String(), "speed=2.5000")
}

func TestRun_CSVOnly(t *testing.T) {
	isolateEnv(t)
	in := writeDataset(t, fullTrial(t, "walk01"))
	out := t.TempDir()

	var stdout, stderr bytes.Buffer
	code := run([]string{"-in", in, "-out", out, "-charts=false"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	assert.FileExists(t, filepath.Join(out, "walk01_angles.csv"))
	assert.NoFileExists(t, filepath.Join(out, "walk01_output.png"))
}

func TestRun_FailedTrialSetsExitCode(t *testing.T) {
	isolateEnv(t)
	partial, err := domain.NewTrial("partial", []string{"Xmaxkif", "Ymaxkif", "Zmaxkif"},
		mat.NewDense(1, 3, []float64{0, 0, 0}), []float64{0}, true)
	require.NoError(t, err)
	in := writeDataset(t, fullTrial(t, "walk01"), partial)
	out := t.TempDir()

	var stdout, stderr bytes.Buffer
	code := run([]string{"-in", in, "-out", out, "-charts=false"}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.FileExists(t, filepath.Join(out, "walk01_angles.csv"))
	assert.Contains(t, stdout.String(), "1 succeeded, 1 failed")
}

func TestRun_MissingDataset(t *testing.T) {
	isolateEnv(t)

	var stdout, stderr bytes.Buffer
	code := run([]string{"-in", filepath.Join(t.TempDir(), "absent.msgpack"), "-out", t.TempDir()}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "analyze:")
}

func TestRun_MetricsFileWithoutExporter(t *testing.T) {
	isolateEnv(t)
	t.Setenv("GAIT_TELEMETRY_METRICS_EXPORTER", "none")
	in := writeDataset(t, fullTrial(t, "walk01"))
	out := t.TempDir()

	var stdout, stderr bytes.Buffer
	code := run([]string{"-in", in, "-out", out, "-metrics-file", filepath.Join(out, "run.prom")}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "MetricsFile")
	assert.NoFileExists(t, filepath.Join(out, "walk01_angles.csv"))
	assert.Empty(t, stdout.String())
}
