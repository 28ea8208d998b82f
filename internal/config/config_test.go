package config_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farcloser/lrascan/internal/config"
	"github.com/farcloser/lrascan/internal/discovery"
	"github.com/farcloser/lrascan/internal/store"
)

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "ffmpeg", cfg.Analyzer)
	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
	assert.Equal(t, config.DefaultResultsFile, cfg.ResultsFile)
	assert.Equal(t, store.DefaultHeader, cfg.Header)
	assert.Equal(t, discovery.DefaultExtensions, cfg.Extensions)
	assert.Zero(t, cfg.Timeout)
	assert.Empty(t, cfg.MetricsFile)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "lrascan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
analyzer: /opt/ffmpeg/bin/ffmpeg
workers: 3
results_file: out/lra.txt
extensions: [".FLAC", "wav"]
timeout: 90s
metrics_file: /var/lib/node_exporter/lrascan.prom
`), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/opt/ffmpeg/bin/ffmpeg", cfg.Analyzer)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "out/lra.txt", cfg.ResultsFile)
	assert.Equal(t, store.DefaultHeader, cfg.Header)
	assert.Equal(t, []string{"flac", "wav"}, cfg.Extensions)
	assert.Equal(t, 90*time.Second, cfg.Timeout)
	assert.Equal(t, "/var/lib/node_exporter/lrascan.prom", cfg.MetricsFile)
}

func TestParseEmptyDocument(t *testing.T) {
	t.Parallel()

	cfg, err := config.Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, config.Default().Analyzer, cfg.Analyzer)
}

func TestParseRejects(t *testing.T) {
	t.Parallel()

	for name, doc := range map[string]string{
		"unknown key":      "paralelism: 4\n",
		"empty extensions": "extensions: [\"\", \".\"]\n",
		"negative timeout": "timeout: -1s\n",
		"bad duration":     "timeout: soon\n",
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := config.Parse([]byte(doc))
			require.Error(t, err)
		})
	}
}

func TestNormalizeClampsWorkers(t *testing.T) {
	t.Parallel()

	cfg := config.Config{Workers: -2}
	require.NoError(t, cfg.Normalize())
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, "ffmpeg", cfg.Analyzer)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
