package engineconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	p, err := Load(filepath.Join(t.TempDir(), "engine.json"))
	require.NoError(t, err)
	assert.Equal(t, Default(), p)
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"show_fps": true, "workers": 3}`), 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	want := Default()
	want.ShowFPS = true
	want.Workers = 3
	assert.Equal(t, want, p)
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"show_fps": `), 0o644))
	p, err := Load(path)
	assert.Error(t, err)
	assert.Equal(t, Default(), p)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "engine.json")
	p := Default()
	p.Bloom = true
	p.MetricsAddr = ":9090"
	p.WindowWidth = 800
	require.NoError(t, Save(path, p))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestApplyEnv(t *testing.T) {
	vars := map[string]string{
		EnvSystem:      "custom.yaml",
		EnvWorkers:     "3",
		EnvBloom:       "true",
		EnvRenderScale: "",
	}
	lookup := func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}

	p := Default()
	require.NoError(t, ApplyEnv(&p, lookup))
	assert.Equal(t, "custom.yaml", p.SystemPath)
	assert.Equal(t, 3, p.Workers)
	assert.True(t, p.Bloom)
	assert.Equal(t, Default().RenderScale, p.RenderScale, "empty values are skipped")
	assert.Empty(t, p.MetricsAddr)
}

func TestApplyEnvReportsBadValues(t *testing.T) {
	vars := map[string]string{EnvWorkers: "-1", EnvRenderScale: "huge", EnvMetricsAddr: ":9100"}
	lookup := func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}

	p := Default()
	err := ApplyEnv(&p, lookup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvWorkers)
	assert.Contains(t, err.Error(), EnvRenderScale)
	assert.Equal(t, Default().Workers, p.Workers)
	assert.Equal(t, ":9100", p.MetricsAddr)
}
