package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar-system/internal/render"
)

func TestObserve(t *testing.T) {
	c := New()
	st := render.Stats{Triangles: 100, Culled: 40, Degenerate: 2, Clipped: 1, Rasterized: 57, Pixels: 900}
	c.Observe(st, 4*time.Millisecond)
	c.Observe(st, 6*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.frames))
	assert.Equal(t, 200.0, testutil.ToFloat64(c.triangles.WithLabelValues("submitted")))
	assert.Equal(t, 80.0, testutil.ToFloat64(c.triangles.WithLabelValues("culled")))
	assert.Equal(t, 114.0, testutil.ToFloat64(c.triangles.WithLabelValues("rasterized")))
	assert.Equal(t, 1800.0, testutil.ToFloat64(c.pixels))
	assert.Equal(t, 900.0, testutil.ToFloat64(c.lastPixels))
	assert.Equal(t, 1, testutil.CollectAndCount(c.frameDuration))
}

func TestCollectorsAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.Observe(render.Stats{Pixels: 1}, time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(a.frames))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.frames))
}

func TestHandler(t *testing.T) {
	c := New()
	c.SetSimulationTime(12.5)
	c.Observe(render.Stats{Triangles: 3}, time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)

	text := string(body)
	assert.True(t, strings.Contains(text, "solarsystem_simulation_seconds 12.5"), text)
	assert.Contains(t, text, `solarsystem_triangles_total{outcome="submitted"} 3`)
}
