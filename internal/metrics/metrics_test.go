package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/inspector/runtime/metadata"
)

func value(t *testing.T, m prometheus.Metric) float64 {
	t.Helper()
	var out dto.Metric
	require.NoError(t, m.Write(&out))
	switch {
	case out.Counter != nil:
		return out.Counter.GetValue()
	case out.Gauge != nil:
		return out.Gauge.GetValue()
	}
	t.Fatalf("unexpected metric type")
	return 0
}

type gauge struct {
	Level float32
}

func (gauge) DescribeFields(b *metadata.Builder[gauge]) {
	metadata.Ranged(b, "level", func(g *gauge) *float32 { return &g.Level }, 0, 1)
}

func TestInstall_ObservesRegistryBuilds(t *testing.T) {
	m := New()
	m.Install()
	defer metadata.OnRegistryBuilt(nil)

	metadata.RegistryFor[gauge]()
	metadata.RegistryFor[gauge]()

	assert.Equal(t, 1.0, value(t, m.registriesBuilt.WithLabelValues("gauge")))
	assert.Equal(t, 1.0, value(t, m.registryFields.WithLabelValues("gauge")))
}

func TestCounters(t *testing.T) {
	m := New()
	m.FrameDrawn("Stats")
	m.FrameDrawn("Stats")
	m.FieldsEdited("Stats", 3)
	m.FieldsEdited("Stats", 0)
	m.SnapshotSaved("Player")
	m.SessionOpened()
	m.SessionOpened()
	m.SessionClosed()

	assert.Equal(t, 2.0, value(t, m.framesDrawn.WithLabelValues("Stats")))
	assert.Equal(t, 3.0, value(t, m.fieldsEdited.WithLabelValues("Stats")))
	assert.Equal(t, 1.0, value(t, m.snapshotsSave.WithLabelValues("Player")))
	assert.Equal(t, 1.0, value(t, m.liveSessions))
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveRequest("/api/types", "GET", 200, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `inspector_http_requests_total{method="GET",route="/api/types",status="200"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
