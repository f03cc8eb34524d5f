package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegistry(t *testing.T) {
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
	assert.Same(t, registry, InitRegistry())
}

func TestRecordWagerSettled(t *testing.T) {
	InitRegistry()

	won := testutil.ToFloat64(WagersSettledTotal.WithLabelValues("Ganador", "won"))
	lost := testutil.ToFloat64(WagersSettledTotal.WithLabelValues("Ganador", "lost"))
	stake := testutil.ToFloat64(StakeTotal)

	RecordWagerSettled("Ganador", true, 100, 650, 6.5, 0.01)
	RecordWagerSettled("Ganador", false, 40, 0, 1.5, 0.01)

	assert.Equal(t, won+1, testutil.ToFloat64(WagersSettledTotal.WithLabelValues("Ganador", "won")))
	assert.Equal(t, lost+1, testutil.ToFloat64(WagersSettledTotal.WithLabelValues("Ganador", "lost")))
	assert.Equal(t, stake+140, testutil.ToFloat64(StakeTotal))
}

func TestRecordWagerRejected(t *testing.T) {
	InitRegistry()

	before := testutil.ToFloat64(WagersRejectedTotal.WithLabelValues("validating", "validation"))
	RecordWagerRejected("validating", "validation", 0.001)
	assert.Equal(t, before+1, testutil.ToFloat64(WagersRejectedTotal.WithLabelValues("validating", "validation")))
}

func TestRecordCacheLookupAndEvents(t *testing.T) {
	InitRegistry()

	tests := []struct {
		name   string
		hit    bool
		result string
	}{
		{"hit", true, "hit"},
		{"miss", false, "miss"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(CacheLookupsTotal.WithLabelValues("memory", tt.result))
			RecordCacheLookup("memory", tt.hit)
			assert.Equal(t, before+1, testutil.ToFloat64(CacheLookupsTotal.WithLabelValues("memory", tt.result)))
		})
	}

	before := testutil.ToFloat64(EventsPublishedTotal.WithLabelValues("error"))
	RecordEventPublished(errors.New("broker down"))
	assert.Equal(t, before+1, testutil.ToFloat64(EventsPublishedTotal.WithLabelValues("error")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	InitRegistry()
	RecordHTTPRequest("/f1_api/v1/bet", http.MethodPost, http.StatusOK, 0.02)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "f1_api_http_requests_total"))
	assert.True(t, strings.Contains(body, `route="/f1_api/v1/bet"`))
}
