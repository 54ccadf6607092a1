package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderBeforeInitIsNoop(t *testing.T) {
	var nilRecorder *Recorder
	assert.NotPanics(t, func() {
		nilRecorder.RecordRequest("Disks", "key", ResultOK, 0.001)
		nilRecorder.RecordRotation("Disks")
		nilRecorder.SetRotators(3)
	})
}

func TestInitMetrics(t *testing.T) {
	// Note: Init uses sync.Once, so collectors are shared across tests
	Init()
	Init()

	assert.True(t, isRegistered())
	assert.NotNil(t, GetRequestsTotal())
	assert.NotNil(t, GetRotationsTotal())
	assert.NotNil(t, GetRotatorsGauge())
}

func TestRecorder_RecordRequest(t *testing.T) {
	Init()
	m := NewRecorder()

	before := testutil.ToFloat64(GetRequestsTotal().WithLabelValues("metrics-test", "key", ResultOK))
	m.RecordRequest("metrics-test", "key", ResultOK, 0.0002)
	m.RecordRequest("metrics-test", "key", ResultOK, 0.0003)
	after := testutil.ToFloat64(GetRequestsTotal().WithLabelValues("metrics-test", "key", ResultOK))

	assert.Equal(t, before+2, after)
}

func TestRecorder_RecordRotation(t *testing.T) {
	Init()
	m := NewRecorder()

	before := testutil.ToFloat64(GetRotationsTotal().WithLabelValues("metrics-rot"))
	m.RecordRotation("metrics-rot")
	assert.Equal(t, before+1, testutil.ToFloat64(GetRotationsTotal().WithLabelValues("metrics-rot")))
}

func TestRecorder_SetRotators(t *testing.T) {
	Init()
	m := NewRecorder()

	m.SetRotators(4)
	assert.Equal(t, 4.0, testutil.ToFloat64(GetRotatorsGauge()))
}

func TestHandlerServesCollectors(t *testing.T) {
	m := NewRecorder()
	Init()
	m.RecordRequest("metrics-http", "value", ResultLookupError, 0.0001)

	srv := httptest.NewServer(Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "lcdrotator_requests_total")
	assert.Contains(t, string(body), `result="lookup_error"`)
}
