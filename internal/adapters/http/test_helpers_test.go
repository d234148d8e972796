package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/OliveiraNt/maned-bridge/internal/adapters/http/resp"
	"github.com/OliveiraNt/maned-bridge/internal/application"
	"github.com/OliveiraNt/maned-bridge/internal/metrics"
	"github.com/OliveiraNt/maned-bridge/internal/testutil"
	"github.com/OliveiraNt/maned-bridge/internal/utils"
)

type testEnv struct {
	handler http.Handler
	client  *testutil.FakePlacementClient
	audit   *testutil.FakeAuditSink
}

// buildServer wires real services to a fake placement client.
func buildServer(t *testing.T) *testEnv {
	t.Helper()
	utils.InitLogger()
	cfg := testutil.NewStaticConfig("c1", "p1:1228")
	client := testutil.NewFakePlacementClient()
	audit := &testutil.FakeAuditSink{}
	s := New(
		application.NewTopicService(cfg, client, audit),
		application.NewAuthDriver(cfg, client, audit),
		metrics.New(""),
	)
	return &testEnv{handler: s.Router(), client: client, audit: audit}
}

// post sends body to path and returns the recorded response. body may be a
// string sent verbatim or a value encoded as JSON.
func (e *testEnv) post(t *testing.T, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var raw []byte
	switch b := body.(type) {
	case string:
		raw = []byte(b)
	default:
		var err error
		raw, err = json.Marshal(b)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

// envelope asserts status 200 and decodes the envelope.
func envelope(t *testing.T, rec *httptest.ResponseRecorder) resp.Raw {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var out resp.Raw
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}
