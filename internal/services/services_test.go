package services

import (
	"net/http"
	"net/http/httptest"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/viper"

	"github.com/wavelength/sociogram/internal/cms"
)

// fakeBackend is a scriptable stand-in for the headless backend: each
// route handler gets the raw request and answers enveloped JSON the
// way the real API does.
type fakeBackend struct {
	t       *testing.T
	mux     *http.ServeMux
	server  *httptest.Server
	decoded []string
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{t: t, mux: http.NewServeMux()}
	fb.server = httptest.NewServer(fb.mux)
	t.Cleanup(fb.server.Close)
	return fb
}

func (fb *fakeBackend) handle(pattern string, handler http.HandlerFunc) {
	fb.mux.HandleFunc(pattern, handler)
}

func (fb *fakeBackend) install(t *testing.T) {
	t.Helper()
	prev := Cx
	Cx = cms.NewClient(fb.server.URL, cms.NoopScheduler{})
	viper.Set("cms.public_token", "public-test-token")
	t.Cleanup(func() {
		Cx = prev
		viper.Set("cms.public_token", "")
	})
}

func writeData(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	raw, _ := jsoniter.Marshal(map[string]any{"data": payload})
	_, _ = w.Write(raw)
}
