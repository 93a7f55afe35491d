package module

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	modkit "shiftlog/internal/modkit"
	phttp "shiftlog/internal/platform/net/http"
	kit "shiftlog/internal/platform/testkit"
	metahttp "shiftlog/internal/services/api/meta/http"

	"github.com/go-chi/chi/v5"
)

type fixedSize int

func (f fixedSize) Size() int { return int(f) }

func TestMetaRoutes(t *testing.T) {
	start := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	now := start
	deps := modkit.Deps{Now: func() time.Time { return now }}
	m := New(deps, "shiftlog-api", modkit.WithPorts(Ports{Session: fixedSize(3)}))
	if m.Name() != "meta" || m.Prefix() != "/meta" || m.Ports() != nil {
		t.Fatalf("module identity: %q %q", m.Name(), m.Prefix())
	}

	mux := chi.NewRouter()
	m.MountRoutes(phttp.AdaptChi(mux))
	now = start.Add(90 * time.Second)

	get := func(path string) []byte {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s = %d", path, rec.Code)
		}
		return rec.Body.Bytes()
	}

	var svc struct {
		Data metahttp.ServiceResponse `json:"data"`
	}
	if err := json.Unmarshal(get("/meta/service"), &svc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if svc.Data.Name != "shiftlog-api" || svc.Data.Uptime != 90 || svc.Data.Employees != 3 {
		t.Fatalf("service = %+v", svc.Data)
	}

	kit.MustContain(t, string(get("/meta/health")), `"ok":true`)
	kit.MustContain(t, string(get("/meta/version")), `"service":"shiftlog-api"`)
}

func TestNew_RequiresServiceName(t *testing.T) {
	kit.MustPanic(t, func() { New(modkit.Deps{}, " ") })
}
