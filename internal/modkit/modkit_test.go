package modkit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	phttp "shiftlog/internal/platform/net/http"
	kit "shiftlog/internal/platform/testkit"

	"github.com/go-chi/chi/v5"
)

type notifierPorts struct{ Name string }

func TestBuild_AppliesOptionsInOrder(t *testing.T) {
	b := Build(
		WithName("first"),
		WithPrefix("/a"),
		WithName("timesheet"),
		WithPrefix("/timesheets"),
		WithPorts(notifierPorts{Name: "smtp"}),
	)
	if b.Name != "timesheet" || b.Prefix != "/timesheets" {
		t.Fatalf("later options should win: %+v", b)
	}
	p, ok := PortsAs[notifierPorts](b)
	if !ok || p.Name != "smtp" {
		t.Fatalf("PortsAs = %+v %v", p, ok)
	}
	if _, ok := PortsAs[int](b); ok {
		t.Fatalf("PortsAs with the wrong type should miss")
	}
	if b.Register == nil {
		t.Fatalf("Register should default to a no-op")
	}
}

func TestBuild_MiddlewareSliceIsCopied(t *testing.T) {
	mw := func(next http.Handler) http.Handler { return next }
	opts := []Option{WithMiddlewares(mw)}
	b1 := Build(opts...)
	b1.Mw[0] = nil
	b2 := Build(opts...)
	if b2.Mw[0] == nil {
		t.Fatalf("Build should not share middleware backing arrays")
	}
}

func TestBuilt_Mount(t *testing.T) {
	var order []string
	tag := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	b := Build(
		WithPrefix("timesheets/"),
		WithMiddlewares(tag("a"), tag("b")),
		WithRegister(func(r phttp.Router) {
			r.Get("/extra", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusAccepted) })
		}),
	)

	m := chi.NewRouter()
	b.Mount(phttp.AdaptChi(m), func(r phttp.Router) {
		r.Get("/own", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	})

	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest("GET", "/timesheets/own", nil))
	if rec.Code != http.StatusOK || len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("own route: code=%d order=%v", rec.Code, order)
	}
	rec = httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest("GET", "/timesheets/extra", nil))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("extra route: code=%d", rec.Code)
	}

	kit.MustPanic(t, func() { Build().Mount(phttp.AdaptChi(chi.NewRouter()), func(phttp.Router) {}) })
}

func TestDeps_Defaults(t *testing.T) {
	var d Deps
	if d.Logger("timesheet") == nil {
		t.Fatalf("Logger should fall back to the root logger")
	}
	if d.Clock()().IsZero() {
		t.Fatalf("Clock should fall back to time.Now")
	}
	fixed := time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC)
	d.Now = func() time.Time { return fixed }
	if !d.Clock()().Equal(fixed) {
		t.Fatalf("Clock should use Now")
	}
}
