package module

import (
	"sync"
	"testing"

	phttp "shiftlog/internal/platform/net/http"
	kit "shiftlog/internal/platform/testkit"
)

type Notifier interface{ Notify() int }

type fakeNotifier struct{ n int }

func (f fakeNotifier) Notify() int { return f.n }

type fakeModule struct {
	name  string
	ports any
}

func (m fakeModule) Name() string             { return m.name }
func (m fakeModule) Ports() any               { return m.ports }
func (m fakeModule) MountRoutes(phttp.Router) {}

func TestPortsOf(t *testing.T) {
	type Bundle struct {
		Notifier Notifier
		Count    int
	}
	type hidden struct {
		notifier Notifier
	}

	cases := []struct {
		name  string
		ports any
		want  int
		ok    bool
	}{
		{"nil ports", nil, 0, false},
		{"direct", Notifier(fakeNotifier{n: 42}), 42, true},
		{"struct field", Bundle{Notifier: fakeNotifier{n: 7}}, 7, true},
		{"pointer to struct", &Bundle{Notifier: fakeNotifier{n: 8}}, 8, true},
		{"unexported field ignored", hidden{notifier: fakeNotifier{n: 1}}, 0, false},
		{"primitive", 123, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := PortsOf[Notifier](fakeModule{name: "m", ports: tc.ports})
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if ok && got.Notify() != tc.want {
				t.Fatalf("Notify = %d, want %d", got.Notify(), tc.want)
			}
		})
	}
}

func TestMustPortsOf(t *testing.T) {
	kit.MustPanicWith(t, "timesheet", func() { _ = MustPortsOf[Notifier](fakeModule{name: "timesheet"}) })

	got := MustPortsOf[Notifier](fakeModule{name: "ok", ports: Notifier(fakeNotifier{n: 99})})
	if got.Notify() != 99 {
		t.Fatalf("Notify = %d", got.Notify())
	}
}

func TestRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	Register("timesheet", fakeNotifier{n: 1})
	if got, ok := PortsAs[fakeNotifier]("timesheet"); !ok || got.n != 1 {
		t.Fatalf("PortsAs = %+v %v", got, ok)
	}
	if _, ok := PortsAs[int]("timesheet"); ok {
		t.Fatalf("type mismatch should miss")
	}
	if _, ok := PortsAs[fakeNotifier]("missing"); ok {
		t.Fatalf("missing name should miss")
	}

	Register("timesheet", fakeNotifier{n: 2})
	if got, _ := PortsAs[fakeNotifier]("timesheet"); got.n != 2 {
		t.Fatalf("Register should overwrite, got %+v", got)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			Register("concurrent", fakeNotifier{n: i})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			_, _ = PortsAs[fakeNotifier]("concurrent")
		}
	}()
	wg.Wait()

	Reset()
	if _, ok := PortsAs[fakeNotifier]("timesheet"); ok {
		t.Fatalf("Reset should clear the registry")
	}
}
