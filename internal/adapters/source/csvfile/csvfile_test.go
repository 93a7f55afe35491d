package csvfile

import (
	"context"
	"errors"
	"io"
	"slices"
	"strings"
	"testing"
	"testing/iotest"

	perr "shiftlog/internal/platform/errors"
	kit "shiftlog/internal/platform/testkit"
)

func TestCheckPath(t *testing.T) {
	cases := []struct {
		arg  string
		want string
		ok   bool
	}{
		{"test.csv", "test.csv", true},
		{"  test.csv extra args", "test.csv", true},
		{"test_data/test.csv", "test_data/test.csv", true},
		{"./data/test.csv", "./data/test.csv", true},
		{"", "", false},
		{"   ", "", false},
		{"test", "", false},
		{"test.txt", "", false},
		{"test.tar.csv", "", false},
		{".csv", "", false},
		{"test.CSV", "", false},
	}
	for _, c := range cases {
		got, err := CheckPath(c.arg)
		if c.ok {
			if err != nil || got != c.want {
				t.Fatalf("CheckPath(%q) = %q, %v; want %q", c.arg, got, err, c.want)
			}
			continue
		}
		if err == nil {
			t.Fatalf("CheckPath(%q) accepted, want error", c.arg)
		}
		if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
			t.Fatalf("CheckPath(%q) code = %v", c.arg, perr.CodeOf(err))
		}
	}
}

func TestOpenAndRows(t *testing.T) {
	p := kit.WriteFile(t, "test.csv", strings.Join([]string{
		"1,testname,test@mail.com,2016-01-01 15:32:11,2016-01-01 21:32:11,6",
		"2,short,row",
		`3,"Doe, Jane",jane@mail.com,2016-01-01 08:00:00,2016-01-01 10:00:00,2`,
	}, "\n")+"\n")

	rd, err := Open(p)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = rd.Close() }()

	var got [][]string
	for row := range rd.Rows() {
		got = append(got, row)
	}
	if rd.Err() != nil {
		t.Fatalf("Err: %v", rd.Err())
	}
	if len(got) != 3 || rd.Count() != 3 {
		t.Fatalf("rows = %d count = %d", len(got), rd.Count())
	}
	if len(got[0]) != 6 || len(got[1]) != 3 {
		t.Fatalf("field counts = %d %d", len(got[0]), len(got[1]))
	}
	if got[2][1] != "Doe, Jane" {
		t.Fatalf("quoted field = %q", got[2][1])
	}

	// consumed once
	for range rd.Rows() {
		t.Fatalf("second range yielded a row")
	}
}

func TestRows_EarlyStop(t *testing.T) {
	rd := NewReader(io.NopCloser(strings.NewReader("a\nb\nc\n")), "mem.csv")
	var got []string
	for row := range rd.Rows() {
		got = append(got, row[0])
		if len(got) == 2 {
			break
		}
	}
	if !slices.Equal(got, []string{"a", "b"}) {
		t.Fatalf("got %v", got)
	}
}

func TestRows_ReadError(t *testing.T) {
	src := io.MultiReader(strings.NewReader("ok,row\n"), iotest.ErrReader(errors.New("disk gone")))
	rd := NewReader(io.NopCloser(src), "bad.csv")
	n := 0
	for range rd.Rows() {
		n++
	}
	if n != 1 {
		t.Fatalf("rows before error = %d, want 1", n)
	}
	if rd.Err() == nil {
		t.Fatalf("want read error")
	}
	kit.MustContain(t, rd.Err().Error(), "read bad.csv")
}

func TestRows_StrayQuoteKeepsReading(t *testing.T) {
	rd := NewReader(io.NopCloser(strings.NewReader(strings.Join([]string{
		"1,Al,al@x,2016-01-01 08:00:00,2016-01-01 10:00:00,2",
		`2,Bo"b,bob@x,2016-01-01 08:00:00,2016-01-01 10:00:00,2`,
		"3,Cy,cy@x,2016-01-01 08:00:00,2016-01-01 10:00:00,2",
	}, "\n")+"\n")), "quote.csv")

	var got [][]string
	for row := range rd.Rows() {
		got = append(got, row)
	}
	if rd.Err() != nil {
		t.Fatalf("Err: %v", rd.Err())
	}
	if len(got) != 3 {
		t.Fatalf("rows = %d, want 3", len(got))
	}
	if got[1][1] != `Bo"b` || got[2][0] != "3" {
		t.Fatalf("rows = %v", got)
	}
}

func TestOpen_Errors(t *testing.T) {
	if _, err := Open("notes.txt"); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("bad extension: %v", err)
	}
	if _, err := Open(t.TempDir() + "/missing.csv"); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("missing file: %v", err)
	}
}

func TestSource(t *testing.T) {
	p := kit.WriteFile(t, "s.csv", "1,a\n")
	src, err := Source{}.Open(context.Background(), p)
	if err != nil {
		t.Fatalf("Source.Open: %v", err)
	}
	defer func() { _ = src.Close() }()
	n := 0
	for range src.Rows() {
		n++
	}
	if n != 1 {
		t.Fatalf("rows = %d", n)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (Source{}).Open(ctx, p); err == nil {
		t.Fatalf("want context error")
	}
}
