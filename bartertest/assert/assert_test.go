package assert

import (
	"fmt"
	"testing"

	"github.com/iov-one/barter/errors"
)

type recorder struct {
	failed bool
}

func (r *recorder) Helper()                       {}
func (r *recorder) Fatal(...interface{})          { r.failed = true }
func (r *recorder) Fatalf(string, ...interface{}) { r.failed = true }

func TestNil(t *testing.T) {
	var nilPtr *int
	cases := map[string]struct {
		value    interface{}
		wantFail bool
	}{
		"nil":          {value: nil},
		"nil pointer":  {value: nilPtr},
		"nil slice":    {value: []byte(nil)},
		"integer":      {value: 1, wantFail: true},
		"error":        {value: fmt.Errorf("x"), wantFail: true},
		"empty string": {value: "", wantFail: true},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var r recorder
			Nil(&r, tc.value)
			if r.failed != tc.wantFail {
				t.Fatalf("want fail %v, got %v", tc.wantFail, r.failed)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	var r recorder
	Equal(&r, []byte("a"), []byte("a"))
	if r.failed {
		t.Fatal("equal slices reported as different")
	}
	Equal(&r, 1, int64(1))
	if !r.failed {
		t.Fatal("different types reported as equal")
	}
}

func TestPanics(t *testing.T) {
	var r recorder
	Panics(&r, func() { panic("boom") })
	if r.failed {
		t.Fatal("panic not detected")
	}
	Panics(&r, func() {})
	if !r.failed {
		t.Fatal("missing panic not reported")
	}
}

func TestIsErr(t *testing.T) {
	IsErr(t, errors.ErrNotFound, errors.Wrap(errors.ErrNotFound, "deal"))
	IsErr(t, nil, nil)
}
