package invariant_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/mm0-tools/mmbexport/invariant"
)

func TestPreconditionPass(t *testing.T) {
	invariant.Precondition(true, "this should pass")
	invariant.Precondition(1 == 1, "math works")
}

func TestPreconditionFail(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for false precondition")
		}
		msg := fmt.Sprintf("%v", r)
		if !strings.Contains(msg, "PRECONDITION VIOLATION") {
			t.Errorf("expected PRECONDITION VIOLATION, got: %s", msg)
		}
		if !strings.Contains(msg, "heap must not be empty") {
			t.Errorf("expected custom message, got: %s", msg)
		}
	}()
	invariant.Precondition(false, "heap must not be empty")
}

func TestCapacityFail(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for exceeded capacity")
		}
		if !strings.Contains(fmt.Sprintf("%v", r), "CAPACITY VIOLATION") {
			t.Errorf("expected CAPACITY VIOLATION, got: %v", r)
		}
	}()
	invariant.Capacity(56 <= 55, "more than 55 bound variables")
}

func TestNotNilTypedNil(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for typed nil")
		}
	}()
	var p *int
	invariant.NotNil(p, "p")
}

func TestInRange(t *testing.T) {
	invariant.InRange(5, 0, 10, "x") // should not panic

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for out-of-range value")
		}
	}()
	invariant.InRange(128, 0, 127, "sort id")
}
