package codec

import (
	"testing"
)

func TestGetTuple_Consecutive(t *testing.T) {
	s := newState(t)

	Push(s, 1)
	Push(s, "two")
	Push(s, true)
	defer s.Pop(3)

	base := s.Top() - 2
	var n int
	var str string
	var b bool
	if err := GetTuple(s, base, &n, &str, &b); err != nil {
		t.Fatalf("GetTuple: %v", err)
	}
	if n != 1 || str != "two" || b != true {
		t.Errorf("got (%d, %q, %v)", n, str, b)
	}
}

func TestGetResults_BackwardsFromTop(t *testing.T) {
	s := newState(t)

	if err := s.RunString(`return 1, "passed", true`); err != nil {
		t.Fatal(err)
	}
	defer s.Pop(3)

	var n int
	var msg string
	var ok bool
	if err := GetResults(s, &n, &msg, &ok); err != nil {
		t.Fatalf("GetResults: %v", err)
	}
	if n != 1 || msg != "passed" || ok != true {
		t.Errorf("got (%d, %q, %v), want (1, passed, true)", n, msg, ok)
	}
}

func TestGetTuple_RequiresPointers(t *testing.T) {
	s := newState(t)

	Push(s, 1)
	defer s.Pop(1)

	if err := GetTuple(s, -1, 5); err == nil {
		t.Error("non-pointer output should error")
	}
	var p *int
	if err := GetTuple(s, -1, p); err == nil {
		t.Error("nil pointer output should error")
	}
}

func TestGetTuple_MismatchAborts(t *testing.T) {
	s := newState(t)

	Push(s, 1)
	Push(s, "two")
	defer s.Pop(2)

	var a, b int
	if err := GetTuple(s, s.Top()-1, &a, &b); err == nil {
		t.Error("expected mismatch on second slot")
	}
}
