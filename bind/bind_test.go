package bind

import (
	"strings"
	"testing"

	"github.com/wippyai/lua-bridge/codec"
	"github.com/wippyai/lua-bridge/engine"
)

type counter struct {
	n       int
	dropped bool
}

func (c *counter) Inc(delta int) int { c.n += delta; return c.n }
func (c *counter) Value() int        { return c.n }
func (c *counter) SetValue(v int)    { c.n = v }
func (c *counter) Drop()             { c.dropped = true }

func newState(t *testing.T) *engine.State {
	t.Helper()
	s := engine.New()
	t.Cleanup(s.Close)
	return s
}

func counterClass() Class {
	return Class{
		Name:    "counter",
		Methods: []Method{{Name: "inc", Func: (*counter).Inc}},
		Properties: []Property{
			{Name: "value", Get: (*counter).Value, Set: (*counter).SetValue},
			{Name: "peek", Get: (*counter).Value},
		},
	}
}

// expose registers the class and publishes an instance as a global.
func expose(t *testing.T, s *engine.State, name string, c *counter) {
	t.Helper()
	if err := Register[*counter](s, counterClass()); err != nil {
		t.Fatalf("Register: %v", err)
	}
	lv, err := codec.EncodeAny(s, c)
	if err != nil {
		t.Fatalf("EncodeAny: %v", err)
	}
	s.L.SetGlobal(name, lv)
}

func TestRegister_MethodDispatch(t *testing.T) {
	s := newState(t)
	c := &counter{}
	expose(t, s, "c", c)

	if err := s.RunString(`
		assert(c:inc(5) == 5)
		assert(c:inc(2) == 7)
	`); err != nil {
		t.Fatalf("script: %v", err)
	}
	if c.n != 7 {
		t.Errorf("native state = %d, want 7", c.n)
	}
}

func TestRegister_Properties(t *testing.T) {
	s := newState(t)
	c := &counter{n: 3}
	expose(t, s, "c", c)

	if err := s.RunString(`
		assert(c.value == 3)
		c.value = 11
		assert(c.peek == 11)
	`); err != nil {
		t.Fatalf("script: %v", err)
	}
	if c.n != 11 {
		t.Errorf("native state = %d, want 11", c.n)
	}
}

func TestRegister_ReadOnlyPropertyWriteFails(t *testing.T) {
	s := newState(t)
	expose(t, s, "c", &counter{})

	err := s.RunString(`c.peek = 1`)
	if err == nil {
		t.Fatal("writing a read-only property should raise")
	}
	if !strings.Contains(err.Error(), "peek") {
		t.Errorf("error should name the property, got %v", err)
	}
}

func TestRegister_UnknownMemberIsNil(t *testing.T) {
	s := newState(t)
	expose(t, s, "c", &counter{})

	if err := s.RunString(`assert(c.no_such_member == nil)`); err != nil {
		t.Errorf("unknown member should read as nil: %v", err)
	}
}

func TestRegister_InstanceRoundTrip(t *testing.T) {
	s := newState(t)
	c := &counter{n: 40}
	expose(t, s, "c", c)

	var got *counter
	if err := RegisterFunc(s, "absorb", func(in *counter) { got = in }); err != nil {
		t.Fatalf("RegisterFunc: %v", err)
	}
	if err := s.RunString(`absorb(c)`); err != nil {
		t.Fatalf("script: %v", err)
	}
	if got != c {
		t.Error("userdata should decode back to the identical native pointer")
	}
}

func TestRegister_Validation(t *testing.T) {
	s := newState(t)

	if err := Register[*counter](s, Class{Name: ""}); err == nil {
		t.Error("empty class name should fail")
	}
	if err := Register[int](s, Class{Name: "num"}); err == nil {
		t.Error("non-struct-pointer type should fail")
	}
	if err := Register[*counter](s, Class{
		Name:       "bad",
		Properties: []Property{{Name: "x"}},
	}); err == nil {
		t.Error("property without getter should fail")
	}
	if err := Register[*counter](s, Class{
		Name:    "badm",
		Methods: []Method{{Name: "f", Func: func(n int) int { return n }}},
	}); err == nil {
		t.Error("method without receiver parameter should fail")
	}
}

type plain struct{ s string }

func (p *plain) Text() string { return p.s }

func TestRegister_FinalizeRequiresDropper(t *testing.T) {
	s := newState(t)

	if err := Register[*plain](s, Class{Name: "plain", Finalize: true}); err == nil {
		t.Error("finalizable class without Drop should fail")
	}
	if err := Register[*counter](s, Class{Name: "fcounter", Finalize: true}); err != nil {
		t.Errorf("counter implements Drop: %v", err)
	}
}

func TestRegisterFunc(t *testing.T) {
	s := newState(t)

	if err := RegisterFunc(s, "join", func(a, b string) string { return a + "-" + b }); err != nil {
		t.Fatalf("RegisterFunc: %v", err)
	}
	if err := s.RunString(`assert(join("x", "y") == "x-y")`); err != nil {
		t.Errorf("script: %v", err)
	}

	if err := RegisterFunc(s, "bad", 42); err == nil {
		t.Error("non-function should fail")
	}
}

type widget struct{ clicks int }

func (w *widget) Click()            { w.clicks++ }
func (w *widget) ClickCount() int   { return w.clicks }
func (w *widget) Sum(ns ...int) int { return len(ns) } // variadic, not bridgeable

func TestStruct_AutoBind(t *testing.T) {
	s := newState(t)

	if err := Struct[*widget](s, "widget"); err != nil {
		t.Fatalf("Struct: %v", err)
	}
	lv, err := codec.EncodeAny(s, &widget{})
	if err != nil {
		t.Fatalf("EncodeAny: %v", err)
	}
	s.L.SetGlobal("w", lv)

	if err := s.RunString(`
		w:click()
		w:click()
		assert(w:click_count() == 2)
		assert(w.sum == nil)
	`); err != nil {
		t.Fatalf("script: %v", err)
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Inc", "inc"},
		{"SetValue", "set_value"},
		{"HTTPGet", "http_get"},
		{"ID", "id"},
		{"ParseURL", "parse_url"},
	}
	for _, tt := range tests {
		if got := toSnakeCase(tt.in); got != tt.want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
