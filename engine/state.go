package engine

import (
	"fmt"
	"reflect"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	luabridge "github.com/wippyai/lua-bridge"
	"github.com/wippyai/lua-bridge/errors"
)

// State wraps one Lua runtime instance. It owns the evaluation stack, the
// keep-alive pin table, and the failure-reporting side-channel. A State is
// bound to a single goroutine.
type State struct {
	L      *lua.LState
	pins   *PinTable
	log    *zap.Logger
	report luabridge.Reporter
	names  map[reflect.Type]string
	closed bool
}

// Config holds configuration for state creation
type Config struct {
	// Logger receives reported failures when no Reporter is set.
	Logger *zap.Logger

	// Reporter overrides the default zap-backed side-channel.
	Reporter luabridge.Reporter

	// SkipStdlib creates the state without opening the Lua standard library.
	SkipStdlib bool

	// LuaOptions is passed through to the underlying runtime.
	LuaOptions *lua.Options
}

// Option configures a State.
type Option func(*Config)

// WithLogger sets the logger backing the default reporter.
func WithLogger(l *zap.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// WithReporter sets the failure side-channel.
func WithReporter(r luabridge.Reporter) Option {
	return func(c *Config) { c.Reporter = r }
}

// WithoutStdlib skips opening the Lua standard library.
func WithoutStdlib() Option {
	return func(c *Config) { c.SkipStdlib = true }
}

// New creates a Lua runtime instance with the standard library opened
// (unless WithoutStdlib) and an empty pin table.
func New(opts ...Option) *State {
	var cfg Config
	for _, opt := range opts {
		opt(&cfg)
	}

	luaOpts := lua.Options{}
	if cfg.LuaOptions != nil {
		luaOpts = *cfg.LuaOptions
	}
	luaOpts.SkipOpenLibs = cfg.SkipStdlib

	s := &State{
		L:     lua.NewState(luaOpts),
		pins:  newPinTable(),
		log:   cfg.Logger,
		names: make(map[reflect.Type]string),
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	s.report = cfg.Reporter
	if s.report == nil {
		s.report = zapReporter(s.log)
	}
	return s
}

// Close drops every pin (invoking Drop on pinned userdata values that
// implement Dropper) and destroys the runtime instance.
func (s *State) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.pins.each(func(p Pin, v lua.LValue) bool {
		if ud, ok := v.(*lua.LUserData); ok {
			if d, ok := ud.Value.(Dropper); ok {
				d.Drop()
			}
		}
		return true
	})
	s.pins.Clear()
	s.L.Close()
}

// Logger returns the state's logger instance.
func (s *State) Logger() *zap.Logger {
	return s.log
}

// Pins exposes the keep-alive table. Intended for References and tests.
func (s *State) Pins() *PinTable {
	return s.pins
}

// Globals returns the runtime's global table.
func (s *State) Globals() *lua.LTable {
	return s.L.G.Global
}

// Report sends a failure to the side-channel.
func (s *State) Report(sev luabridge.Severity, err error) {
	if err == nil {
		return
	}
	s.report(sev, err.Error())
}

// Reportf sends a formatted message to the side-channel.
func (s *State) Reportf(sev luabridge.Severity, format string, args ...any) {
	s.report(sev, fmt.Sprintf(format, args...))
}

// RunString compiles and runs source text. Returned values are left on the
// stack. On failure the runtime's own diagnostic is reported and returned.
func (s *State) RunString(source string) error {
	if err := s.L.DoString(source); err != nil {
		lerr := errors.Load("run source text", err)
		s.Report(luabridge.SeverityError, lerr)
		return lerr
	}
	return nil
}

// RunFile loads and runs a script file. Returned values are left on the
// stack.
func (s *State) RunFile(path string) error {
	if err := s.L.DoFile(path); err != nil {
		lerr := errors.Load(path, err)
		s.Report(luabridge.SeverityError, lerr)
		return lerr
	}
	return nil
}

// ProtectedCall invokes the callable below the already-pushed nargs
// arguments, requesting nrets results. On success the results are left on
// the stack; on failure the runtime rebalances the stack itself and the
// captured error message is reported and returned.
func (s *State) ProtectedCall(nargs, nrets int) error {
	if err := s.L.PCall(nargs, nrets, nil); err != nil {
		cerr := errors.CallFailed(runtimeMessage(err), err)
		s.Report(luabridge.SeverityError, cerr)
		return cerr
	}
	return nil
}

// runtimeMessage extracts the error value the runtime produced, falling
// back to the Go error text.
func runtimeMessage(err error) string {
	if apiErr, ok := err.(*lua.ApiError); ok && apiErr.Object != lua.LNil {
		return apiErr.Object.String()
	}
	return err.Error()
}

// RegisterTypeName maps a native type to its binding descriptor name so
// pushed pointers round-trip through tagged userdata.
func (s *State) RegisterTypeName(rt reflect.Type, name string) error {
	if existing, ok := s.names[rt]; ok && existing != name {
		return errors.Registration(fmt.Sprintf("type %s already registered as %q", rt, existing))
	}
	s.names[rt] = name
	return nil
}

// TypeNameOf returns the binding descriptor name for a native type.
func (s *State) TypeNameOf(rt reflect.Type) (string, bool) {
	name, ok := s.names[rt]
	return name, ok
}

// zapReporter is the default side-channel: severities map onto zap levels.
func zapReporter(log *zap.Logger) luabridge.Reporter {
	return func(sev luabridge.Severity, msg string) {
		switch sev {
		case luabridge.SeverityDebug:
			log.Debug(msg)
		case luabridge.SeverityInfo:
			log.Info(msg)
		case luabridge.SeverityWarn:
			log.Warn(msg)
		default:
			log.Error(msg)
		}
	}
}
