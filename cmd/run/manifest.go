package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
	lua "github.com/yuin/gopher-lua"

	"github.com/wippyai/lua-bridge/engine"
	"github.com/wippyai/lua-bridge/resolve"
)

// Manifest configures a run: scripts to preload and globals to seed before
// the main chunk executes.
type Manifest struct {
	Preload []Preload      `toml:"preload"`
	Globals map[string]any `toml:"globals"`
}

// Preload names one script to run during setup. Source takes precedence
// over Path when both are set.
type Preload struct {
	Path   string `toml:"path"`
	Source string `toml:"source"`
}

func loadManifest(path string) (*Manifest, error) {
	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Apply seeds globals and runs preload scripts in manifest order. Values a
// preload chunk returns are discarded.
func (m *Manifest) Apply(s *engine.State) error {
	for name, v := range m.Globals {
		lv, err := manifestValue(s, v)
		if err != nil {
			return fmt.Errorf("global %q: %w", name, err)
		}
		if err := resolve.Global(s, name).Set(lv); err != nil {
			return fmt.Errorf("global %q: %w", name, err)
		}
	}

	for _, p := range m.Preload {
		base := s.Top()
		var err error
		switch {
		case p.Source != "":
			err = s.RunString(p.Source)
		case p.Path != "":
			err = s.RunFile(p.Path)
		default:
			err = fmt.Errorf("preload entry needs a path or source")
		}
		if err != nil {
			return err
		}
		s.SetTop(base)
	}
	return nil
}

// manifestValue converts the dynamically typed values the TOML decoder
// produces. Arrays become sequences, tables become string-keyed tables.
func manifestValue(s *engine.State, v any) (lua.LValue, error) {
	switch t := v.(type) {
	case nil:
		return lua.LNil, nil
	case bool:
		return lua.LBool(t), nil
	case string:
		return lua.LString(t), nil
	case int64:
		return lua.LNumber(t), nil
	case float64:
		return lua.LNumber(t), nil
	case []any:
		tbl := s.L.CreateTable(len(t), 0)
		for i, e := range t {
			ev, err := manifestValue(s, e)
			if err != nil {
				return nil, err
			}
			tbl.RawSetInt(i+1, ev)
		}
		return tbl, nil
	case map[string]any:
		tbl := s.L.CreateTable(0, len(t))
		for k, e := range t {
			ev, err := manifestValue(s, e)
			if err != nil {
				return nil, err
			}
			tbl.RawSetString(k, ev)
		}
		return tbl, nil
	default:
		return nil, fmt.Errorf("unsupported manifest value type %T", v)
	}
}
