package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/lua-bridge/engine"
)

func main() {
	var (
		script      = flag.String("script", "", "Path to script file")
		expr        = flag.String("e", "", "Inline chunk to evaluate")
		manifest    = flag.String("manifest", "", "TOML manifest with preload scripts and globals")
		list        = flag.Bool("list", false, "List globals and exit")
		interactive = flag.Bool("i", false, "Interactive console")
		debug       = flag.Bool("debug", false, "Verbose logging")
	)
	flag.Parse()

	if *script == "" && *expr == "" && !*list && !*interactive {
		fmt.Fprintln(os.Stderr, "Usage: run -script <file.lua> [-manifest run.toml]")
		fmt.Fprintln(os.Stderr, "       run -e 'return 1 + 2'")
		fmt.Fprintln(os.Stderr, "       run [-manifest run.toml] -list")
		fmt.Fprintln(os.Stderr, "       run -i  (interactive console)")
		os.Exit(1)
	}

	if err := run(*script, *expr, *manifest, *list, *interactive, *debug); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(script, expr, manifestPath string, list, interactive, debug bool) error {
	log := zap.NewNop()
	if debug {
		var err error
		log, err = zap.NewDevelopment()
		if err != nil {
			return err
		}
		defer log.Sync()
	}

	s := engine.New(engine.WithLogger(log))
	defer s.Close()

	if manifestPath != "" {
		m, err := loadManifest(manifestPath)
		if err != nil {
			return fmt.Errorf("manifest: %w", err)
		}
		if err := m.Apply(s); err != nil {
			return fmt.Errorf("manifest: %w", err)
		}
	}

	if list {
		printGlobals(s)
		return nil
	}

	if interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return fmt.Errorf("interactive mode needs a terminal")
		}
		return runInteractive(s)
	}

	base := s.Top()
	if expr != "" {
		if err := s.RunString(expr); err != nil {
			return err
		}
	} else {
		if err := s.RunFile(script); err != nil {
			return err
		}
	}
	printResults(s, base)
	return nil
}

// printResults prints and removes the values a chunk left on the stack.
func printResults(s *engine.State, base int) {
	for i := base + 1; i <= s.Top(); i++ {
		fmt.Println(s.Get(i).String())
	}
	s.SetTop(base)
}

func printGlobals(s *engine.State) {
	type entry struct {
		name string
		typ  string
	}
	var entries []entry
	s.Globals().ForEach(func(k, v lua.LValue) {
		entries = append(entries, entry{name: k.String(), typ: v.Type().String()})
	})
	sort.Slice(entries, func(i, j int) bool { return entries[i].name < entries[j].name })

	for _, e := range entries {
		fmt.Printf("  %-24s %s\n", e.name, e.typ)
	}
}
