package lua

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	glua "github.com/yuin/gopher-lua"
)

func TestStateDoString(t *testing.T) {
	state := NewState()
	defer state.Close()

	if err := state.DoString(`x = 1 + 1`); err != nil {
		t.Fatalf("DoString() error = %v", err)
	}
	if v := state.GetGlobal("x"); v != glua.LNumber(2) {
		t.Errorf("x = %v, want 2", v)
	}
}

func TestStateDoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "init.lua")
	if err := os.WriteFile(path, []byte(`loaded = "yes"`), 0o644); err != nil {
		t.Fatal(err)
	}

	state := NewState()
	defer state.Close()
	if err := state.DoFile(path); err != nil {
		t.Fatalf("DoFile() error = %v", err)
	}
	if v := state.GetGlobal("loaded"); v != glua.LString("yes") {
		t.Errorf("loaded = %v", v)
	}
}

func TestStateSandbox(t *testing.T) {
	state := NewState()
	defer state.Close()

	tests := []struct {
		name string
		code string
	}{
		{"dofile removed", `dofile("x.lua")`},
		{"load removed", `load("return 1")`},
		{"io absent", `io.write("x")`},
		{"os absent", `os.exit(1)`},
		{"require io", `require("io")`},
		{"require unknown", `require("socket")`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := state.DoString(tt.code); err == nil {
				t.Errorf("%s should fail", tt.code)
			}
		})
	}

	if err := state.DoString(`local s = require("string"); assert(s.upper("a") == "A")`); err != nil {
		t.Errorf("require string: %v", err)
	}
}

func TestStatePreloadModule(t *testing.T) {
	state := NewState()
	defer state.Close()

	state.PreloadModule("greet", func(L *glua.LState) int {
		mod := L.SetFuncs(L.NewTable(), map[string]glua.LGFunction{
			"hello": func(L *glua.LState) int {
				L.Push(glua.LString("hello " + L.CheckString(1)))
				return 1
			},
		})
		L.Push(mod)
		return 1
	})

	if err := state.DoString(`msg = require("greet").hello("world")`); err != nil {
		t.Fatalf("DoString() error = %v", err)
	}
	if v := state.GetGlobal("msg"); v != glua.LString("hello world") {
		t.Errorf("msg = %v", v)
	}
}

func TestStateCall(t *testing.T) {
	state := NewState()
	defer state.Close()

	if err := state.DoString(`function add(a, b) return a + b, "done" end`); err != nil {
		t.Fatal(err)
	}

	results, err := state.Call("add", glua.LNumber(2), glua.LNumber(3))
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if len(results) != 2 || results[0] != glua.LNumber(5) || results[1] != glua.LString("done") {
		t.Errorf("results = %v", results)
	}

	fn := state.GetGlobal("add")
	if _, err := state.Call(fn, glua.LNumber(1), glua.LNumber(1)); err != nil {
		t.Errorf("Call(fn) error = %v", err)
	}

	if _, err := state.Call("missing"); !errors.Is(err, ErrNotFunction) {
		t.Errorf("Call(missing) = %v, want ErrNotFunction", err)
	}
}

func TestStateTimeout(t *testing.T) {
	state := NewState(WithExecutionTimeout(50 * time.Millisecond))
	defer state.Close()

	err := state.DoString(`while true do end`)
	if !errors.Is(err, ErrExecutionTimeout) {
		t.Fatalf("err = %v, want ErrExecutionTimeout", err)
	}

	// The state stays usable after a timeout.
	if err := state.DoString(`y = 1`); err != nil {
		t.Errorf("DoString after timeout: %v", err)
	}
}

func TestStateClosed(t *testing.T) {
	state := NewState()
	if err := state.Close(); err != nil {
		t.Fatal(err)
	}
	if !state.IsClosed() {
		t.Error("IsClosed() = false")
	}
	if err := state.DoString(`x = 1`); !errors.Is(err, ErrStateClosed) {
		t.Errorf("DoString on closed = %v", err)
	}
	if err := state.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
}

func TestStateRuntimeError(t *testing.T) {
	state := NewState()
	defer state.Close()

	err := state.DoString(`error("bad thing")`)
	if err == nil || !strings.Contains(err.Error(), "bad thing") {
		t.Errorf("err = %v", err)
	}
}
