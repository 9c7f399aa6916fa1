package lua

import (
	"fmt"
	"sort"

	lua "github.com/yuin/gopher-lua"
)

// Bridge converts values between Go and Lua.
type Bridge struct {
	L *lua.LState
}

// NewBridge creates a new Bridge for the given Lua state.
func NewBridge(L *lua.LState) *Bridge {
	return &Bridge{L: L}
}

// ToGoValue converts a Lua value to a Go value. Whole numbers become
// int64, sequences become []any and other tables map[string]any.
// Functions and circular references convert to nil.
func (b *Bridge) ToGoValue(lv lua.LValue) any {
	return b.toGo(lv, make(map[*lua.LTable]bool))
}

func (b *Bridge) toGo(lv lua.LValue, visited map[*lua.LTable]bool) any {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		f := float64(v)
		if f == float64(int64(f)) {
			return int64(f)
		}
		return f
	case lua.LString:
		return string(v)
	case *lua.LTable:
		if visited[v] {
			return nil
		}
		visited[v] = true
		defer delete(visited, v)
		return b.tableToGo(v, visited)
	case *lua.LUserData:
		return v.Value
	default:
		return nil
	}
}

func (b *Bridge) tableToGo(t *lua.LTable, visited map[*lua.LTable]bool) any {
	n := t.Len()
	count := 0
	t.ForEach(func(_, _ lua.LValue) { count++ })

	if n > 0 && n == count {
		arr := make([]any, n)
		for i := 1; i <= n; i++ {
			arr[i-1] = b.toGo(t.RawGetInt(i), visited)
		}
		return arr
	}

	m := make(map[string]any, count)
	t.ForEach(func(k, v lua.LValue) {
		m[keyString(k)] = b.toGo(v, visited)
	})
	return m
}

func keyString(k lua.LValue) string {
	if n, ok := k.(lua.LNumber); ok {
		f := float64(n)
		if f == float64(int64(f)) {
			return fmt.Sprintf("%d", int64(f))
		}
	}
	return k.String()
}

// ToLuaValue converts a Go value to a Lua value. Unsupported types
// become their fmt representation.
func (b *Bridge) ToLuaValue(v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case lua.LValue:
		return val
	case bool:
		return lua.LBool(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case []string:
		t := b.L.NewTable()
		for _, s := range val {
			t.Append(lua.LString(s))
		}
		return t
	case []int:
		t := b.L.NewTable()
		for _, n := range val {
			t.Append(lua.LNumber(n))
		}
		return t
	case []any:
		t := b.L.NewTable()
		for _, item := range val {
			t.Append(b.ToLuaValue(item))
		}
		return t
	case map[string]any:
		t := b.L.NewTable()
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			t.RawSetString(k, b.ToLuaValue(val[k]))
		}
		return t
	case fmt.Stringer:
		return lua.LString(val.String())
	default:
		return lua.LString(fmt.Sprint(val))
	}
}

// TableToMap converts a table argument to map[string]any. A nil table
// gives nil.
func (b *Bridge) TableToMap(t *lua.LTable) map[string]any {
	if t == nil {
		return nil
	}
	m := make(map[string]any)
	t.ForEach(func(k, v lua.LValue) {
		m[keyString(k)] = b.ToGoValue(v)
	})
	return m
}
