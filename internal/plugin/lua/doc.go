// Package lua wraps gopher-lua for running user scripts.
//
// A State opens only the base, table, string and math libraries, removes
// the file loading functions, and limits require to those libraries plus
// modules registered with PreloadModule:
//
//	state := lua.NewState(lua.WithExecutionTimeout(2 * time.Second))
//	defer state.Close()
//
//	state.PreloadModule("copyline", loader)
//	if err := state.DoFile("init.lua"); err != nil {
//	    return err
//	}
//
// Bridge converts between Go and Lua values.
package lua
