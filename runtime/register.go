package runtime

import (
	lua "github.com/yuin/gopher-lua"
)

// Register binds every capability group onto L against st. Called
// once per fresh interpreter, immediately after the interpreter is
// created and before the script source is loaded.
func Register(L *lua.LState, st *State) {
	registerEncoding(L, st)
	registerHashes(L, st)
	registerRandom(L, st)
	registerProcess(L, st)
	registerHTTP(L, st)
	registerHTML(L, st)
	registerJSON(L, st)
	registerMySQL(L, st)
	registerLDAP(L, st)
	registerSockets(L, st)
	registerState(L, st)
}
