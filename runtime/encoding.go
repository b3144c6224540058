package runtime

import (
	"encoding/base64"
	"encoding/hex"

	lua "github.com/yuin/gopher-lua"

	"github.com/kpcyrd/authoscope/scopeerr"
)

func registerEncoding(L *lua.LState, st *State) {
	// hex is encode-only per spec.md §4.A's table; there is no
	// hex_decode counterpart.
	L.SetGlobal("hex", L.NewFunction(func(L *lua.LState) int {
		data, err := argBytes(L, 1)
		if err != nil {
			return pushErr(L, st, err)
		}
		L.Push(lua.LString(hex.EncodeToString(data)))
		return 1
	}))

	L.SetGlobal("base64_encode", L.NewFunction(func(L *lua.LState) int {
		data, err := argBytes(L, 1)
		if err != nil {
			return pushErr(L, st, err)
		}
		L.Push(lua.LString(base64.StdEncoding.EncodeToString(data)))
		return 1
	}))

	L.SetGlobal("base64_decode", L.NewFunction(func(L *lua.LState) int {
		s, err := argString(L, 1)
		if err != nil {
			return pushErr(L, st, err)
		}
		buf, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return pushErr(L, st, scopeerr.Annotatef(err, scopeerr.Parse, "base64_decode"))
		}
		L.Push(lua.LString(buf))
		return 1
	}))
}
