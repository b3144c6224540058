package runtime

import (
	"encoding/json"

	lua "github.com/yuin/gopher-lua"

	"github.com/kpcyrd/authoscope/scopeerr"
)

func registerJSON(L *lua.LState, st *State) {
	L.SetGlobal("json_decode", L.NewFunction(func(L *lua.LState) int {
		s, err := argString(L, 1)
		if err != nil {
			return pushErr(L, st, err)
		}
		var v interface{}
		if err := json.Unmarshal([]byte(s), &v); err != nil {
			return pushErr(L, st, scopeerr.Annotatef(err, scopeerr.Parse, "json_decode"))
		}
		L.Push(fromGo(L, normalizeJSON(v)))
		return 1
	}))

	L.SetGlobal("json_encode", L.NewFunction(func(L *lua.LState) int {
		v := L.Get(1)
		gv, err := toGo(v)
		if err != nil {
			return pushErr(L, st, err)
		}
		buf, err := json.Marshal(gv)
		if err != nil {
			return pushErr(L, st, scopeerr.Annotatef(err, scopeerr.BadArg, "json_encode"))
		}
		L.Push(lua.LString(buf))
		return 1
	}))
}

// normalizeJSON recursively coerces encoding/json's map[string]interface{}
// decode result into the exact tree shape fromGo expects.
func normalizeJSON(v interface{}) interface{} {
	switch t := v.(type) {
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = normalizeJSON(item)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, item := range t {
			out[k] = normalizeJSON(item)
		}
		return out
	default:
		return t
	}
}
