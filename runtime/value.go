package runtime

import (
	"math"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/kpcyrd/authoscope/scopeerr"
)

// toGo converts a Lua value into the plain Go tree JSON bodies, MySQL
// rows and table arguments are all expressed in: nil, bool, float64,
// string, []interface{}, or map[string]interface{}.
func toGo(v lua.LValue) (interface{}, error) {
	switch t := v.(type) {
	case *lua.LNilType:
		return nil, nil
	case lua.LBool:
		return bool(t), nil
	case lua.LNumber:
		return float64(t), nil
	case lua.LString:
		return string(t), nil
	case *lua.LTable:
		return tableToGo(t)
	default:
		return nil, scopeerr.New(scopeerr.BadArg, nil, "unsupported lua value type")
	}
}

func tableToGo(t *lua.LTable) (interface{}, error) {
	length := t.Len()
	if length > 0 && isArray(t, length) {
		out := make([]interface{}, 0, length)
		for i := 1; i <= length; i++ {
			v, err := toGo(t.RawGetInt(i))
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}

	out := map[string]interface{}{}
	var rangeErr error
	t.ForEach(func(k, v lua.LValue) {
		if rangeErr != nil {
			return
		}
		ks, ok := k.(lua.LString)
		if !ok {
			rangeErr = scopeerr.New(scopeerr.BadArg, nil, "table key is not a string")
			return
		}
		gv, err := toGo(v)
		if err != nil {
			rangeErr = err
			return
		}
		out[string(ks)] = gv
	})
	if rangeErr != nil {
		return nil, rangeErr
	}
	return out, nil
}

// isArray reports whether t looks like a dense 1..n integer-keyed
// array rather than a string-keyed map.
func isArray(t *lua.LTable, length int) bool {
	keys := 0
	t.ForEach(func(k, _ lua.LValue) {
		keys++
	})
	return keys == length
}

// fromGo converts a decoded JSON/MySQL scalar tree back into Lua
// values for return to the script.
func fromGo(L *lua.LState, v interface{}) lua.LValue {
	switch t := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(t)
	case float64:
		return lua.LNumber(t)
	case int64:
		return lua.LNumber(t)
	case int:
		return lua.LNumber(t)
	case string:
		return lua.LString(t)
	case []byte:
		return lua.LString(string(t))
	case time.Time:
		return lua.LString(t.Format(time.RFC3339))
	case []interface{}:
		tbl := L.NewTable()
		for i, item := range t {
			tbl.RawSetInt(i+1, fromGo(L, item))
		}
		return tbl
	case map[string]interface{}:
		tbl := L.NewTable()
		for k, item := range t {
			tbl.RawSetString(k, fromGo(L, item))
		}
		return tbl
	default:
		return lua.LNil
	}
}

// argString requires argument n (1-based) to be a Lua string.
func argString(L *lua.LState, n int) (string, error) {
	v := L.Get(n)
	s, ok := v.(lua.LString)
	if !ok {
		return "", scopeerr.New(scopeerr.BadArg, nil, "argument is not a string")
	}
	return string(s), nil
}

// argBytes requires argument n to be either a Lua string or an array
// table of integers in [0,255], as spec'd by every byte-oriented
// capability (hex, base64, the hashes, sockets). Anything else, or a
// table element that isn't an integral byte, fails BadArg.
func argBytes(L *lua.LState, n int) ([]byte, error) {
	v := L.Get(n)
	switch t := v.(type) {
	case lua.LString:
		return []byte(t), nil
	case *lua.LTable:
		length := t.Len()
		out := make([]byte, length)
		for i := 1; i <= length; i++ {
			num, ok := t.RawGetInt(i).(lua.LNumber)
			if !ok {
				return nil, scopeerr.New(scopeerr.BadArg, nil, "byte array element is not a number")
			}
			f := float64(num)
			if f != math.Trunc(f) || f < 0 || f > 255 {
				return nil, scopeerr.New(scopeerr.BadArg, nil, "byte array element out of range [0,255]")
			}
			out[i-1] = byte(f)
		}
		return out, nil
	default:
		return nil, scopeerr.New(scopeerr.BadArg, nil, "argument is not a string or byte array")
	}
}

// argOptString reads argument n as a string, returning def if the
// argument is nil/absent.
func argOptString(L *lua.LState, n int, def string) string {
	v := L.Get(n)
	if v == lua.LNil || v.Type() == lua.LTNil {
		return def
	}
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return def
}

// argInt requires argument n to be a Lua number, returned as an int.
func argInt(L *lua.LState, n int) (int, error) {
	v := L.Get(n)
	num, ok := v.(lua.LNumber)
	if !ok {
		return 0, scopeerr.New(scopeerr.BadArg, nil, "argument is not a number")
	}
	return int(num), nil
}

// argTable reads a table argument, treating a missing/nil argument as
// an empty table.
func argTable(L *lua.LState, n int) *lua.LTable {
	v := L.Get(n)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return L.NewTable()
}

// stringMap converts a string-keyed table of strings, used for query
// params, headers and form bodies.
func stringMap(t *lua.LTable) map[string]string {
	out := map[string]string{}
	t.ForEach(func(k, v lua.LValue) {
		ks, ok1 := k.(lua.LString)
		vs, ok2 := v.(lua.LString)
		if ok1 && ok2 {
			out[string(ks)] = string(vs)
		}
	})
	return out
}

// pushErr classifies err onto state, so last_err() can retrieve it
// even if the script catches the raised error with pcall, then raises
// it as a Lua error that terminates the running verify(). script.Run
// recovers the original classified error back off the state rather
// than reparsing the Lua-level error message.
func pushErr(L *lua.LState, st *State, err error) int {
	st.SetLastErr(err)
	L.RaiseError("%s", err.Error())
	return 0
}
