package runtime

import (
	"os/exec"

	lua "github.com/yuin/gopher-lua"

	"github.com/kpcyrd/authoscope/scopeerr"
)

// registerProcess binds execve(path, args, env), spawning a process
// and returning its stdout. Every entry of args must be a string; a
// script passing a number or table there fails with BadArg instead of
// the argument silently being dropped from the exec'd command line.
func registerProcess(L *lua.LState, st *State) {
	L.SetGlobal("execve", L.NewFunction(func(L *lua.LState) int {
		path, err := argString(L, 1)
		if err != nil {
			return pushErr(L, st, err)
		}

		argsTable := argTable(L, 2)
		var args []string
		var argErr error
		argsTable.ForEach(func(_, v lua.LValue) {
			if argErr != nil {
				return
			}
			s, ok := v.(lua.LString)
			if !ok {
				argErr = scopeerr.New(scopeerr.BadArg, nil, "execve: argument list must contain only strings")
				return
			}
			args = append(args, string(s))
		})
		if argErr != nil {
			return pushErr(L, st, argErr)
		}

		envTable := argTable(L, 3)
		var env []string
		var envErr error
		envTable.ForEach(func(k, v lua.LValue) {
			if envErr != nil {
				return
			}
			ks, ok1 := k.(lua.LString)
			vs, ok2 := v.(lua.LString)
			if !ok1 || !ok2 {
				envErr = scopeerr.New(scopeerr.BadArg, nil, "execve: environment must be string keys and values")
				return
			}
			env = append(env, string(ks)+"="+string(vs))
		})
		if envErr != nil {
			return pushErr(L, st, envErr)
		}

		cmd := exec.Command(path, args...)
		if len(env) > 0 {
			cmd.Env = env
		}
		out, err := cmd.Output()
		if err != nil {
			return pushErr(L, st, scopeerr.Annotatef(err, scopeerr.Process, "execve %s", path))
		}
		L.Push(lua.LString(out))
		return 1
	}))
}
