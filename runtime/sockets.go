package runtime

import (
	"regexp"

	lua "github.com/yuin/gopher-lua"

	"github.com/kpcyrd/authoscope/scopeerr"
	"github.com/kpcyrd/authoscope/sockets"
)

func registerSockets(L *lua.LState, st *State) {
	L.SetGlobal("sock_connect", L.NewFunction(func(L *lua.LState) int {
		host, err := argString(L, 1)
		if err != nil {
			return pushErr(L, st, err)
		}
		port, err := argInt(L, 2)
		if err != nil {
			return pushErr(L, st, err)
		}
		sock, err := sockets.Connect(host, port, defaultTimeout)
		if err != nil {
			return pushErr(L, st, err)
		}
		id := st.nextHandle("sock")
		st.mu.Lock()
		st.sockets[id] = sock
		st.mu.Unlock()
		L.Push(lua.LString(id))
		return 1
	}))

	L.SetGlobal("sock_send", L.NewFunction(func(L *lua.LState) int {
		sock, err := lookupSocket(L, st, 1)
		if err != nil {
			return pushErr(L, st, err)
		}
		data, err := argBytes(L, 2)
		if err != nil {
			return pushErr(L, st, err)
		}
		if err := sock.Send(data); err != nil {
			return pushErr(L, st, err)
		}
		return 0
	}))

	L.SetGlobal("sock_sendline", L.NewFunction(func(L *lua.LState) int {
		sock, err := lookupSocket(L, st, 1)
		if err != nil {
			return pushErr(L, st, err)
		}
		line, err := argString(L, 2)
		if err != nil {
			return pushErr(L, st, err)
		}
		if err := sock.SendLine(line); err != nil {
			return pushErr(L, st, err)
		}
		return 0
	}))

	L.SetGlobal("sock_sendafter", L.NewFunction(func(L *lua.LState) int {
		sock, err := lookupSocket(L, st, 1)
		if err != nil {
			return pushErr(L, st, err)
		}
		delim, err := argBytes(L, 2)
		if err != nil {
			return pushErr(L, st, err)
		}
		data, err := argBytes(L, 3)
		if err != nil {
			return pushErr(L, st, err)
		}
		if err := sock.SendAfter(delim, data); err != nil {
			return pushErr(L, st, err)
		}
		return 0
	}))

	L.SetGlobal("sock_recv", L.NewFunction(func(L *lua.LState) int {
		sock, err := lookupSocket(L, st, 1)
		if err != nil {
			return pushErr(L, st, err)
		}
		buf, err := sock.Recv()
		if err != nil {
			return pushErr(L, st, err)
		}
		L.Push(lua.LString(buf))
		return 1
	}))

	L.SetGlobal("sock_recvline", L.NewFunction(func(L *lua.LState) int {
		sock, err := lookupSocket(L, st, 1)
		if err != nil {
			return pushErr(L, st, err)
		}
		line, err := sock.RecvLine()
		if err != nil {
			return pushErr(L, st, err)
		}
		L.Push(lua.LString(line))
		return 1
	}))

	L.SetGlobal("sock_recvline_contains", L.NewFunction(func(L *lua.LState) int {
		sock, err := lookupSocket(L, st, 1)
		if err != nil {
			return pushErr(L, st, err)
		}
		needle, err := argString(L, 2)
		if err != nil {
			return pushErr(L, st, err)
		}
		line, err := sock.RecvLineContains(needle)
		if err != nil {
			return pushErr(L, st, err)
		}
		L.Push(lua.LString(line))
		return 1
	}))

	L.SetGlobal("sock_recvline_regex", L.NewFunction(func(L *lua.LState) int {
		sock, err := lookupSocket(L, st, 1)
		if err != nil {
			return pushErr(L, st, err)
		}
		pattern, err := argString(L, 2)
		if err != nil {
			return pushErr(L, st, err)
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return pushErr(L, st, scopeerr.Annotatef(err, scopeerr.Parse, "compiling regex"))
		}
		line, err := sock.RecvLineRegex(re)
		if err != nil {
			return pushErr(L, st, err)
		}
		L.Push(lua.LString(line))
		return 1
	}))

	L.SetGlobal("sock_recvn", L.NewFunction(func(L *lua.LState) int {
		sock, err := lookupSocket(L, st, 1)
		if err != nil {
			return pushErr(L, st, err)
		}
		n, err := argInt(L, 2)
		if err != nil {
			return pushErr(L, st, err)
		}
		buf, err := sock.RecvN(n)
		if err != nil {
			return pushErr(L, st, err)
		}
		L.Push(lua.LString(buf))
		return 1
	}))

	L.SetGlobal("sock_recvuntil", L.NewFunction(func(L *lua.LState) int {
		sock, err := lookupSocket(L, st, 1)
		if err != nil {
			return pushErr(L, st, err)
		}
		delim, err := argBytes(L, 2)
		if err != nil {
			return pushErr(L, st, err)
		}
		buf, err := sock.RecvUntil(delim)
		if err != nil {
			return pushErr(L, st, err)
		}
		L.Push(lua.LString(buf))
		return 1
	}))

	L.SetGlobal("sock_recvall", L.NewFunction(func(L *lua.LState) int {
		sock, err := lookupSocket(L, st, 1)
		if err != nil {
			return pushErr(L, st, err)
		}
		buf, err := sock.RecvAll()
		if err != nil {
			return pushErr(L, st, err)
		}
		L.Push(lua.LString(buf))
		return 1
	}))

	L.SetGlobal("sock_newline", L.NewFunction(func(L *lua.LState) int {
		sock, err := lookupSocket(L, st, 1)
		if err != nil {
			return pushErr(L, st, err)
		}
		delim, err := argString(L, 2)
		if err != nil {
			return pushErr(L, st, err)
		}
		sock.SetNewline(delim)
		return 0
	}))
}

func lookupSocket(L *lua.LState, st *State, n int) (*sockets.Socket, error) {
	handle, err := argString(L, n)
	if err != nil {
		return nil, err
	}
	st.mu.Lock()
	sock, ok := st.sockets[handle]
	st.mu.Unlock()
	if !ok {
		return nil, scopeerr.New(scopeerr.BadArg, nil, "unknown socket handle "+handle)
	}
	return sock, nil
}
