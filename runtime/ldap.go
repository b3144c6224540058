package runtime

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/kpcyrd/authoscope/ldapclient"
)

func registerLDAP(L *lua.LState, st *State) {
	L.SetGlobal("ldap_bind", L.NewFunction(func(L *lua.LState) int {
		addr, err := argString(L, 1)
		if err != nil {
			return pushErr(L, st, err)
		}
		dn, err := argString(L, 2)
		if err != nil {
			return pushErr(L, st, err)
		}
		password, err := argString(L, 3)
		if err != nil {
			return pushErr(L, st, err)
		}
		ok, err := ldapclient.Bind(addr, defaultTimeout, dn, password)
		if err != nil {
			return pushErr(L, st, err)
		}
		L.Push(lua.LBool(ok))
		return 1
	}))

	L.SetGlobal("ldap_search_bind", L.NewFunction(func(L *lua.LState) int {
		addr, err := argString(L, 1)
		if err != nil {
			return pushErr(L, st, err)
		}
		baseDN, err := argString(L, 2)
		if err != nil {
			return pushErr(L, st, err)
		}
		attr, err := argString(L, 3)
		if err != nil {
			return pushErr(L, st, err)
		}
		login, err := argString(L, 4)
		if err != nil {
			return pushErr(L, st, err)
		}
		password, err := argString(L, 5)
		if err != nil {
			return pushErr(L, st, err)
		}

		dn, err := ldapclient.SearchBindDN(addr, defaultTimeout, baseDN, attr, login)
		if err != nil {
			return pushErr(L, st, err)
		}
		ok, err := ldapclient.Bind(addr, defaultTimeout, dn, password)
		if err != nil {
			return pushErr(L, st, err)
		}
		L.Push(lua.LBool(ok))
		return 1
	}))

	L.SetGlobal("ldap_escape", L.NewFunction(func(L *lua.LState) int {
		s, err := argString(L, 1)
		if err != nil {
			return pushErr(L, st, err)
		}
		L.Push(lua.LString(ldapclient.EscapeDN(s)))
		return 1
	}))
}
