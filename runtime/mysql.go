package runtime

import (
	"regexp"

	lua "github.com/yuin/gopher-lua"

	"github.com/kpcyrd/authoscope/mysqlclient"
	"github.com/kpcyrd/authoscope/scopeerr"
)

func registerMySQL(L *lua.LState, st *State) {
	L.SetGlobal("mysql_connect", L.NewFunction(func(L *lua.LState) int {
		host, err := argString(L, 1)
		if err != nil {
			return pushErr(L, st, err)
		}
		port, err := argInt(L, 2)
		if err != nil {
			return pushErr(L, st, err)
		}
		user, err := argString(L, 3)
		if err != nil {
			return pushErr(L, st, err)
		}
		password := argOptString(L, 4, "")
		database := argOptString(L, 5, "")

		db, err := mysqlclient.Connect(host, port, user, password, database, defaultTimeout)
		if err != nil {
			return pushErr(L, st, err)
		}
		id := st.nextHandle("mysql")
		st.mu.Lock()
		st.mysql[id] = db
		st.mu.Unlock()
		L.Push(lua.LString(id))
		return 1
	}))

	L.SetGlobal("mysql_query", L.NewFunction(func(L *lua.LState) int {
		handle, err := argString(L, 1)
		if err != nil {
			return pushErr(L, st, err)
		}
		query, err := argString(L, 2)
		if err != nil {
			return pushErr(L, st, err)
		}
		params := argTable(L, 3)

		st.mu.Lock()
		db, ok := st.mysql[handle]
		st.mu.Unlock()
		if !ok {
			return pushErr(L, st, scopeerr.New(scopeerr.BadArg, nil, "unknown mysql handle "+handle))
		}

		// Named parameters are resolved to ? placeholders positionally
		// in the order they're referenced in the query text.
		var args []interface{}
		resolved := regexp.MustCompile(`:\w+`).ReplaceAllStringFunc(query, func(m string) string {
			v := params.RawGetString(m[1:])
			if v == lua.LNil {
				return m
			}
			gv, _ := toGo(v)
			args = append(args, gv)
			return "?"
		})

		rows, err := mysqlclient.Query(db, resolved, args)
		if err != nil {
			return pushErr(L, st, err)
		}
		out := L.NewTable()
		for i, row := range rows {
			rowTbl := L.NewTable()
			for col, val := range row {
				rowTbl.RawSetString(col, fromGo(L, val))
			}
			out.RawSetInt(i+1, rowTbl)
		}
		L.Push(out)
		return 1
	}))
}
