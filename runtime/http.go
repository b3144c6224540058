package runtime

import (
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/kpcyrd/authoscope/httpclient"
	"github.com/kpcyrd/authoscope/scopeerr"
)

func registerHTTP(L *lua.LState, st *State) {
	L.SetGlobal("http_mksession", L.NewFunction(func(L *lua.LState) int {
		id := st.nextHandle("http")
		st.mu.Lock()
		st.http[id] = httpclient.NewSession(id)
		st.mu.Unlock()
		L.Push(lua.LString(id))
		return 1
	}))

	// http_request only builds a standalone HttpRequest value and
	// hands back its id; no network I/O happens until http_send runs
	// it, matching the two-step contract scripts that inspect or
	// replay a request before sending depend on.
	L.SetGlobal("http_request", L.NewFunction(func(L *lua.LState) int {
		sessionID, err := argString(L, 1)
		if err != nil {
			return pushErr(L, st, err)
		}
		method, err := argString(L, 2)
		if err != nil {
			return pushErr(L, st, err)
		}
		url, err := argString(L, 3)
		if err != nil {
			return pushErr(L, st, err)
		}
		opts := argTable(L, 4)

		st.mu.Lock()
		sess, ok := st.http[sessionID]
		st.mu.Unlock()
		if !ok {
			return pushErr(L, st, scopeerr.New(scopeerr.BadArg, nil, "unknown http session "+sessionID))
		}

		req := &httpclient.Request{Method: method, URL: url, UserAgent: st.Config.UserAgent()}

		if q, ok := opts.RawGetString("query").(*lua.LTable); ok {
			req.Query = stringMap(q)
		}
		if h, ok := opts.RawGetString("headers").(*lua.LTable); ok {
			req.Headers = stringMap(h)
		}
		if ua, ok := opts.RawGetString("user_agent").(lua.LString); ok {
			req.UserAgent = string(ua)
		}
		if basic, ok := opts.RawGetString("basic_auth").(*lua.LTable); ok {
			user, _ := basic.RawGetInt(1).(lua.LString)
			pass, _ := basic.RawGetInt(2).(lua.LString)
			req.BasicUser, req.BasicPass, req.HasBasic = string(user), string(pass), true
		}

		// Precedence json < form < raw: later assignments win when a
		// script sets more than one body kind in the same options table.
		if j := opts.RawGetString("json"); j != lua.LNil {
			gv, err := toGo(j)
			if err != nil {
				return pushErr(L, st, err)
			}
			req.JSON = gv
		}
		if f, ok := opts.RawGetString("form").(*lua.LTable); ok {
			req.Form = stringMap(f)
		}
		if raw, ok := opts.RawGetString("body").(lua.LString); ok {
			req.Raw = string(raw)
		}

		id := st.nextHandle("req")
		st.mu.Lock()
		st.httpReqs[id] = &pendingRequest{session: sess, req: req}
		st.mu.Unlock()

		L.Push(lua.LString(id))
		return 1
	}))

	// http_send executes a request built by http_request and folds any
	// Set-Cookie responses back into the owning session's jar.
	L.SetGlobal("http_send", L.NewFunction(func(L *lua.LState) int {
		reqID, err := argString(L, 1)
		if err != nil {
			return pushErr(L, st, err)
		}

		st.mu.Lock()
		pending, ok := st.httpReqs[reqID]
		st.mu.Unlock()
		if !ok {
			return pushErr(L, st, scopeerr.New(scopeerr.BadArg, nil, "unknown http request "+reqID))
		}

		resp, err := st.httpClient.Send(pending.session, pending.req)
		if err != nil {
			return pushErr(L, st, err)
		}
		L.Push(responseTable(L, resp))
		return 1
	}))

	// http_basic_auth(url, user, password) probes HTTP Basic credentials
	// against url with a GET, redirects disabled: it's authorized iff
	// the response carries no WWW-Authenticate header and its status
	// isn't 401.
	L.SetGlobal("http_basic_auth", L.NewFunction(func(L *lua.LState) int {
		url, err := argString(L, 1)
		if err != nil {
			return pushErr(L, st, err)
		}
		user, err := argString(L, 2)
		if err != nil {
			return pushErr(L, st, err)
		}
		pass, err := argString(L, 3)
		if err != nil {
			return pushErr(L, st, err)
		}

		req := &httpclient.Request{
			Method:    "GET",
			URL:       url,
			UserAgent: st.Config.UserAgent(),
			BasicUser: user,
			BasicPass: pass,
			HasBasic:  true,
		}
		resp, err := st.httpClient.Send(httpclient.NewSession(""), req)
		if err != nil {
			return pushErr(L, st, err)
		}

		authorized := resp.Status != 401
		for k := range resp.Headers {
			if strings.EqualFold(k, "WWW-Authenticate") {
				authorized = false
				break
			}
		}

		L.Push(lua.LBool(authorized))
		return 1
	}))
}

func responseTable(L *lua.LState, resp *httpclient.Response) *lua.LTable {
	tbl := L.NewTable()
	tbl.RawSetString("status", lua.LNumber(resp.Status))
	tbl.RawSetString("text", lua.LString(resp.Body))
	headers := L.NewTable()
	for k, vs := range resp.Headers {
		if len(vs) > 0 {
			headers.RawSetString(strings.ToLower(k), lua.LString(vs[0]))
		}
	}
	tbl.RawSetString("headers", headers)
	return tbl
}
