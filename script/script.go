// Package script is the scripting host of spec.md §4.B: it loads a
// probe's Lua source, validates that it exposes the bindings a probe
// needs, and evaluates it fresh against one credential at a time.
//
// Every run gets its own interpreter and its own capability State;
// nothing survives between attempts except the immutable source text
// and config reference, mirroring the original's "spin up a fresh
// hlua::Lua per attempt" design so one attempt's mutable globals can
// never leak into the next.
package script

import (
	"os"

	lua "github.com/yuin/gopher-lua"

	"github.com/kpcyrd/authoscope/conf"
	"github.com/kpcyrd/authoscope/runtime"
	"github.com/kpcyrd/authoscope/scopeerr"
)

// Script is a loaded, validated probe.
type Script struct {
	Description string
	Source      string
	Config      *conf.Config
}

// Load reads a Lua source file and validates it, failing fast if it
// has no verify() function or fails to evaluate in a throwaway
// interpreter.
func Load(path string, cfg *conf.Config) (*Script, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, scopeerr.Annotatef(err, scopeerr.Io, "reading script %s", path)
	}
	return LoadSource(string(buf), cfg)
}

// LoadSource validates src as if it had come from a file, returning a
// Script ready to Run.
func LoadSource(src string, cfg *conf.Config) (*Script, error) {
	s := &Script{Source: src, Config: cfg}

	L, st, err := s.newInterpreter()
	if err != nil {
		return nil, err
	}
	defer L.Close()
	defer st.Close()

	if fn, ok := L.GetGlobal("verify").(*lua.LFunction); !ok || fn == nil {
		return nil, scopeerr.New(scopeerr.Script, nil, "script has no verify() function")
	}

	desc, ok := L.GetGlobal("description").(lua.LString)
	if !ok || desc == "" {
		return nil, scopeerr.New(scopeerr.Script, nil, "script has no description string")
	}
	s.Description = string(desc)

	return s, nil
}

// newInterpreter builds a fresh interpreter with every capability
// bound in and the script source already evaluated (so top-level
// globals like description/verify are populated).
func (s *Script) newInterpreter() (*lua.LState, *runtime.State, error) {
	L := lua.NewState()
	st := runtime.NewState(s.Config)
	runtime.Register(L, st)

	if err := L.DoString(s.Source); err != nil {
		L.Close()
		st.Close()
		return nil, nil, scopeerr.Annotatef(err, scopeerr.Script, "evaluating script")
	}
	return L, st, nil
}

// Run evaluates the script fresh against one credential pair.
// password is nil in enumerate mode, where scripts only receive a
// candidate identifier.
func (s *Script) Run(user string, password *string) (bool, error) {
	L, st, err := s.newInterpreter()
	if err != nil {
		return false, err
	}
	defer L.Close()
	defer st.Close()

	fn, ok := L.GetGlobal("verify").(*lua.LFunction)
	if !ok || fn == nil {
		return false, scopeerr.New(scopeerr.Script, nil, "script has no verify() function")
	}

	args := []lua.LValue{lua.LString(user)}
	if password != nil {
		args = append(args, lua.LString(*password))
	} else {
		args = append(args, lua.LNil)
	}

	if err := L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		// A capability call raises through pushErr after first
		// classifying onto state; recover that original error
		// (with its real scopeerr.Kind) instead of stamping
		// every failure as a generic Script error.
		if cause := st.LastErr(); cause != nil {
			return false, cause
		}
		return false, scopeerr.Annotatef(err, scopeerr.Script, "running verify()")
	}

	ret := L.Get(-1)
	L.Pop(1)

	var verdict bool
	var verr error
	switch v := ret.(type) {
	case lua.LBool:
		verdict = bool(v)
	case lua.LString:
		verr = scopeerr.New(scopeerr.Script, nil, string(v))
	default:
		verr = scopeerr.New(scopeerr.Script, nil, "verify() did not return a boolean")
	}

	// The safety net: a capability failure the script swallowed
	// (caught with pcall and then ignored) still overrides whatever
	// verify() returned.
	if cause := st.LastErr(); cause != nil {
		return false, cause
	}
	if verr != nil {
		return false, verr
	}
	return verdict, nil
}
