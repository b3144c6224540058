package runtime

import (
	"crypto/rand"
	"math/big"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/kpcyrd/authoscope/scopeerr"
)

// registerRandom binds rand(min, max) and sleep(seconds). rand draws
// from crypto/rand rather than a seeded PRNG, since scripts use it to
// jitter request timing against live services and a predictable
// sequence would defeat the point.
//
// A zero-width range (min == max) returns min rather than attempting
// a modulo-zero draw; the original implementation computed this with
// wrapping arithmetic that could also return values outside
// [min, max) for certain inputs, which scripts should not rely on.
func registerRandom(L *lua.LState, st *State) {
	L.SetGlobal("rand", L.NewFunction(func(L *lua.LState) int {
		min, err := argInt(L, 1)
		if err != nil {
			return pushErr(L, st, err)
		}
		max, err := argInt(L, 2)
		if err != nil {
			return pushErr(L, st, err)
		}
		if max < min {
			return pushErr(L, st, scopeerr.New(scopeerr.BadArg, nil, "rand: max below min"))
		}
		if max == min {
			L.Push(lua.LNumber(min))
			return 1
		}
		n, err := rand.Int(rand.Reader, big.NewInt(int64(max-min)))
		if err != nil {
			return pushErr(L, st, scopeerr.Annotatef(err, scopeerr.Io, "rand"))
		}
		L.Push(lua.LNumber(min + int(n.Int64())))
		return 1
	}))

	L.SetGlobal("randombytes", L.NewFunction(func(L *lua.LState) int {
		n, err := argInt(L, 1)
		if err != nil {
			return pushErr(L, st, err)
		}
		if n < 0 {
			return pushErr(L, st, scopeerr.New(scopeerr.BadArg, nil, "randombytes: negative length"))
		}
		buf := make([]byte, n)
		if _, err := rand.Read(buf); err != nil {
			return pushErr(L, st, scopeerr.Annotatef(err, scopeerr.Io, "randombytes"))
		}
		L.Push(lua.LString(buf))
		return 1
	}))

	L.SetGlobal("sleep", L.NewFunction(func(L *lua.LState) int {
		v := L.Get(1)
		num, ok := v.(lua.LNumber)
		if !ok {
			return pushErr(L, st, scopeerr.New(scopeerr.BadArg, nil, "sleep: argument is not a number"))
		}
		time.Sleep(time.Duration(float64(num) * float64(time.Second)))
		return 0
	}))
}
