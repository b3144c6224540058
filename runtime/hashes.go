package runtime

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"hash"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/sha3"

	lua "github.com/yuin/gopher-lua"

	"github.com/kpcyrd/authoscope/scopeerr"
)

// registerHashes binds each digest and MAC algorithm as its own named
// global (md5, sha1, sha2_256, sha2_512, sha3_256, sha3_512 and their
// hmac_ counterparts), matching spec.md §4.A's table rather than a
// single algo-dispatching function.
func registerHashes(L *lua.LState, st *State) {
	registerDigest(L, st, "md5", md5.New)
	registerDigest(L, st, "sha1", sha1.New)
	registerDigest(L, st, "sha2_256", sha256.New)
	registerDigest(L, st, "sha2_512", sha512.New)
	registerDigest(L, st, "sha3_256", sha3.New256)
	registerDigest(L, st, "sha3_512", sha3.New512)

	registerHMAC(L, st, "hmac_md5", md5.New)
	registerHMAC(L, st, "hmac_sha1", sha1.New)
	registerHMAC(L, st, "hmac_sha2_256", sha256.New)
	registerHMAC(L, st, "hmac_sha2_512", sha512.New)
	registerHMAC(L, st, "hmac_sha3_256", sha3.New256)
	registerHMAC(L, st, "hmac_sha3_512", sha3.New512)

	L.SetGlobal("bcrypt", L.NewFunction(func(L *lua.LState) int {
		password, err := argString(L, 1)
		if err != nil {
			return pushErr(L, st, err)
		}
		cost := bcrypt.DefaultCost
		if L.GetTop() >= 2 {
			c, err := argInt(L, 2)
			if err != nil {
				return pushErr(L, st, err)
			}
			cost = c
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
		if err != nil {
			return pushErr(L, st, scopeerr.Annotatef(err, scopeerr.Security, "bcrypt"))
		}
		L.Push(lua.LString(hashed))
		return 1
	}))

	L.SetGlobal("bcrypt_verify", L.NewFunction(func(L *lua.LState) int {
		password, err := argString(L, 1)
		if err != nil {
			return pushErr(L, st, err)
		}
		hashed, err := argString(L, 2)
		if err != nil {
			return pushErr(L, st, err)
		}
		err = bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password))
		L.Push(lua.LBool(err == nil))
		return 1
	}))
}

func registerDigest(L *lua.LState, st *State, name string, newFunc func() hash.Hash) {
	L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
		data, err := argBytes(L, 1)
		if err != nil {
			return pushErr(L, st, err)
		}
		h := newFunc()
		h.Write(data)
		L.Push(lua.LString(h.Sum(nil)))
		return 1
	}))
}

func registerHMAC(L *lua.LState, st *State, name string, newFunc func() hash.Hash) {
	L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
		key, err := argBytes(L, 1)
		if err != nil {
			return pushErr(L, st, err)
		}
		data, err := argBytes(L, 2)
		if err != nil {
			return pushErr(L, st, err)
		}
		mac := hmac.New(newFunc, key)
		mac.Write(data)
		L.Push(lua.LString(mac.Sum(nil)))
		return 1
	}))
}
