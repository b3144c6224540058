package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"

	"github.com/kpcyrd/authoscope/conf"
)

func newTestState(t *testing.T) (*lua.LState, *State) {
	t.Helper()
	L := lua.NewState()
	st := NewState(&conf.Config{})
	Register(L, st)
	t.Cleanup(func() {
		L.Close()
		st.Close()
	})
	return L, st
}

func eval(t *testing.T, L *lua.LState, src string) lua.LValue {
	t.Helper()
	require.NoError(t, L.DoString(src))
	v := L.Get(-1)
	L.Pop(1)
	return v
}

func TestHexEncodesBytes(t *testing.T) {
	L, _ := newTestState(t)
	v := eval(t, L, `return hex("hello")`)
	assert.Equal(t, "68656c6c6f", v.String())
}

func TestHexAcceptsByteArrayArgument(t *testing.T) {
	L, _ := newTestState(t)
	v := eval(t, L, `return hex({104, 105})`)
	assert.Equal(t, "6869", v.String())
}

func TestHexRejectsOutOfRangeByteArray(t *testing.T) {
	L, _ := newTestState(t)
	err := L.DoString(`return hex({256})`)
	require.Error(t, err)
}

func TestBase64RoundTrip(t *testing.T) {
	L, _ := newTestState(t)
	v := eval(t, L, `return base64_decode(base64_encode("authoscope"))`)
	assert.Equal(t, "authoscope", v.String())
}

func TestHashMD5(t *testing.T) {
	L, _ := newTestState(t)
	v := eval(t, L, `return hex(md5("abc"))`)
	assert.Equal(t, "900150983cd24fb0d6963f7d28e17f72", v.String())
}

func TestHMACSha2_256(t *testing.T) {
	L, _ := newTestState(t)
	v := eval(t, L, `return hex(hmac_sha2_256("key", "abc"))`)
	assert.Len(t, v.String(), 64)
}

func TestBcryptRoundTrip(t *testing.T) {
	L, _ := newTestState(t)
	v := eval(t, L, `
		local h = bcrypt("hunter2", 4)
		return bcrypt_verify("hunter2", h)
	`)
	assert.Equal(t, lua.LTrue, v)
}

func TestRandZeroWidthRangeReturnsMin(t *testing.T) {
	L, _ := newTestState(t)
	v := eval(t, L, `return rand(5, 5)`)
	assert.Equal(t, lua.LNumber(5), v)
}

func TestRandombytesReturnsRequestedLength(t *testing.T) {
	L, _ := newTestState(t)
	v := eval(t, L, `return hex(randombytes(8))`)
	assert.Len(t, v.String(), 16)
}

// A capability failure both raises (terminating the caller) and
// records onto last_err, so a script checking afterwards instead of
// branching on the call's own return still observes it.
func TestLastErrSetOnCapabilityFailureAndClearable(t *testing.T) {
	L, st := newTestState(t)
	err := L.DoString(`base64_decode("not valid base64!!")`)
	require.Error(t, err)
	assert.Error(t, st.LastErr())
	st.ClearErr()
	assert.NoError(t, st.LastErr())
}

func TestExecveRejectsNonStringArgs(t *testing.T) {
	L, _ := newTestState(t)
	v := eval(t, L, `
		local ok, err = pcall(execve, "/bin/echo", {"fine", 42})
		return err
	`)
	assert.Contains(t, v.String(), "must contain only strings")
}
