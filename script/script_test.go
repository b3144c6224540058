package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kpcyrd/authoscope/conf"
	"github.com/kpcyrd/authoscope/scopeerr"
)

func TestLoadSourceRejectsMissingVerify(t *testing.T) {
	_, err := LoadSource(`description = "broken"`, &conf.Config{})
	require.Error(t, err)
}

func TestLoadSourceRejectsMissingDescription(t *testing.T) {
	_, err := LoadSource(`
		function verify(user, password)
			return true
		end
	`, &conf.Config{})
	require.Error(t, err)
}

func TestLoadSourceRejectsEmptyDescription(t *testing.T) {
	_, err := LoadSource(`
		description = ""
		function verify(user, password)
			return true
		end
	`, &conf.Config{})
	require.Error(t, err)
}

func TestLoadSourceCapturesDescription(t *testing.T) {
	s, err := LoadSource(`
		description = "static credential check"
		function verify(user, password)
			return password == "hunter2"
		end
	`, &conf.Config{})
	require.NoError(t, err)
	assert.Equal(t, "static credential check", s.Description)
}

func TestRunEvaluatesVerifyFresh(t *testing.T) {
	s, err := LoadSource(`
		description = "static credential check"
		function verify(user, password)
			return user == "admin" and password == "swordfish"
		end
	`, &conf.Config{})
	require.NoError(t, err)

	pw := "swordfish"
	ok, err := s.Run("admin", &pw)
	require.NoError(t, err)
	assert.True(t, ok)

	wrong := "letmein"
	ok, err = s.Run("admin", &wrong)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRunHandlesNilPasswordForEnumerate(t *testing.T) {
	s, err := LoadSource(`
		description = "candidate enumeration"
		function verify(user, password)
			return password == nil
		end
	`, &conf.Config{})
	require.NoError(t, err)

	ok, err := s.Run("someuser", nil)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRunSurfacesCapabilityCalls(t *testing.T) {
	s, err := LoadSource(`
		description = "hex check"
		function verify(user, password)
			return hex(user) == "61646d696e"
		end
	`, &conf.Config{})
	require.NoError(t, err)

	ok, err := s.Run("admin", nil)
	require.NoError(t, err)
	assert.True(t, ok)
}

// A verify() returning a string surfaces as a Script error carrying
// that exact string, not a generic "wrong type" message.
func TestRunSurfacesStringReturnAsScriptError(t *testing.T) {
	s, err := LoadSource(`
		description = "string return"
		function verify(user, password)
			return "an error"
		end
	`, &conf.Config{})
	require.NoError(t, err)

	ok, err := s.Run("admin", nil)
	require.Error(t, err)
	assert.False(t, ok)
	assert.Contains(t, err.Error(), "an error")
	assert.Equal(t, scopeerr.Script, scopeerr.KindOf(err))
}

// A non-bool, non-string return is a generic Script error.
func TestRunRejectsNonBooleanNonStringReturn(t *testing.T) {
	s, err := LoadSource(`
		description = "bad return"
		function verify(user, password)
			return 42
		end
	`, &conf.Config{})
	require.NoError(t, err)

	_, err = s.Run("admin", nil)
	require.Error(t, err)
	assert.Equal(t, scopeerr.Script, scopeerr.KindOf(err))
}

// The post-verify safety net: if a capability failure set last_err
// and the script ignored it, that error still overrides whatever
// verify() returned.
func TestRunLastErrSafetyNetOverridesSwallowedVerdict(t *testing.T) {
	s, err := LoadSource(`
		description = "ignores capability failure"
		function verify(user, password)
			pcall(base64_decode, "not valid base64!!")
			return true
		end
	`, &conf.Config{})
	require.NoError(t, err)

	ok, err := s.Run("admin", nil)
	require.Error(t, err)
	assert.False(t, ok)
}
