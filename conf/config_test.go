package conf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kpcyrd/authoscope/scopeerr"
)

func TestFromBytesEmpty(t *testing.T) {
	cfg, err := FromBytes([]byte(""))
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestFromBytesRuntime(t *testing.T) {
	cfg, err := FromBytes([]byte(`
[runtime]
user_agent = "authoscope/1.0"
rlimit_nofile = 65535
`))
	require.NoError(t, err)
	assert.Equal(t, "authoscope/1.0", cfg.Runtime.UserAgent)
	assert.Equal(t, uint64(65535), cfg.Runtime.RlimitNofile)
	assert.Equal(t, "authoscope/1.0", cfg.UserAgent())
}

func TestFromBytesInvalid(t *testing.T) {
	_, err := FromBytes([]byte("not = [valid toml"))
	require.Error(t, err)
	assert.Equal(t, scopeerr.Config, scopeerr.KindOf(err))
}
