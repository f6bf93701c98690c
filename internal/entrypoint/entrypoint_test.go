package entrypoint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/taskmanager/internal/auth"
	"github.com/mrlokans/taskmanager/internal/config"
)

func TestTokenSecret(t *testing.T) {
	configured, err := tokenSecret(config.Auth{TokenSecret: "configured-secret"})
	require.NoError(t, err)
	assert.Equal(t, []byte("configured-secret"), configured)

	generated, err := tokenSecret(config.Auth{})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(generated), auth.MinSecretBytes)

	again, err := tokenSecret(config.Auth{})
	require.NoError(t, err)
	assert.NotEqual(t, generated, again)
}

func TestNewDenylist(t *testing.T) {
	denylist, redisDenylist, err := newDenylist(config.Revocation{})
	require.NoError(t, err)
	assert.IsType(t, &auth.MemoryDenylist{}, denylist)
	assert.Nil(t, redisDenylist)

	_, _, err = newDenylist(config.Revocation{RedisURL: "://bad"})
	assert.Error(t, err)
}
