package secret

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvName(t *testing.T) {
	assert.Equal(t, "PAGEBUILDER_SECRET_PROD_DB", EnvName("prod-db"))
	assert.Equal(t, "PAGEBUILDER_SECRET_A_B_1", EnvName("a.b/1"))
}

func TestEnvStore(t *testing.T) {
	t.Setenv(EnvName("pg"), "hunter2")
	var s EnvStore

	v, err := Resolve(s, "pg")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", v)

	require.NoError(t, s.Delete("pg"))
	got, err := s.Get("pg")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = Resolve(s, "pg")
	assert.ErrorContains(t, err, `secret "pg" not found`)
}
