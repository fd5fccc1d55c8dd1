package memstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jjmejia/micode-manager-sub000/internal/port"
)

func TestMemoryStore(t *testing.T) {
	s, err := NewMemoryStore(16)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	_, err = s.Read("k")
	assert.ErrorIs(t, err, port.ErrCacheMiss)

	value := []byte("payload")
	require.NoError(t, s.Write("k", value))
	value[0] = 'X'

	got, err := s.Read("k")
	require.NoError(t, err)
	assert.Equal(t, "payload", string(got))

	s.Delete("k")
	_, err = s.Read("k")
	assert.ErrorIs(t, err, port.ErrCacheMiss)
}
