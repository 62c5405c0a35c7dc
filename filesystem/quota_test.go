package filesystem

import (
	"testing"

	"github.com/brettbedarf/elfshelf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuota_ReserveRelease(t *testing.T) {
	t.Parallel()

	q := NewQuota(100)
	require.NoError(t, q.Reserve(60))
	assert.Equal(t, uint64(60), q.Used())
	assert.Equal(t, uint64(40), q.Available())

	q.Release(20)
	assert.Equal(t, uint64(40), q.Used())
	assert.Equal(t, q.Capacity(), q.Used()+q.Available())
}

func TestQuota_ReserveExactlyAvailable(t *testing.T) {
	t.Parallel()

	q := NewQuota(100)
	require.NoError(t, q.Reserve(100))
	assert.Equal(t, uint64(0), q.Available())
	require.NoError(t, q.Reserve(0))
}

func TestQuota_Exceeded(t *testing.T) {
	t.Parallel()

	q := NewQuota(100)
	require.NoError(t, q.Reserve(30))

	err := q.Reserve(71)
	assert.ErrorIs(t, err, elfshelf.ErrQuotaExceeded)
	assert.Equal(t, uint64(30), q.Used(), "failed reserve changes nothing")
}

func TestQuota_ReleaseClamps(t *testing.T) {
	t.Parallel()

	q := NewQuota(100)
	require.NoError(t, q.Reserve(10))

	q.Release(50)
	assert.Equal(t, uint64(0), q.Used())
	assert.Equal(t, uint64(100), q.Available())
}
