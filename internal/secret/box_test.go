package secret

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBox_SealOpen(t *testing.T) {
	box, err := NewBox(make([]byte, 32))
	require.NoError(t, err)

	sealed, err := box.Seal("hunter2")
	require.NoError(t, err)
	assert.True(t, IsSealed(sealed))
	assert.NotContains(t, sealed, "hunter2")

	again, err := box.Seal("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, sealed, again, "nonces must differ")

	plain, err := box.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", plain)
}

func TestBox_OpenPassesPlaintextThrough(t *testing.T) {
	box, err := NewBox(make([]byte, 32))
	require.NoError(t, err)

	plain, err := box.Open("not sealed")
	require.NoError(t, err)
	assert.Equal(t, "not sealed", plain)
}

func TestBox_WrongKeyFails(t *testing.T) {
	a, _ := NewBox(make([]byte, 32))
	key := make([]byte, 32)
	key[0] = 1
	b, _ := NewBox(key)

	sealed, err := a.Seal("secret")
	require.NoError(t, err)

	_, err = b.Open(sealed)
	assert.ErrorIs(t, err, ErrDecrypt)

	_, err = a.Open(prefix + "!!!")
	assert.ErrorIs(t, err, ErrDecrypt)
}

func TestNewBox_RejectsShortKey(t *testing.T) {
	_, err := NewBox([]byte("short"))
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestLoadOrCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "secret.key")

	first, err := LoadOrCreate(path)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	sealed, err := first.Seal("value")
	require.NoError(t, err)

	second, err := LoadOrCreate(path)
	require.NoError(t, err)
	plain, err := second.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "value", plain)

	require.NoError(t, os.WriteFile(path, []byte("%%%"), 0o600))
	_, err = LoadOrCreate(path)
	assert.ErrorIs(t, err, ErrInvalidKey)
}
