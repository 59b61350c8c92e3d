package keys

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderReadsBothKeys(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, PrivateKeyFile), []byte("priv-pem"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, PublicKeyFile), []byte("pub-pem"), 0o644))

	p := NewProvider(dir)

	priv, ok := p.PrivateKey()
	require.True(t, ok)
	assert.Equal(t, []byte("priv-pem"), priv)

	pub, ok := p.PublicKey()
	require.True(t, ok)
	assert.Equal(t, []byte("pub-pem"), pub)
}

func TestProviderMissingFilesReportAbsence(t *testing.T) {
	p := NewProvider(t.TempDir())

	_, ok := p.PrivateKey()
	assert.False(t, ok)
	_, ok = p.PublicKey()
	assert.False(t, ok)
}

func TestProviderEmptyFileReportsAbsence(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, PrivateKeyFile), nil, 0o600))

	p := NewProvider(dir)
	_, ok := p.PrivateKey()
	assert.False(t, ok)
}

func TestProviderNonexistentDir(t *testing.T) {
	p := NewProvider(filepath.Join(t.TempDir(), "missing"))
	_, ok := p.PublicKey()
	assert.False(t, ok)
}
