// Package keys loads the asymmetric signing keypair used for access tokens.
package keys

import (
	"os"
	"path/filepath"
)

const (
	// PrivateKeyFile is the private key filename inside the key directory.
	PrivateKeyFile = "private.pem"
	// PublicKeyFile is the public key filename inside the key directory.
	PublicKeyFile = "public.pem"
)

// Provider reads PEM key material from a configured directory. Missing or
// unreadable files are reported as absence, never as an error: callers must
// fail closed (no signing without a private key, no token is valid without a
// public key).
type Provider struct {
	dir string
}

// NewProvider returns a provider rooted at dir.
func NewProvider(dir string) *Provider {
	return &Provider{dir: dir}
}

// PrivateKey returns the PEM-encoded private key, or false when unavailable.
func (p *Provider) PrivateKey() ([]byte, bool) {
	return p.read(PrivateKeyFile)
}

// PublicKey returns the PEM-encoded public key, or false when unavailable.
func (p *Provider) PublicKey() ([]byte, bool) {
	return p.read(PublicKeyFile)
}

func (p *Provider) read(name string) ([]byte, bool) {
	b, err := os.ReadFile(filepath.Join(p.dir, name))
	if err != nil || len(b) == 0 {
		return nil, false
	}
	return b, true
}
