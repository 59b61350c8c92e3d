// Command keygen writes a fresh RSA keypair into the directory the token
// codec reads from. Run it once before first start, or with -overwrite to
// rotate; rotation invalidates every access token signed with the old key.
package main

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/mkoval/cms-auth/internal/keys"
)

const keyBits = 2048

func main() {
	_ = godotenv.Load()

	dir := flag.String("dir", os.Getenv("JWT_KEYS_DIR"), "directory to write private.pem and public.pem into")
	overwrite := flag.Bool("overwrite", false, "replace existing key files")
	flag.Parse()

	if *dir == "" {
		log.Fatal("keygen: no target directory (set -dir or JWT_KEYS_DIR)")
	}

	privPath := filepath.Join(*dir, keys.PrivateKeyFile)
	pubPath := filepath.Join(*dir, keys.PublicKeyFile)

	if !*overwrite {
		for _, p := range []string{privPath, pubPath} {
			if _, err := os.Stat(p); err == nil {
				log.Fatalf("keygen: %s already exists (use -overwrite to rotate)", p)
			}
		}
	}

	if err := os.MkdirAll(*dir, 0o700); err != nil {
		log.Fatalf("keygen: %v", err)
	}

	key, err := rsa.GenerateKey(rand.Reader, keyBits)
	if err != nil {
		log.Fatalf("keygen: generate: %v", err)
	}

	privPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		log.Fatalf("keygen: encode public key: %v", err)
	}
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})

	if err := os.WriteFile(privPath, privPEM, 0o600); err != nil {
		log.Fatalf("keygen: %v", err)
	}
	if err := os.WriteFile(pubPath, pubPEM, 0o644); err != nil {
		log.Fatalf("keygen: %v", err)
	}

	log.Printf("wrote %s and %s (%d bit)", privPath, pubPath, keyBits)
}
