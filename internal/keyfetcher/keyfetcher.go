package keyfetcher

import (
	"crypto/rsa"
	"encoding/base64"
	"fmt"
	"os"
	"sync"

	"github.com/golang-jwt/jwt/v5"
)

type PublicKeyFetcher interface {
	FetchPublicKey() (*rsa.PublicKey, error)
}

type PrivateKeyFetcher interface {
	FetchPrivateKey() (*rsa.PrivateKey, error)
}

// From is a type definition for a function that returns a PEM encoded key and an error.
type From func() ([]byte, error)

// FetchPublicKey parses the loaded key as an RSA public key.
func (f From) FetchPublicKey() (*rsa.PublicKey, error) {
	keyBytes, err := f()
	if err != nil {
		return nil, err
	}

	return jwt.ParseRSAPublicKeyFromPEM(keyBytes)
}

// FetchPrivateKey parses the loaded key as an RSA private key.
func (f From) FetchPrivateKey() (*rsa.PrivateKey, error) {
	keyBytes, err := f()
	if err != nil {
		return nil, err
	}

	return jwt.ParseRSAPrivateKeyFromPEM(keyBytes)
}

// FromBase64Env reads the Base64 encoded PEM key held by the named environment variable.
func FromBase64Env(key string) From {
	return func() ([]byte, error) {
		keyBase64 := os.Getenv(key)
		if keyBase64 == "" {
			return nil, fmt.Errorf("key %s is not found", key)
		}

		return base64.StdEncoding.DecodeString(keyBase64)
	}
}

type publicKeyFunc func() (*rsa.PublicKey, error)

func (f publicKeyFunc) FetchPublicKey() (*rsa.PublicKey, error) { return f() }

type privateKeyFunc func() (*rsa.PrivateKey, error)

func (f privateKeyFunc) FetchPrivateKey() (*rsa.PrivateKey, error) { return f() }

// CachePublicKey fetches and parses the key once; later calls return the same result.
func CachePublicKey(f PublicKeyFetcher) PublicKeyFetcher {
	return publicKeyFunc(sync.OnceValues(f.FetchPublicKey))
}

// CachePrivateKey fetches and parses the key once; later calls return the same result.
func CachePrivateKey(f PrivateKeyFetcher) PrivateKeyFetcher {
	return privateKeyFunc(sync.OnceValues(f.FetchPrivateKey))
}
