package testutil

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/Layr-Labs/authz-expander-go/pkg/crypto"
)

// TestSigner holds a freshly generated key pair for building fixtures
type TestSigner struct {
	PublicKey crypto.PublicKey
	sign      func(digest crypto.Hash) ([]byte, error)
	wrap      func(raw []byte) (crypto.Signature, error)
}

// NewEd25519Signer generates an ed25519 key pair
func NewEd25519Signer(t testing.TB) *TestSigner {
	t.Helper()

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	pk, err := crypto.NewEd25519PublicKey(pub)
	require.NoError(t, err)

	return &TestSigner{
		PublicKey: pk,
		sign: func(digest crypto.Hash) ([]byte, error) {
			return ed25519.Sign(priv, digest[:]), nil
		},
		wrap: crypto.NewEd25519Signature,
	}
}

// NewSecp256k1Signer generates a secp256k1 key pair
func NewSecp256k1Signer(t testing.TB) *TestSigner {
	t.Helper()

	priv, err := ethcrypto.GenerateKey()
	require.NoError(t, err)

	pk, err := crypto.NewSecp256k1PublicKey(ethcrypto.CompressPubkey(&priv.PublicKey))
	require.NoError(t, err)

	return &TestSigner{
		PublicKey: pk,
		sign: func(digest crypto.Hash) ([]byte, error) {
			return ethcrypto.Sign(digest[:], priv)
		},
		wrap: crypto.NewSecp256k1Signature,
	}
}

// Sign signs the SHA-256 of message and returns the structured signature
func (s *TestSigner) Sign(t testing.TB, message []byte) crypto.Signature {
	t.Helper()

	raw, err := s.sign(crypto.Sha256(message))
	require.NoError(t, err)

	sig, err := s.wrap(raw)
	require.NoError(t, err)
	return sig
}

// PublicKeyBytes returns the canonical encoding of the public key
func (s *TestSigner) PublicKeyBytes() []byte {
	return s.PublicKey.Encode()
}
