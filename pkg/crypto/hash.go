package crypto

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashSize is the length of a content hash in bytes
const HashSize = 32

// Hash is a SHA-256 content hash of a canonical encoding
type Hash [HashSize]byte

// Sha256 hashes data
func Sha256(data []byte) Hash {
	return Hash(sha256.Sum256(data))
}

// String returns the lowercase hex form of the hash
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// IsZero reports whether every byte of the hash is zero
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// HashFromHex parses a 64 character hex string, with or without 0x prefix
func HashFromHex(s string) (Hash, error) {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return Hash{}, &DeserializationError{Target: "hash", Cause: err}
	}
	if len(b) != HashSize {
		return Hash{}, &DeserializationError{Target: "hash", Cause: ErrWrongLength}
	}
	return Hash(b), nil
}

// MarshalText encodes the hash as hex so it reads naturally in JSON
func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText parses a hex encoded hash
func (h *Hash) UnmarshalText(text []byte) error {
	parsed, err := HashFromHex(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
