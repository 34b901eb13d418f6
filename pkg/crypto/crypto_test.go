package crypto_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Layr-Labs/authz-expander-go/pkg/crypto"
	"github.com/Layr-Labs/authz-expander-go/pkg/testutil"
)

func TestParsePublicKey_RoundTrip(t *testing.T) {
	testCases := []struct {
		name   string
		signer *testutil.TestSigner
		size   int
	}{
		{"ed25519", testutil.NewEd25519Signer(t), 1 + crypto.LenEd25519PublicKey},
		{"secp256k1", testutil.NewSecp256k1Signer(t), 1 + crypto.LenSecp256k1PublicKey},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			encoded := tc.signer.PublicKeyBytes()
			require.Len(t, encoded, tc.size)

			parsed, err := crypto.ParsePublicKey(encoded)
			require.NoError(t, err)
			assert.True(t, parsed.Equal(tc.signer.PublicKey))
			assert.Equal(t, encoded, parsed.Encode())
		})
	}
}

func TestParsePublicKey_Malformed(t *testing.T) {
	valid := testutil.NewSecp256k1Signer(t).PublicKeyBytes()

	// 0x02 prefix with x = p-1 has no matching y on secp256k1
	offCurve := append([]byte{byte(crypto.SchemeSecp256k1), 0x02}, bytes.Repeat([]byte{0xff}, 32)...)

	testCases := []struct {
		name  string
		input []byte
	}{
		{"empty", nil},
		{"unknown scheme", append([]byte{7}, make([]byte, 32)...)},
		{"ed25519 too short", append([]byte{byte(crypto.SchemeEd25519)}, make([]byte, 31)...)},
		{"secp256k1 truncated", valid[:len(valid)-1]},
		{"trailing bytes", append(bytes.Clone(valid), 0x00)},
		{"secp256k1 off curve", offCurve},
		{"secp256k1 bad prefix", append([]byte{byte(crypto.SchemeSecp256k1), 0x05}, valid[2:]...)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := crypto.ParsePublicKey(tc.input)
			require.Error(t, err)
			require.ErrorIs(t, err, crypto.ErrDeserialization)
			require.True(t, crypto.IsMalformedPublicKey(err))
			require.False(t, crypto.IsMalformedSignature(err))
		})
	}
}

func TestParseSignature_RoundTrip(t *testing.T) {
	for _, signer := range []*testutil.TestSigner{
		testutil.NewEd25519Signer(t),
		testutil.NewSecp256k1Signer(t),
	} {
		sig := signer.Sign(t, []byte("section hashes"))
		encoded := sig.Encode()

		parsed, err := crypto.ParseSignature(encoded)
		require.NoError(t, err)
		assert.True(t, parsed.Equal(sig))
		assert.Equal(t, encoded, parsed.Encode())
	}
}

func TestParseSignature_Malformed(t *testing.T) {
	validSecp := testutil.NewSecp256k1Signer(t).Sign(t, []byte("msg")).Encode()

	overflowR := bytes.Clone(validSecp)
	copy(overflowR[1:33], bytes.Repeat([]byte{0xff}, 32))

	badRecovery := bytes.Clone(validSecp)
	badRecovery[len(badRecovery)-1] = 4

	testCases := []struct {
		name  string
		input []byte
	}{
		{"empty", []byte{}},
		{"unknown scheme", append([]byte{9}, make([]byte, 64)...)},
		{"ed25519 short", append([]byte{byte(crypto.SchemeEd25519)}, make([]byte, 63)...)},
		{"ed25519 long", append([]byte{byte(crypto.SchemeEd25519)}, make([]byte, 65)...)},
		{"secp256k1 missing recovery id", validSecp[:len(validSecp)-1]},
		{"secp256k1 r overflow", overflowR},
		{"secp256k1 recovery id out of range", badRecovery},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := crypto.ParseSignature(tc.input)
			require.ErrorIs(t, err, crypto.ErrDeserialization)
			require.True(t, crypto.IsMalformedSignature(err))
		})
	}
}

func TestSecp256k1Signature_GroupOrderBoundary(t *testing.T) {
	order := secp256k1.Params().N.Bytes()

	raw := make([]byte, 65)
	copy(raw[32-len(order):32], order)
	raw[63] = 1

	_, err := crypto.NewSecp256k1Signature(raw)
	require.ErrorIs(t, err, crypto.ErrDeserialization)
}

func TestPublicKey_Hash(t *testing.T) {
	signer := testutil.NewEd25519Signer(t)

	h1 := signer.PublicKey.Hash()
	h2 := signer.PublicKey.Hash()
	require.Equal(t, h1, h2)

	full := crypto.Sha256(signer.PublicKeyBytes())
	require.Equal(t, full[:crypto.PublicKeyHashSize], h1[:])

	other := testutil.NewEd25519Signer(t).PublicKey.Hash()
	require.NotEqual(t, h1, other)
}

func TestHashFromHex(t *testing.T) {
	h := crypto.Sha256([]byte("data"))

	parsed, err := crypto.HashFromHex(h.String())
	require.NoError(t, err)
	require.Equal(t, h, parsed)

	parsed, err = crypto.HashFromHex("0x" + h.String())
	require.NoError(t, err)
	require.Equal(t, h, parsed)

	_, err = crypto.HashFromHex("abcd")
	require.ErrorIs(t, err, crypto.ErrDeserialization)

	_, err = crypto.HashFromHex("zz")
	require.ErrorIs(t, err, crypto.ErrDeserialization)

	require.True(t, crypto.Hash{}.IsZero())
	require.False(t, h.IsZero())
}

func TestHash_JSON(t *testing.T) {
	h := crypto.Sha256([]byte("data"))

	data, err := json.Marshal(h)
	require.NoError(t, err)
	assert.Equal(t, `"`+h.String()+`"`, string(data))

	var decoded crypto.Hash
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, h, decoded)

	require.Error(t, json.Unmarshal([]byte(`"beef"`), &decoded))
}
