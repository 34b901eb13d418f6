// Package authorization rebuilds authorization sections from the compact
// form produced by offline signers: raw key and signature bytes plus the
// logical indices of the sections that were signed.
//
// The functions here are pure. They never modify the referenced transaction
// and do not verify signatures.
package authorization

import (
	"github.com/Layr-Labs/authz-expander-go/pkg/crypto"
	"github.com/Layr-Labs/authz-expander-go/pkg/types"
)

// ExpandAuthorization builds the authorization section for a single signer
// whose signature sits at index 0.
//
// pubkey and signature are canonical encodings; targetIndices are logical
// section indices of tx. Malformed key or signature bytes fail with a
// crypto.DeserializationError before tx is consulted; an unresolvable index
// fails with the error returned by tx.
func ExpandAuthorization(pubkey, targetIndices, signature []byte, tx types.SectionLookup) (types.Section, error) {
	return ExpandAuthorizationAt(0, pubkey, targetIndices, signature, tx)
}

// ExpandAuthorizationAt is ExpandAuthorization with the signature stored at
// signerIndex in the signature map.
func ExpandAuthorizationAt(signerIndex uint8, pubkey, targetIndices, signature []byte, tx types.SectionLookup) (types.Section, error) {
	compressed, err := NewCompressedAuthorization(signerIndex, pubkey, targetIndices, signature)
	if err != nil {
		return nil, err
	}

	auth, err := compressed.Expand(tx)
	if err != nil {
		return nil, err
	}
	return auth, nil
}

// NewCompressedAuthorization deserializes the key and signature and
// assembles the compressed authorization without resolving any index
func NewCompressedAuthorization(signerIndex uint8, pubkey, targetIndices, signature []byte) (types.CompressedAuthorization, error) {
	pk, err := crypto.ParsePublicKey(pubkey)
	if err != nil {
		return types.CompressedAuthorization{}, err
	}
	sig, err := crypto.ParseSignature(signature)
	if err != nil {
		return types.CompressedAuthorization{}, err
	}

	return types.CompressedAuthorization{
		Targets:    targetIndices,
		Signer:     types.PubKeysSigner{PubKeys: []crypto.PublicKey{pk}},
		Signatures: types.SignatureMap{signerIndex: sig},
	}, nil
}
