package util

import (
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
)

// DecodeHex decodes hex input with or without a 0x prefix. Surrounding
// whitespace is ignored so values can be pasted from files.
func DecodeHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if !has0xPrefix(s) {
		s = "0x" + s
	}
	if s == "0x" {
		return []byte{}, nil
	}
	b, err := hexutil.Decode(s)
	if err != nil {
		return nil, errors.Wrap(err, "invalid hex input")
	}
	return b, nil
}

// EncodeHex returns 0x-prefixed hex
func EncodeHex(b []byte) string {
	return hexutil.Encode(b)
}

func has0xPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}
