package util

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ParseIndices parses a comma separated list of section indices such as
// "0,1,2,255". Order and duplicates are preserved. An empty string yields an
// empty list.
func ParseIndices(s string) ([]uint8, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []uint8{}, nil
	}

	parts := strings.Split(s, ",")
	indices := make([]uint8, 0, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid index at position %d", i)
		}
		indices = append(indices, uint8(v))
	}
	return indices, nil
}

// FormatIndices is the inverse of ParseIndices
func FormatIndices(indices []uint8) string {
	parts := make([]string, len(indices))
	for i, idx := range indices {
		parts[i] = strconv.Itoa(int(idx))
	}
	return strings.Join(parts, ",")
}
