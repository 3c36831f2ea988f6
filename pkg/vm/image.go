package vm

import (
	"encoding/binary"
	"fmt"
	"io"
)

// LoadImage reads all bytes from r and groups them into big-endian
// 32-bit words, in the same order they appear in the stream. It
// returns ErrBadImage if the byte count is not a multiple of 4. An
// empty image is permitted: it loads as a zero-length segment 0,
// which causes an out-of-bounds fault on the very first fetch.
func LoadImage(r io.Reader) ([]uint32, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("vm: reading image: %w", err)
	}
	if len(raw)%4 != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrBadImage, len(raw))
	}
	words := make([]uint32, len(raw)/4)
	for i := range words {
		words[i] = binary.BigEndian.Uint32(raw[i*4:])
	}
	return words, nil
}
