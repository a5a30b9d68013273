package starcos

import (
	"context"

	"starcos/internal/reader"
)

const writeKeyChunkSize = 124

// WriteKeyData is the input to WriteKey: a 12-byte key header (sent
// only in install mode), the key reference it targets, the write mode
// (0 installs a fresh header; nonzero modes append to an existing
// one), and the key material itself (nil when only installing).
type WriteKeyData struct {
	KeyHeader [12]byte
	KID       byte
	Mode      byte
	Key       []byte
}

// WriteKey installs a key header in the Internal Secret File (mode 0
// only) and streams the key material in chunks no larger than 124
// bytes, each chunk carrying its own offset so the card can reassemble
// it.
func WriteKey(ctx context.Context, t reader.Transport, d WriteKeyData) error {
	if d.Mode == 0 {
		body := make([]byte, 0, 14)
		body = append(body, 0xC1, 0x0C)
		body = append(body, d.KeyHeader[:]...)
		apdu := buildAPDU(0x80, 0xF4, d.Mode, 0x00, body, -1)
		if _, err := transmitVoid(ctx, t, apdu, false); err != nil {
			return err
		}
	}

	if d.Key == nil && d.Mode == 0 {
		return nil
	}

	offset := 0
	remaining := d.Key
	for len(remaining) > 0 {
		chunkLen := len(remaining)
		if chunkLen > writeKeyChunkSize {
			chunkLen = writeKeyChunkSize
		}
		chunk := remaining[:chunkLen]

		body := make([]byte, 0, 5+chunkLen)
		body = append(body, 0xC2, byte(3+chunkLen), d.KID, byte(offset>>8), byte(offset))
		body = append(body, chunk...)

		apdu := buildAPDU(0x80, 0xF4, d.Mode, 0x00, body, -1)
		if _, err := transmitVoid(ctx, t, apdu, true); err != nil {
			return err
		}

		offset += chunkLen
		remaining = remaining[chunkLen:]
	}
	return nil
}
