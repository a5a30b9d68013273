package starcos

import (
	"context"

	"starcos/internal/iso7816"
	"starcos/internal/reader"
)

// GenerateKeyData is the input to GenerateKey: the ISF key reference
// to generate into and the requested modulus size in bits.
type GenerateKeyData struct {
	KeyID     byte
	KeyLength int
}

// GenerateKey orders on-card RSA key-pair generation and reads back
// the public modulus. STARCOS returns the modulus little-endian
// starting at response offset 18; this reverses it into the
// conventional big-endian form callers expect.
func GenerateKey(ctx context.Context, t reader.Transport, d GenerateKeyData) ([]byte, error) {
	lenBytes := d.KeyLength / 8

	genData := []byte{byte(d.KeyLength >> 8), byte(d.KeyLength)}
	genAPDU := buildAPDU(0x00, 0x46, 0x00, d.KeyID, genData, 0)
	if _, err := transmitVoid(ctx, t, genAPDU, false); err != nil {
		return nil, err
	}

	readAPDU := buildAPDU(0x80, 0xF0, 0x9C, 0x00, []byte{d.KeyID}, 0)
	resp, err := transmitVoid(ctx, t, readAPDU, false)
	if err != nil {
		return nil, err
	}

	if 18+lenBytes > len(resp) {
		return nil, iso7816.ErrOutOfMemory
	}

	modulus := make([]byte, lenBytes)
	for i := 0; i < lenBytes; i++ {
		modulus[i] = resp[18+lenBytes-1-i]
	}
	return modulus, nil
}
