package starcos

import (
	"context"

	"starcos/internal/reader"
)

// apduCase documents which of the four ISO 7816-4 APDU cases a helper
// builds (case 1: no data, no Le; case 2 short: Le only; case 3 short:
// Lc+data only; case 4 short: Lc+data+Le). buildAPDU's own shape
// already encodes this; the constants exist only for documentation.
type apduCase int

const (
	apduCase1 apduCase = iota
	apduCase2Short
	apduCase3Short
	apduCase4Short
)

// buildAPDU assembles a short command of any of the four cases. Empty
// data means no Lc byte (case 1 or 2). le < 0 means no Le byte (case 1
// or 3); otherwise le is encoded as a single byte, 0x00 requesting up
// to 256 bytes back (case 2 or 4).
func buildAPDU(cla, ins, p1, p2 byte, data []byte, le int) []byte {
	apdu := make([]byte, 0, 5+len(data)+1)
	apdu = append(apdu, cla, ins, p1, p2)
	if len(data) > 0 {
		apdu = append(apdu, byte(len(data)))
		apdu = append(apdu, data...)
	}
	if le >= 0 {
		apdu = append(apdu, byte(le))
	}
	return apdu
}

// transmit sends apdu over t, classifies the status word through
// CheckSW, and returns the response body alongside the translated
// error (nil on success or 61xx "more data").
func transmit(ctx context.Context, t reader.Transport, apdu []byte, sensitive bool) ([]byte, byte, byte, error) {
	sw1, sw2, resp, err := t.Transmit(ctx, apdu, sensitive)
	if err != nil {
		return nil, 0, 0, err
	}
	if err := CheckSW(sw1, sw2); err != nil {
		return resp, sw1, sw2, err
	}
	return resp, sw1, sw2, nil
}
