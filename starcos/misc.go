package starcos

import (
	"context"

	"starcos/internal/iso7816"
	"starcos/internal/reader"
)

// GetSerialNumber returns the card's serial number, fetching it from
// the card only on the first call; later calls return the handle's
// cached copy.
func GetSerialNumber(ctx context.Context, t reader.Transport, handle *iso7816.CardHandle) ([]byte, error) {
	if handle.Serial.Valid {
		return handle.Serial.Bytes, nil
	}

	apdu := buildAPDU(0x80, 0xF6, 0x00, 0x00, nil, 0)
	resp, err := transmitVoid(ctx, t, apdu, false)
	if err != nil {
		return nil, err
	}

	handle.Serial = iso7816.SerialNumber{Bytes: resp, Valid: true}
	return resp, nil
}

// Logout selects the MF with no FCI requested, dropping any current
// security state on the card. A 6985 response (no MF present) is
// normalized to success, matching EraseCard's treatment of the same
// status word.
func Logout(ctx context.Context, t reader.Transport) error {
	apdu := buildAPDU(0x00, 0xA4, 0x00, 0x0C, mfFID, -1)
	sw1, sw2, _, err := t.Transmit(ctx, apdu, false)
	if err != nil {
		return err
	}
	if sw1 == 0x69 && sw2 == 0x85 {
		return nil
	}
	return CheckSW(sw1, sw2)
}

// EraseCard restores the card's delivery state by deleting the MF
// (test cards only). On success the path cache is invalidated since
// the driver can no longer vouch for what DF, if any, is selected. A
// 6985 response (no MF to delete) is normalized to success.
func EraseCard(ctx context.Context, t reader.Transport, cache *iso7816.PathCache) error {
	apdu := buildAPDU(0x80, 0xE4, 0x00, 0x00, mfFID, -1)
	sw1, sw2, _, err := t.Transmit(ctx, apdu, false)
	if err != nil {
		return err
	}

	cache.Invalidate()

	if sw1 == 0x69 && sw2 == 0x85 {
		return nil
	}
	return CheckSW(sw1, sw2)
}
