package starcos

import (
	"fmt"

	"starcos/internal/iso7816"
)

// errorEntry is one row of the STARCOS status-word table.
type errorEntry struct {
	sw    uint16
	kind  iso7816.Kind
	label string
}

// errorTable is a flat linear-scan table; at 14 entries this beats the
// complexity of a map or perfect hash without costing anything
// measurable.
var errorTable = []errorEntry{
	{0x6600, iso7816.KindIncorrectParameters, "Error setting the security env"},
	{0x66F0, iso7816.KindIncorrectParameters, "No space left for padding"},
	{0x69F0, iso7816.KindNotAllowed, "Command not allowed"},
	{0x6A89, iso7816.KindFileAlreadyExists, "Files exists"},
	{0x6A8A, iso7816.KindFileAlreadyExists, "Application exists"},
	{0x6F01, iso7816.KindCardCmdFailed, "public key not complete"},
	{0x6F02, iso7816.KindCardCmdFailed, "data overflow"},
	{0x6F03, iso7816.KindCardCmdFailed, "invalid command sequence"},
	{0x6F05, iso7816.KindCardCmdFailed, "security environment invalid"},
	{0x6F07, iso7816.KindFileNotFound, "key part not found"},
	{0x6F08, iso7816.KindCardCmdFailed, "signature failed"},
	{0x6F0A, iso7816.KindIncorrectParameters, "key format does not match key length"},
	{0x6F0B, iso7816.KindIncorrectParameters, "length of key component inconsistent with algorithm"},
	{0x6F81, iso7816.KindCardCmdFailed, "system error"},
}

// CheckSW translates a status word through the STARCOS-specific table
// first, falling back to the generic ISO 7816-4 translator for
// anything it doesn't recognize.
func CheckSW(sw1, sw2 byte) error {
	if sw1 == 0x90 || sw1 == 0x61 {
		return nil
	}
	if sw1 == 0x63 && sw2&0xF0 == 0xC0 {
		return iso7816.NewCardError(iso7816.KindPINCodeIncorrect,
			uint16(sw1)<<8|uint16(sw2), fmt.Sprintf("%d tries remaining", sw2&0x0F))
	}

	sw := uint16(sw1)<<8 | uint16(sw2)
	for _, e := range errorTable {
		if e.sw == sw {
			return iso7816.NewCardError(e.kind, sw, e.label)
		}
	}
	return iso7816.CheckSW(sw1, sw2)
}

// isOK reports whether a status word indicates either plain success or
// "more data available" (61xx), the two outcomes select_fid and the
// path resolver treat as a successful SELECT.
func isOK(sw1 byte) bool {
	return sw1 == 0x90 || sw1 == 0x61
}
