// Package starcos implements the application-layer driver for STARCOS
// SPK 2.3 smart cards: an override layer on top of the generic
// ISO 7816-4 data model in internal/iso7816, the way a concrete card
// driver overrides a handful of hook points on a shared parent
// framework.
package starcos

import "bytes"

// knownATRs are the two byte strings that identify a STARCOS SPK 2.3
// generic card. MatchCard only ever compares against these; anything
// else is left to another driver.
var knownATRs = [][]byte{
	{0x3B, 0xB7, 0x94, 0x00, 0xC0, 0x24, 0x31, 0xFE, 0x65, 0x53, 0x50, 0x4B, 0x32, 0x33, 0x90, 0x00, 0xB4},
	{0x3B, 0xB7, 0x94, 0x00, 0x81, 0x31, 0xFE, 0x65, 0x53, 0x50, 0x4B, 0x32, 0x33, 0x90, 0x00, 0xD1},
}

// MatchCard reports whether atr belongs to a STARCOS SPK 2.3 card.
func MatchCard(atr []byte) bool {
	for _, known := range knownATRs {
		if bytes.Equal(atr, known) {
			return true
		}
	}
	return false
}

// ATRInfo is a diagnostic decode of the historical bytes, used only for
// logging: it never influences MatchCard. T0 is the ATR's format byte;
// Historical holds whatever bytes follow the interface-byte chain;
// Protocols lists each T=n found while walking the TD chain.
type ATRInfo struct {
	T0         byte
	Historical []byte
	Protocols  []int
}

// DecodeATR walks the TS/T0/TA-TB-TC-TD interface-byte chain far enough
// to locate the historical bytes for a log line. It does not validate
// the TCK checksum: that never affects driver behavior and would
// duplicate what scard already validated when it accepted the card.
func DecodeATR(atr []byte) (ATRInfo, bool) {
	if len(atr) < 2 {
		return ATRInfo{}, false
	}
	t0 := atr[1]
	historicalLen := int(t0 & 0x0F)

	pos := 2
	td := t0
	var protocols []int
	for {
		if td&0x10 != 0 {
			if pos >= len(atr) {
				return ATRInfo{}, false
			}
			pos++
		}
		if td&0x20 != 0 {
			if pos >= len(atr) {
				return ATRInfo{}, false
			}
			pos++
		}
		if td&0x40 != 0 {
			if pos >= len(atr) {
				return ATRInfo{}, false
			}
			pos++
		}
		if td&0x80 == 0 {
			break
		}
		if pos >= len(atr) {
			return ATRInfo{}, false
		}
		td = atr[pos]
		protocols = append(protocols, int(td&0x0F))
		pos++
	}

	if pos+historicalLen > len(atr) {
		return ATRInfo{}, false
	}
	return ATRInfo{T0: t0, Historical: atr[pos : pos+historicalLen], Protocols: protocols}, true
}
