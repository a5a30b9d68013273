package starcos

import "testing"

func TestMatchCard(t *testing.T) {
	tests := []struct {
		name string
		atr  []byte
		want bool
	}{
		{"known ATR 1", knownATRs[0], true},
		{"known ATR 2", knownATRs[1], true},
		{"unrelated ATR", []byte{0x3B, 0x00}, false},
		{"empty", nil, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := MatchCard(tc.atr); got != tc.want {
				t.Errorf("MatchCard(%X) = %v, want %v", tc.atr, got, tc.want)
			}
		})
	}
}

func TestDecodeATR(t *testing.T) {
	// T0=84: historical length 4, no TA1/TB1/TC1, TD1 present.
	// TD1=00: T=0, no further interface bytes.
	atr := []byte{0x3B, 0x84, 0x00, 0xDE, 0xAD, 0xBE, 0xEF}
	info, ok := DecodeATR(atr)
	if !ok {
		t.Fatal("DecodeATR failed on a well-formed ATR")
	}
	if len(info.Historical) != 4 {
		t.Errorf("len(Historical) = %d, want 4", len(info.Historical))
	}
	if info.Protocols[0] != 0 {
		t.Errorf("Protocols[0] = %d, want 0 (T=0)", info.Protocols[0])
	}
}

func TestDecodeATRWithInterfaceBytes(t *testing.T) {
	// T0=F7: historical length 7, TA1/TB1/TC1 present (0x10|0x20|0x40), TD1 present.
	// TD1=40: TC2 follows, no TD2 -- the TD chain ends there.
	atr := []byte{
		0x3B, 0xF7, // TS, T0
		0xAA, 0xBB, 0xCC, // TA1, TB1, TC1
		0x40,                                     // TD1
		0xDD,                                     // TC2
		0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, // 7 historical bytes
	}
	info, ok := DecodeATR(atr)
	if !ok {
		t.Fatal("DecodeATR failed on an ATR carrying interface bytes")
	}
	if len(info.Historical) != 7 {
		t.Errorf("len(Historical) = %d, want 7", len(info.Historical))
	}
}

func TestDecodeATRTooShort(t *testing.T) {
	if _, ok := DecodeATR([]byte{0x3B}); ok {
		t.Error("DecodeATR should fail on a 1-byte ATR")
	}
	if _, ok := DecodeATR(nil); ok {
		t.Error("DecodeATR should fail on an empty ATR")
	}
}

func TestDecodeATRTruncatedHistoricalBytes(t *testing.T) {
	// Claims 4 historical bytes, but the two bytes after T0 are TA1 and
	// TD1, so none are supplied.
	atr := []byte{0x3B, 0x94, 0x00, 0x01}
	if _, ok := DecodeATR(atr); ok {
		t.Error("DecodeATR should fail when historical bytes overrun the buffer")
	}
}
