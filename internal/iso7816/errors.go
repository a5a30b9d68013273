// Package iso7816 models the generic ISO 7816-4 card state that the
// STARCOS driver overrides: paths, file descriptors, ACLs, security
// environments and the fallback status-word translator. It stands in
// for the "parent framework" that a concrete card driver in a systems
// language would normally inherit operations from.
package iso7816

import "fmt"

// Kind is the normalized error taxonomy surfaced to driver callers.
type Kind int

const (
	KindNone Kind = iota
	KindOutOfMemory
	KindInvalidArguments
	KindInvalidData
	KindInternal
	KindNotSupported
	KindNotAllowed
	KindIncorrectParameters
	KindFileAlreadyExists
	KindFileNotFound
	KindPINCodeIncorrect
	KindCardCmdFailed
)

func (k Kind) String() string {
	switch k {
	case KindOutOfMemory:
		return "out of memory"
	case KindInvalidArguments:
		return "invalid arguments"
	case KindInvalidData:
		return "invalid data"
	case KindInternal:
		return "internal error"
	case KindNotSupported:
		return "not supported"
	case KindNotAllowed:
		return "not allowed"
	case KindIncorrectParameters:
		return "incorrect parameters"
	case KindFileAlreadyExists:
		return "file already exists"
	case KindFileNotFound:
		return "file not found"
	case KindPINCodeIncorrect:
		return "PIN code incorrect"
	case KindCardCmdFailed:
		return "card command failed"
	default:
		return "no error"
	}
}

// CardError wraps a normalized Kind together with the status word and
// human label that produced it, when one is available.
type CardError struct {
	Kind  Kind
	SW    uint16
	Label string
}

func (e *CardError) Error() string {
	if e.Label != "" {
		return fmt.Sprintf("%s (SW=%04X): %s", e.Kind, e.SW, e.Label)
	}
	return fmt.Sprintf("%s (SW=%04X)", e.Kind, e.SW)
}

func NewCardError(kind Kind, sw uint16, label string) *CardError {
	return &CardError{Kind: kind, SW: sw, Label: label}
}

// ErrInvalidArguments and friends are convenience sentinels for callers
// that only care about the Kind, not the originating status word.
var (
	ErrInvalidArguments = &CardError{Kind: KindInvalidArguments}
	ErrNotSupported     = &CardError{Kind: KindNotSupported}
	ErrOutOfMemory      = &CardError{Kind: KindOutOfMemory}
)

// CheckSW is the generic ISO 7816-4 fallback translator. A concrete
// driver's own error table is consulted first; unmatched status words
// fall through to this function, which recognizes the handful of
// status words that are common across ISO 7816-4 cards.
func CheckSW(sw1, sw2 byte) error {
	sw := uint16(sw1)<<8 | uint16(sw2)
	if sw1 == 0x90 {
		return nil
	}
	switch {
	case sw1 == 0x63 && sw2&0xF0 == 0xC0:
		return NewCardError(KindPINCodeIncorrect, sw, fmt.Sprintf("%d tries remaining", sw2&0x0F))
	case sw == 0x6A82:
		return NewCardError(KindFileNotFound, sw, "file not found")
	case sw == 0x6A86:
		return NewCardError(KindIncorrectParameters, sw, "incorrect P1/P2")
	case sw == 0x6D00:
		return NewCardError(KindNotSupported, sw, "instruction not supported")
	case sw == 0x6E00:
		return NewCardError(KindNotSupported, sw, "class not supported")
	case sw == 0x6982:
		return NewCardError(KindNotAllowed, sw, "security status not satisfied")
	case sw == 0x6985:
		return NewCardError(KindNotAllowed, sw, "conditions of use not satisfied")
	case sw1 == 0x67:
		return NewCardError(KindIncorrectParameters, sw, "wrong length")
	default:
		return NewCardError(KindCardCmdFailed, sw, "unknown status word")
	}
}
