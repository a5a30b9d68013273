// Package reader provides the PC/SC transport that concrete card
// drivers transmit APDUs over. It wraps github.com/ebfe/scard the way
// a reader package normally would: establish a context, connect to a
// reader chosen by index, transmit, reconnect, release.
package reader

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ebfe/scard"
)

// Transport is the interface a card driver transmits APDUs through.
// Reader is the concrete PC/SC implementation; tests substitute a
// scripted fake.
type Transport interface {
	Transmit(ctx context.Context, apdu []byte, sensitive bool) (sw1, sw2 byte, resp []byte, err error)
	ATR() []byte
}

// Reader is a PC/SC smart card reader connection.
type Reader struct {
	log  *slog.Logger
	ctx  *scard.Context
	card *scard.Card
	name string
	atr  []byte
}

// ListReaders returns the names of available PC/SC readers.
func ListReaders() ([]string, error) {
	ctx, err := scard.EstablishContext()
	if err != nil {
		return nil, fmt.Errorf("reader: establish PC/SC context: %w", err)
	}
	defer ctx.Release()

	readers, err := ctx.ListReaders()
	if err != nil {
		return nil, fmt.Errorf("reader: list readers: %w", err)
	}
	return readers, nil
}

// Connect connects to a smart card reader by index and returns a
// Reader ready to transmit.
func Connect(log *slog.Logger, readerIndex int) (*Reader, error) {
	ctx, err := scard.EstablishContext()
	if err != nil {
		return nil, fmt.Errorf("reader: establish PC/SC context: %w", err)
	}

	readers, err := ctx.ListReaders()
	if err != nil {
		ctx.Release()
		return nil, fmt.Errorf("reader: list readers: %w", err)
	}
	if len(readers) == 0 {
		ctx.Release()
		return nil, fmt.Errorf("reader: no smart card readers found")
	}
	if readerIndex < 0 || readerIndex >= len(readers) {
		ctx.Release()
		return nil, fmt.Errorf("reader: index %d out of range (0-%d)", readerIndex, len(readers)-1)
	}

	name := readers[readerIndex]
	card, err := ctx.Connect(name, scard.ShareShared, scard.ProtocolAny)
	if err != nil {
		ctx.Release()
		return nil, fmt.Errorf("reader: connect to '%s': %w", name, err)
	}

	status, err := card.Status()
	if err != nil {
		card.Disconnect(scard.LeaveCard)
		ctx.Release()
		return nil, fmt.Errorf("reader: card status: %w", err)
	}

	if log == nil {
		log = slog.Default()
	}

	return &Reader{
		log:  log,
		ctx:  ctx,
		card: card,
		name: name,
		atr:  status.Atr,
	}, nil
}

// ConnectFirst connects to the first available reader.
func ConnectFirst(log *slog.Logger) (*Reader, error) {
	return Connect(log, 0)
}

// Transmit sends apdu to the card and splits the trailer SW1/SW2 from
// the response body. ctx cancellation is only checked before the
// transmit starts: scard's Transmit has no native cancellation hook,
// so a canceled context short-circuits rather than interrupting an
// in-flight exchange. sensitive suppresses body logging (PINs, key
// material) while still logging the status word.
func (r *Reader) Transmit(ctx context.Context, apdu []byte, sensitive bool) (byte, byte, []byte, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, nil, fmt.Errorf("reader: %w", err)
	}

	if sensitive {
		r.log.DebugContext(ctx, "apdu transmit", "len", len(apdu), "sensitive", true)
	} else {
		r.log.DebugContext(ctx, "apdu transmit", "apdu", fmt.Sprintf("%X", apdu))
	}

	raw, err := r.card.Transmit(apdu)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("reader: transmit: %w", err)
	}
	if len(raw) < 2 {
		return 0, 0, nil, fmt.Errorf("reader: short response (%d bytes)", len(raw))
	}

	sw1, sw2 := raw[len(raw)-2], raw[len(raw)-1]
	resp := raw[:len(raw)-2]

	if sensitive {
		r.log.DebugContext(ctx, "apdu response", "sw1", fmt.Sprintf("%02X", sw1), "sw2", fmt.Sprintf("%02X", sw2), "len", len(resp))
	} else {
		r.log.DebugContext(ctx, "apdu response", "sw1", fmt.Sprintf("%02X", sw1), "sw2", fmt.Sprintf("%02X", sw2), "resp", fmt.Sprintf("%X", resp))
	}

	return sw1, sw2, resp, nil
}

// Close disconnects from the card and releases the PC/SC context.
func (r *Reader) Close() error {
	if r.card != nil {
		r.card.Disconnect(scard.LeaveCard)
	}
	if r.ctx != nil {
		r.ctx.Release()
	}
	return nil
}

// Name returns the underlying reader name.
func (r *Reader) Name() string { return r.name }

// ATR returns the Answer-To-Reset bytes observed at connect time.
func (r *Reader) ATR() []byte { return r.atr }

// ATRHex returns the ATR formatted as an uppercase hex string.
func (r *Reader) ATRHex() string { return fmt.Sprintf("%X", r.atr) }

// Reconnect performs a card reset. cold selects a power-cycle (cold)
// reset over a warm reset.
func (r *Reader) Reconnect(cold bool) error {
	if r.card == nil {
		return fmt.Errorf("reader: no card connected")
	}

	disposition := scard.ResetCard
	if cold {
		disposition = scard.UnpowerCard
	}

	if err := r.card.Reconnect(scard.ShareShared, scard.ProtocolAny, disposition); err != nil {
		return fmt.Errorf("reader: reconnect: %w", err)
	}

	if status, err := r.card.Status(); err == nil {
		r.atr = status.Atr
	}
	return nil
}
