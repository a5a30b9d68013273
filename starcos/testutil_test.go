package starcos

import (
	"bytes"
	"context"
	"testing"
)

// step is one expected APDU exchange in a scriptedTransport.
type step struct {
	want     []byte
	sw1, sw2 byte
	resp     []byte
}

// scriptedTransport replays a fixed sequence of APDU exchanges,
// failing the test if the driver sends something other than what the
// script expects or if it exhausts the script early.
type scriptedTransport struct {
	t     *testing.T
	steps []step
	idx   int
	atr   []byte
}

func (s *scriptedTransport) Transmit(ctx context.Context, apdu []byte, sensitive bool) (byte, byte, []byte, error) {
	s.t.Helper()
	if s.idx >= len(s.steps) {
		s.t.Fatalf("unexpected APDU %X: script exhausted after %d exchanges", apdu, len(s.steps))
	}
	st := s.steps[s.idx]
	s.idx++
	if st.want != nil && !bytes.Equal(apdu, st.want) {
		s.t.Errorf("step %d: APDU = %X, want %X", s.idx-1, apdu, st.want)
	}
	return st.sw1, st.sw2, st.resp, nil
}

func (s *scriptedTransport) ATR() []byte { return s.atr }

func (s *scriptedTransport) done() bool { return s.idx == len(s.steps) }
