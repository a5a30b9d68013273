package starcos

import (
	"context"
	"fmt"
	"log/slog"

	"starcos/internal/iso7816"
	"starcos/internal/reader"
)

const (
	rsaPublicExponent = 0x10001
	maxAPDUSize       = 128
)

var supportedRSAKeySizes = []int{512, 768, 1024}

// Capability flags advertised by Init, mirroring the bitmask the
// generic driver's capability field carries.
const (
	CapPKCS1 uint32 = 1 << iota
	CapOnCardKeyGen
	CapRNG
	CapISO9796
	CapHashNone
	CapHashSHA1
	CapHashMD5
	CapHashRIPEMD160
	CapHashMD5SHA1
)

// Driver wires the STARCOS operations over a single card handle and
// transport, exposing the operation table a host framework would call
// into: MatchCard, Init, Finish, SelectFile, CheckSW, CreateFile,
// SetSecurityEnv, ComputeSignature, CardCtl, Logout. DeleteFile is
// deliberately left unbound, matching the card's ISF-based file model.
type Driver struct {
	Transport reader.Transport
	Handle    *iso7816.CardHandle
}

// Init matches the card's ATR, allocates the driver's private
// extension state, and clamps the advertised APDU sizes to the
// card's 128-byte limit. It is an error to call Init on a handle whose
// ATR does not match a STARCOS SPK 2.3 card.
func Init(log *slog.Logger, atr []byte) (*Driver, error) {
	if !MatchCard(atr) {
		return nil, fmt.Errorf("starcos: ATR %X does not match a STARCOS SPK 2.3 card", atr)
	}

	handle := iso7816.NewCardHandle(log, atr)
	handle.RSAKeySizes = append([]int(nil), supportedRSAKeySizes...)
	handle.RSAPublicExp = rsaPublicExponent
	handle.Capabilities = CapPKCS1 | CapOnCardKeyGen | CapRNG | CapISO9796 |
		CapHashNone | CapHashSHA1 | CapHashMD5 | CapHashRIPEMD160 | CapHashMD5SHA1
	handle.MaxSendSize = maxAPDUSize
	handle.MaxRecvSize = maxAPDUSize
	handle.Ext = &iso7816.ExtData{}

	return &Driver{Handle: handle}, nil
}

// Bind attaches a transport to the driver; Init alone never needs one
// (ATR matching and capability setup are pure), but every subsequent
// operation does.
func (d *Driver) Bind(t reader.Transport) {
	d.Transport = t
}

// Finish releases the driver's private extension state.
func (d *Driver) Finish() {
	d.Handle.Ext = nil
}

// MatchCard reports whether the driver's handle carries a STARCOS
// SPK 2.3 ATR.
func (d *Driver) MatchCard() bool {
	return MatchCard(d.Handle.ATR)
}

// SelectFile resolves kind/value against the card, consulting and
// updating the handle's path cache.
func (d *Driver) SelectFile(ctx context.Context, kind iso7816.PathKind, value []byte, wantDescriptor bool) (*iso7816.FileDescriptor, error) {
	return SelectFile(ctx, d.Transport, &d.Handle.Cache, kind, value, wantDescriptor)
}

// CheckSW translates a status word through the STARCOS error table.
func (d *Driver) CheckSW(sw1, sw2 byte) error {
	return CheckSW(sw1, sw2)
}

// CreateFile issues the CREATE APDU sequence for data's concrete type.
func (d *Driver) CreateFile(ctx context.Context, data iso7816.CreateData) error {
	return CreateFile(ctx, d.Transport, data)
}

// SetSecurityEnv installs a security environment, recording the
// outcome in the handle's extension state for ComputeSignature to
// consult.
func (d *Driver) SetSecurityEnv(ctx context.Context, env iso7816.SecurityEnv) error {
	return SetSecurityEnv(ctx, d.Transport, d.Handle.Ext, env)
}

// ComputeSignature signs or authenticates input according to the
// security environment last installed by SetSecurityEnv.
func (d *Driver) ComputeSignature(ctx context.Context, input []byte, outLen int) ([]byte, error) {
	return ComputeSignature(ctx, d.Transport, d.Handle.Ext, input, outLen)
}

// Logout selects the MF, dropping the card's current security state.
func (d *Driver) Logout(ctx context.Context) error {
	return Logout(ctx, d.Transport)
}

// DeleteFile is not bound: STARCOS has no DELETE FILE command in this
// driver's scope.
func (d *Driver) DeleteFile(ctx context.Context, fid uint16) error {
	return iso7816.ErrNotSupported
}
