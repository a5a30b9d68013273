package starcos

import (
	"context"

	"starcos/internal/iso7816"
)

// cardCtlTag is the unexported marker that closes CardCtlCmd over a
// fixed set of concrete request types, the same shape iso7816.CreateData
// uses for MF/DF/EF.
type cardCtlTag int

const (
	tagCreateFile cardCtlTag = iota
	tagCreateEnd
	tagWriteKey
	tagGenerateKey
	tagEraseCard
	tagGetSerialNumber
)

// CardCtlCmd is implemented by every card_ctl request this driver
// accepts. Driver.CardCtl switches over the concrete type exhaustively.
type CardCtlCmd interface {
	cardCtlKind() cardCtlTag
}

// CardCtlCreateFile wraps a CreateData payload for dispatch through
// CardCtl rather than the CreateFile entry point directly; some
// callers prefer driving every proprietary operation through one
// dispatch function.
type CardCtlCreateFile struct {
	Data iso7816.CreateData
}

func (CardCtlCreateFile) cardCtlKind() cardCtlTag { return tagCreateFile }

// CardCtlCreateEnd activates the ACL of the DF/MF named by FID.
type CardCtlCreateEnd struct {
	FID uint16
}

func (CardCtlCreateEnd) cardCtlKind() cardCtlTag { return tagCreateEnd }

// CardCtlWriteKey wraps WriteKeyData for dispatch through CardCtl.
type CardCtlWriteKey struct {
	Data WriteKeyData
}

func (CardCtlWriteKey) cardCtlKind() cardCtlTag { return tagWriteKey }

// CardCtlGenerateKey wraps GenerateKeyData for dispatch through
// CardCtl; the generated modulus is returned in CardCtlResult.Modulus.
type CardCtlGenerateKey struct {
	Data GenerateKeyData
}

func (CardCtlGenerateKey) cardCtlKind() cardCtlTag { return tagGenerateKey }

// CardCtlEraseCard requests EraseCard.
type CardCtlEraseCard struct{}

func (CardCtlEraseCard) cardCtlKind() cardCtlTag { return tagEraseCard }

// CardCtlGetSerialNumber requests GetSerialNumber.
type CardCtlGetSerialNumber struct{}

func (CardCtlGetSerialNumber) cardCtlKind() cardCtlTag { return tagGetSerialNumber }

// CardCtlResult carries the outputs of whichever CardCtlCmd was
// dispatched; only the field relevant to the request is populated.
type CardCtlResult struct {
	Modulus []byte
	Serial  []byte
}

// CardCtl dispatches cmd to the matching proprietary operation.
func (d *Driver) CardCtl(ctx context.Context, cmd CardCtlCmd) (CardCtlResult, error) {
	switch c := cmd.(type) {
	case CardCtlCreateFile:
		return CardCtlResult{}, d.CreateFile(ctx, c.Data)
	case CardCtlCreateEnd:
		return CardCtlResult{}, CreateEnd(ctx, d.Transport, c.FID)
	case CardCtlWriteKey:
		return CardCtlResult{}, WriteKey(ctx, d.Transport, c.Data)
	case CardCtlGenerateKey:
		modulus, err := GenerateKey(ctx, d.Transport, c.Data)
		return CardCtlResult{Modulus: modulus}, err
	case CardCtlEraseCard:
		return CardCtlResult{}, EraseCard(ctx, d.Transport, &d.Handle.Cache)
	case CardCtlGetSerialNumber:
		serial, err := GetSerialNumber(ctx, d.Transport, d.Handle)
		return CardCtlResult{Serial: serial}, err
	default:
		return CardCtlResult{}, iso7816.ErrNotSupported
	}
}
