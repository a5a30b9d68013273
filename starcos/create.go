package starcos

import (
	"context"

	"starcos/internal/iso7816"
	"starcos/internal/reader"
)

var defaultKey = []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}

// CreateFile issues the APDU sequence for whichever CreateData variant
// data holds: CREATE MF, REGISTER DF + CREATE DF, or CREATE EF.
// CREATE END (which activates the ACL of a DF/MF) is a separate
// operation the caller must issue explicitly.
func CreateFile(ctx context.Context, t reader.Transport, data iso7816.CreateData) error {
	switch d := data.(type) {
	case iso7816.MFData:
		return createMF(ctx, t, d)
	case iso7816.DFData:
		return createDF(ctx, t, d)
	case iso7816.EFData:
		return createEF(ctx, t, d)
	default:
		return iso7816.ErrInvalidArguments
	}
}

func createMF(ctx context.Context, t reader.Transport, d iso7816.MFData) error {
	header := make([]byte, 0, 19)
	header = append(header, defaultKey...)
	header = append(header, byte(d.Size>>8), byte(d.Size))
	header = append(header, byte(d.Size>>10), byte(d.Size>>2))

	acCreateEF := processACLEntry(d.ACL[iso7816.ACLOpCreate], acAlways)
	header = append(header, acCreateEF, acCreateEF, acCreateEF, acCreateEF)

	sm := byte(0x00)
	if d.ACL[iso7816.ACLOpCreate].Method == iso7816.MethodPro {
		sm = 0x03
	}
	header = append(header, sm, sm, sm)

	apdu := buildAPDU(0x80, 0xE0, 0x00, 0x00, header, -1)
	_, err := transmitVoid(ctx, t, apdu, false)
	return err
}

func createDF(ctx context.Context, t reader.Transport, d iso7816.DFData) error {
	header := make([]byte, 0, 25)
	header = append(header, byte(d.FID>>8), byte(d.FID))

	if len(d.AID) > 0 {
		header = append(header, byte(len(d.AID)))
		padded := make([]byte, 16)
		copy(padded, d.AID)
		header = append(header, padded...)
	} else {
		header = append(header, 2)
		padded := make([]byte, 16)
		padded[0] = byte(d.FID >> 8)
		padded[1] = byte(d.FID)
		header = append(header, padded...)
	}

	header = append(header, byte(d.Size>>10), byte(d.Size>>2))

	acCreateEF := processACLEntry(d.ACL[iso7816.ACLOpCreate], acAlways)
	header = append(header, acCreateEF, acCreateEF)

	sm := byte(0x00)
	if d.ACL[iso7816.ACLOpCreate].Method == iso7816.MethodPro {
		sm = 0x03
	}
	header = append(header, sm, sm)

	sizeHi, sizeLo := byte(d.Size>>8), byte(d.Size)

	registerData := header[:3+int(header[2])]
	registerAPDU := buildAPDU(0x80, 0x52, sizeHi, sizeLo, registerData, -1)
	if _, err := transmitVoid(ctx, t, registerAPDU, false); err != nil {
		return err
	}

	createAPDU := buildAPDU(0x80, 0xE0, 0x01, 0x00, header, -1)
	_, err := transmitVoid(ctx, t, createAPDU, false)
	return err
}

func createEF(ctx context.Context, t reader.Transport, d iso7816.EFData) error {
	header := make([]byte, 0, 16)
	header = append(header, byte(d.FID>>8), byte(d.FID))
	header = append(header, processACLEntry(d.ACL[iso7816.ACLOpRead], acAlways))
	header = append(header, processACLEntry(d.ACL[iso7816.ACLOpWrite], acAlways))
	header = append(header, processACLEntry(d.ACL[iso7816.ACLOpErase], acAlways))
	header = append(header, acAlways, acAlways, acAlways, acAlways) // LOCK, UNLOCK, INCREASE, DECREASE
	header = append(header, 0x00, 0x00)                             // RFU
	header = append(header, efSMByte(d.ACL))
	header = append(header, 0x00) // SID: low 5 bits of FID, left as 0

	switch d.Structure {
	case iso7816.EFStructureTransparent:
		header = append(header, 0x81, byte(d.Size>>8), byte(d.Size))
	case iso7816.EFStructureLinearFixed:
		header = append(header, 0x82, byte(d.RecordCount), byte(d.RecordLength))
	case iso7816.EFStructureCyclic:
		header = append(header, 0x84, byte(d.RecordCount), byte(d.RecordLength))
	default:
		return iso7816.ErrInvalidArguments
	}

	apdu := buildAPDU(0x80, 0xE0, 0x03, 0x00, header, -1)
	_, err := transmitVoid(ctx, t, apdu, false)
	return err
}

// CreateEnd activates the ACL of the DF/MF identified by fid. It must
// be called explicitly after CreateFile for that DF/MF.
func CreateEnd(ctx context.Context, t reader.Transport, fid uint16) error {
	data := []byte{byte(fid >> 8), byte(fid)}
	apdu := buildAPDU(0x80, 0xE0, 0x02, 0x00, data, -1)
	_, err := transmitVoid(ctx, t, apdu, false)
	return err
}

func transmitVoid(ctx context.Context, t reader.Transport, apdu []byte, sensitive bool) ([]byte, error) {
	resp, _, _, err := transmit(ctx, t, apdu, sensitive)
	return resp, err
}
