package starcos

import (
	"fmt"

	"starcos/internal/iso7816"
)

// decodeFCI parses the BER-TLV body returned by a SELECT FILE carrying
// FCI into a file descriptor. It only understands the two tags
// STARCOS actually emits (0x80 size, 0x82 file descriptor byte(s));
// any other tag is skipped over using its length.
func decodeFCI(body []byte) (*iso7816.FileDescriptor, error) {
	if len(body) < 2 || body[0] != 0x6F {
		return nil, iso7816.NewCardError(iso7816.KindInvalidData, 0, "FCI: missing outer 6F wrapper")
	}
	outerLen := int(body[1])
	if 2+outerLen > len(body) {
		return nil, iso7816.NewCardError(iso7816.KindInvalidData, 0, "FCI: outer length overflows buffer")
	}
	inner := body[2 : 2+outerLen]

	fd := iso7816.NewFileDescriptor()
	fd.Type = iso7816.FileTypeWorkingEF
	fd.EFStructure = iso7816.EFStructureUnknown

	pos := 0
	for pos+2 <= len(inner) {
		tag := inner[pos]
		length := int(inner[pos+1])
		pos += 2
		if pos+length > len(inner) {
			return nil, iso7816.NewCardError(iso7816.KindInvalidData, 0, "FCI: tag length overflows buffer")
		}
		value := inner[pos : pos+length]
		pos += length

		switch tag {
		case 0x80:
			if length < 2 {
				return nil, iso7816.NewCardError(iso7816.KindInvalidData, 0, "FCI: tag 80 too short")
			}
			fd.Size = int(value[0])<<8 | int(value[1])
		case 0x82:
			switch {
			case length == 1 && value[0] == 0x01:
				fd.Type = iso7816.FileTypeWorkingEF
				fd.EFStructure = iso7816.EFStructureTransparent
			case length == 1 && value[0] == 0x11:
				// "Object EF": reported as transparent same as 0x01.
				fd.Type = iso7816.FileTypeWorkingEF
				fd.EFStructure = iso7816.EFStructureTransparent
			case length == 3 && value[1] == 0x21:
				fd.Type = iso7816.FileTypeWorkingEF
				fd.RecordLength = int(value[2])
				switch value[0] {
				case 0x02:
					fd.EFStructure = iso7816.EFStructureLinearFixed
				case 0x07:
					fd.EFStructure = iso7816.EFStructureCyclic
				case 0x17:
					fd.EFStructure = iso7816.EFStructureUnknown
				default:
					fd.EFStructure = iso7816.EFStructureUnknown
					fd.RecordLength = 0
				}
			default:
				fd.EFStructure = iso7816.EFStructureUnknown
			}
		}
	}

	fd.Valid = true
	return fd, nil
}

// fciDebugString formats an FCI body for slog.Debug tracing without
// attempting to interpret it.
func fciDebugString(body []byte) string {
	return fmt.Sprintf("%X", body)
}
