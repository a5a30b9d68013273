package starcos

import (
	"bytes"
	"context"
	"fmt"

	"starcos/internal/iso7816"
	"starcos/internal/reader"
)

var mfFID = []byte{0x3F, 0x00}

// SelectFile implements SELECT FILE for all three path kinds STARCOS
// supports: by AID (DF_NAME), by raw FID (a 2-byte path), and by full
// path (a sequence of FIDs rooted at the MF). wantDescriptor controls
// whether the final SELECT requests FCI; descriptor is nil when the
// caller didn't ask for one. When one was asked for and the selection
// landed on a DF, a synthesized DF descriptor is returned.
func SelectFile(ctx context.Context, t reader.Transport, cache *iso7816.PathCache, kind iso7816.PathKind, value []byte, wantDescriptor bool) (*iso7816.FileDescriptor, error) {
	switch kind {
	case iso7816.PathKindDFName:
		return selectByAID(ctx, t, cache, value, wantDescriptor)
	case iso7816.PathKindPath:
		return selectByPath(ctx, t, cache, value, wantDescriptor)
	default:
		return nil, iso7816.ErrInvalidArguments
	}
}

func selectByAID(ctx context.Context, t reader.Transport, cache *iso7816.PathCache, aid []byte, wantDescriptor bool) (*iso7816.FileDescriptor, error) {
	if len(aid) == 0 || len(aid) > 16 {
		return nil, iso7816.ErrInvalidArguments
	}
	if cache.Valid && cache.Path.Kind == iso7816.PathKindDFName && bytes.Equal(cache.Path.Value, aid) {
		if wantDescriptor {
			return dfDescriptor(aid), nil
		}
		return nil, nil
	}

	apdu := buildAPDU(0x00, 0xA4, 0x04, 0x0C, aid, -1)
	_, sw1, _, err := transmit(ctx, t, apdu, false)
	if err != nil {
		return nil, err
	}
	if !isOK(sw1) {
		return nil, fmt.Errorf("starcos: select AID: unexpected SW1 %02X", sw1)
	}

	cache.Set(iso7816.PathKindDFName, aid)
	if wantDescriptor {
		return dfDescriptor(aid), nil
	}
	return nil, nil
}

func dfDescriptor(aid []byte) *iso7816.FileDescriptor {
	fd := iso7816.NewFileDescriptor()
	fd.Type = iso7816.FileTypeDF
	fd.AID = append([]byte(nil), aid...)
	fd.Valid = true
	return fd
}

// selectByPath validates, normalizes and resolves a multi-FID path,
// descending from the longest cached prefix rather than from the MF
// whenever the cache can supply one.
func selectByPath(ctx context.Context, t reader.Transport, cache *iso7816.PathCache, path []byte, wantDescriptor bool) (*iso7816.FileDescriptor, error) {
	if len(path) == 0 || len(path)%2 != 0 || len(path) > 6 {
		return nil, iso7816.ErrInvalidArguments
	}
	if len(path) == 6 && !bytes.Equal(path[:2], mfFID) {
		return nil, iso7816.ErrInvalidArguments
	}

	normalized := path
	if !bytes.Equal(path[:2], mfFID) {
		normalized = append(append([]byte(nil), mfFID...), path...)
	}

	if cache.Valid && cache.Path.Kind == iso7816.PathKindPath {
		bMatch := cache.MatchPrefix(normalized)
		if bMatch >= 0 {
			remaining := len(normalized) - bMatch
			switch {
			case remaining == 0:
				if wantDescriptor {
					return currentDFDescriptor(normalized), nil
				}
				return nil, nil
			case remaining == 2:
				return selectFID(ctx, t, cache, normalized, normalized[bMatch:bMatch+2], wantDescriptor)
			default:
				if _, err := selectFID(ctx, t, cache, normalized[:bMatch+2], normalized[bMatch:bMatch+2], false); err != nil {
					return nil, err
				}
				return selectByPath(ctx, t, cache, normalized, wantDescriptor)
			}
		}
	}

	// Cold path: descend from the MF, one FID pair at a time.
	for i := 0; i+2 < len(normalized); i += 2 {
		if _, err := selectFID(ctx, t, cache, normalized[:i+2], normalized[i:i+2], false); err != nil {
			return nil, err
		}
	}
	last := normalized[len(normalized)-2:]
	return selectFID(ctx, t, cache, normalized, last, wantDescriptor)
}

func currentDFDescriptor(normalized []byte) *iso7816.FileDescriptor {
	fd := iso7816.NewFileDescriptor()
	fd.Type = iso7816.FileTypeDF
	fd.FID = uint16(normalized[len(normalized)-2])<<8 | uint16(normalized[len(normalized)-1])
	fd.Valid = true
	return fd
}

// selectFID selects the single FID fid (the tail of fullPath, which
// has already been resolved up to this point) and distinguishes DF
// from EF using STARCOS's read-binary probe heuristic, updating cache
// on a DF hit.
func selectFID(ctx context.Context, t reader.Transport, cache *iso7816.PathCache, fullPath, fid []byte, wantDescriptor bool) (*iso7816.FileDescriptor, error) {
	p2 := byte(0x00)
	if !wantDescriptor {
		p2 = 0x0C
	}

	// Raw transport call: CheckSW would turn 6284 and 6986 into opaque
	// errors before this function ever got a chance to recognize them,
	// so SW1/SW2 are inspected here before any translation happens.
	apdu := buildAPDU(0x00, 0xA4, 0x00, p2, fid, 0)
	sw1, sw2, resp, err := t.Transmit(ctx, apdu, false)
	if err != nil {
		return nil, err
	}

	if wantDescriptor && sw1 == 0x62 && sw2 == 0x84 {
		// "Data may be corrupted" on an FCI-requesting select of a DF:
		// reissue without requesting FCI.
		apdu = buildAPDU(0x00, 0xA4, 0x00, 0x0C, fid, -1)
		_, sw1, _, err = transmit(ctx, t, apdu, false)
		if err != nil {
			return nil, err
		}
		if !isOK(sw1) {
			return nil, fmt.Errorf("starcos: select FID %X: unexpected SW1 %02X", fid, sw1)
		}
		setCacheForFID(cache, fullPath, fid)
		return currentDFDescriptor(fullPath), nil
	}

	if err := CheckSW(sw1, sw2); err != nil {
		return nil, err
	}
	if !isOK(sw1) {
		return nil, fmt.Errorf("starcos: select FID %X: unexpected SW1 %02X", fid, sw1)
	}

	if wantDescriptor && len(resp) > 0 {
		// One-byte READ BINARY probe: 6986 ("no current EF") means the
		// object we just selected is actually a DF, not an EF.
		probe := buildAPDU(0x00, 0xB0, 0x00, 0x00, nil, 1)
		probeSW1, probeSW2, _, probeErr := t.Transmit(ctx, probe, false)
		if probeErr == nil && probeSW1 == 0x69 && probeSW2 == 0x86 {
			setCacheForFID(cache, fullPath, fid)
			return currentDFDescriptor(fullPath), nil
		}
		fd, err := decodeFCI(resp)
		if err != nil {
			return nil, err
		}
		return fd, nil
	}

	// No FCI requested, or FCI absent: treat as a DF.
	setCacheForFID(cache, fullPath, fid)
	if wantDescriptor {
		return currentDFDescriptor(fullPath), nil
	}
	return nil, nil
}

func setCacheForFID(cache *iso7816.PathCache, fullPath, fid []byte) {
	if bytes.Equal(fid, mfFID) {
		cache.Set(iso7816.PathKindPath, mfFID)
		return
	}
	cache.Set(iso7816.PathKindPath, fullPath)
}
