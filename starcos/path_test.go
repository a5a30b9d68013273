package starcos

import (
	"context"
	"testing"

	"starcos/internal/iso7816"
)

var mfSelectNoFCI = buildAPDU(0x00, 0xA4, 0x00, 0x0C, mfFID, 0)

func TestSelectFileByAID(t *testing.T) {
	aid := []byte{0xA0, 0x00, 0x00, 0x01, 0x02}
	tr := &scriptedTransport{t: t, steps: []step{
		{want: buildAPDU(0x00, 0xA4, 0x04, 0x0C, aid, -1), sw1: 0x90, sw2: 0x00},
	}}
	var cache iso7816.PathCache

	fd, err := SelectFile(context.Background(), tr, &cache, iso7816.PathKindDFName, aid, true)
	if err != nil {
		t.Fatalf("SelectFile error: %v", err)
	}
	if fd.Type != iso7816.FileTypeDF {
		t.Errorf("Type = %v, want DF", fd.Type)
	}
	if !tr.done() {
		t.Error("not all scripted exchanges were consumed")
	}
	if !cache.Valid || cache.Path.Kind != iso7816.PathKindDFName {
		t.Error("cache should hold a DF_NAME entry after a successful AID select")
	}

	// A second select of the same AID should be satisfied entirely from
	// cache, issuing no further APDU.
	tr2 := &scriptedTransport{t: t}
	fd2, err := SelectFile(context.Background(), tr2, &cache, iso7816.PathKindDFName, aid, true)
	if err != nil {
		t.Fatalf("cached SelectFile error: %v", err)
	}
	if fd2.Type != iso7816.FileTypeDF {
		t.Errorf("cached Type = %v, want DF", fd2.Type)
	}
}

func TestSelectFileByPathUnderMF(t *testing.T) {
	// Selecting {5015, 1234} from a cold cache descends MF -> 5015 -> 1234;
	// the cold-path loop always reissues a no-FCI SELECT of the MF first,
	// and any FCI-bearing SELECT is followed by a disambiguating
	// read-binary probe before the FCI is trusted.
	dfFID := []byte{0x50, 0x15}
	efFID := []byte{0x12, 0x34}
	fciBody := []byte{0x6F, 0x07, 0x80, 0x02, 0x00, 0x10, 0x82, 0x01, 0x01}

	tr := &scriptedTransport{t: t, steps: []step{
		{want: mfSelectNoFCI, sw1: 0x90, sw2: 0x00},
		{want: buildAPDU(0x00, 0xA4, 0x00, 0x0C, dfFID, 0), sw1: 0x90, sw2: 0x00},
		{want: buildAPDU(0x00, 0xA4, 0x00, 0x00, efFID, 0), sw1: 0x90, sw2: 0x00, resp: fciBody},
		{want: buildAPDU(0x00, 0xB0, 0x00, 0x00, nil, 1), sw1: 0x90, sw2: 0x00},
	}}
	var cache iso7816.PathCache

	fd, err := SelectFile(context.Background(), tr, &cache, iso7816.PathKindPath, append(append([]byte{}, dfFID...), efFID...), true)
	if err != nil {
		t.Fatalf("SelectFile error: %v", err)
	}
	if fd.Size != 0x0010 {
		t.Errorf("Size = %d, want 16", fd.Size)
	}
	if !tr.done() {
		t.Errorf("script left %d exchanges unconsumed", len(tr.steps)-tr.idx)
	}
}

func TestSelectFileByPathCachePrefixReuse(t *testing.T) {
	dfFID := []byte{0x50, 0x15}
	efFID := []byte{0x12, 0x34}
	var cache iso7816.PathCache
	cache.Set(iso7816.PathKindPath, append([]byte{0x3F, 0x00}, dfFID...))

	// The DF is already selected per the cache, so only the EF needs a
	// fresh SELECT; an empty response means no probe is needed either.
	tr := &scriptedTransport{t: t, steps: []step{
		{want: buildAPDU(0x00, 0xA4, 0x00, 0x00, efFID, 0), sw1: 0x90, sw2: 0x00, resp: nil},
	}}

	_, err := SelectFile(context.Background(), tr, &cache, iso7816.PathKindPath,
		append(append([]byte{0x3F, 0x00}, dfFID...), efFID...), true)
	if err != nil {
		t.Fatalf("SelectFile error: %v", err)
	}
	if !tr.done() {
		t.Errorf("script left %d exchanges unconsumed; cache prefix reuse failed", len(tr.steps)-tr.idx)
	}
}

func TestSelectFileDFDetectedByReadBinaryProbe(t *testing.T) {
	fid := []byte{0x50, 0x15}
	tr := &scriptedTransport{t: t, steps: []step{
		{want: mfSelectNoFCI, sw1: 0x90, sw2: 0x00},
		{want: buildAPDU(0x00, 0xA4, 0x00, 0x00, fid, 0), sw1: 0x90, sw2: 0x00, resp: []byte{0x01}},
		{want: buildAPDU(0x00, 0xB0, 0x00, 0x00, nil, 1), sw1: 0x69, sw2: 0x86},
	}}
	var cache iso7816.PathCache

	fd, err := SelectFile(context.Background(), tr, &cache, iso7816.PathKindPath,
		append([]byte{0x3F, 0x00}, fid...), true)
	if err != nil {
		t.Fatalf("SelectFile error: %v", err)
	}
	if fd.Type != iso7816.FileTypeDF {
		t.Errorf("Type = %v, want DF (detected via read-binary probe)", fd.Type)
	}
	if !tr.done() {
		t.Errorf("script left %d exchanges unconsumed", len(tr.steps)-tr.idx)
	}
}

func TestSelectFileDFDetectedByCorruptFCIReissue(t *testing.T) {
	// The card answers an FCI-requesting select of a DF with 6284
	// ("data may be corrupted"); the driver must reissue the select
	// without FCI and report a DF, not surface 6284 as an error.
	fid := []byte{0x50, 0x15}
	tr := &scriptedTransport{t: t, steps: []step{
		{want: mfSelectNoFCI, sw1: 0x90, sw2: 0x00},
		{want: buildAPDU(0x00, 0xA4, 0x00, 0x00, fid, 0), sw1: 0x62, sw2: 0x84},
		{want: buildAPDU(0x00, 0xA4, 0x00, 0x0C, fid, -1), sw1: 0x90, sw2: 0x00},
	}}
	var cache iso7816.PathCache

	fd, err := SelectFile(context.Background(), tr, &cache, iso7816.PathKindPath,
		append([]byte{0x3F, 0x00}, fid...), true)
	if err != nil {
		t.Fatalf("SelectFile error: %v", err)
	}
	if fd.Type != iso7816.FileTypeDF {
		t.Errorf("Type = %v, want DF (detected via 6284 reissue)", fd.Type)
	}
	if !tr.done() {
		t.Errorf("script left %d exchanges unconsumed", len(tr.steps)-tr.idx)
	}
}

func TestSelectFileRejectsOddLengthPath(t *testing.T) {
	var cache iso7816.PathCache
	_, err := SelectFile(context.Background(), &scriptedTransport{t: t}, &cache, iso7816.PathKindPath, []byte{0x3F}, false)
	if err == nil {
		t.Error("SelectFile should reject an odd-length path")
	}
}

func TestSelectFileRejectsOversizedPath(t *testing.T) {
	var cache iso7816.PathCache
	path := []byte{0x3F, 0x00, 0x50, 0x15, 0x12, 0x34, 0x56, 0x78}
	_, err := SelectFile(context.Background(), &scriptedTransport{t: t}, &cache, iso7816.PathKindPath, path, false)
	if err == nil {
		t.Error("SelectFile should reject a path longer than 6 bytes")
	}
}
