package iso7816

// createDataTag is returned by the unexported createDataKind marker
// method that turns MFData, DFData and EFData into a closed sum type,
// the same shape CardCtlCmd uses to dispatch proprietary operations
// through a single entry point.
type createDataTag int

const (
	tagMF createDataTag = iota
	tagDF
	tagEF
)

// CreateData is implemented by MFData, DFData and EFData. A driver's
// CreateFile switches on the concrete type to build the matching
// CREATE FILE APDU.
type CreateData interface {
	createDataKind() createDataTag
}

// MFData carries the fields STARCOS needs to build a CREATE MF APDU.
type MFData struct {
	Size int
	ACL  map[ACLOperation]ACLEntry
}

func (MFData) createDataKind() createDataTag { return tagMF }

// DFData carries the fields STARCOS needs to build a CREATE DF APDU.
type DFData struct {
	FID  uint16
	AID  []byte
	Size int
	ACL  map[ACLOperation]ACLEntry
}

func (DFData) createDataKind() createDataTag { return tagDF }

// EFData carries the fields STARCOS needs to build a CREATE EF APDU.
type EFData struct {
	FID          uint16
	Structure    EFStructure
	Size         int
	RecordCount  int
	RecordLength int
	ACL          map[ACLOperation]ACLEntry
}

func (EFData) createDataKind() createDataTag { return tagEF }
