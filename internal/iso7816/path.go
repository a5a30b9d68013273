package iso7816

// PathKind discriminates the two forms a selectable path can take.
type PathKind int

const (
	PathKindPath PathKind = iota
	PathKindDFName
)

// Path is either a DF name (AID, 1-16 bytes) or a sequence of FIDs
// (always starting with the MF FID 3F 00 once normalized).
type Path struct {
	Kind  PathKind
	Value []byte
}

// PathCache shadows the DF currently selected on the card. Valid is
// false whenever the driver can no longer vouch for that assumption
// (e.g. right after EraseCard).
type PathCache struct {
	Path  Path
	Valid bool
}

func (c *PathCache) Invalidate() {
	c.Valid = false
}

func (c *PathCache) Set(kind PathKind, value []byte) {
	buf := make([]byte, len(value))
	copy(buf, value)
	c.Path = Path{Kind: kind, Value: buf}
	c.Valid = true
}

// MatchPrefix returns the number of leading bytes (in 2-byte steps)
// that agree between the cached PATH-kind value and path. It is -1 if
// the cache does not hold a usable PATH-kind prefix for path.
func (c *PathCache) MatchPrefix(path []byte) int {
	if !c.Valid || c.Path.Kind != PathKindPath {
		return -1
	}
	cached := c.Path.Value
	if len(cached) < 2 || len(cached) > len(path) {
		return -1
	}
	match := 0
	for i := 0; i < len(cached); i += 2 {
		if cached[i] == path[i] && cached[i+1] == path[i+1] {
			match += 2
		} else {
			break
		}
	}
	return match
}
