package iso7816

import "fmt"

// digestInfoPrefix holds the DER-encoded DigestInfo AlgorithmIdentifier
// prefixes for the hashes the driver can wrap before an INTERNAL
// AUTHENTICATE, where the card is not told which hash produced the
// digest it is given. Values match RFC 8017 appendix B.1.
var digestInfoPrefix = map[AlgorithmFlags][]byte{
	AlgFlagHashSHA1: {
		0x30, 0x21, 0x30, 0x09, 0x06, 0x05, 0x2b, 0x0e, 0x03, 0x02, 0x1a,
		0x05, 0x00, 0x04, 0x14,
	},
	AlgFlagHashMD5: {
		0x30, 0x20, 0x30, 0x0c, 0x06, 0x08, 0x2a, 0x86, 0x48, 0x86, 0xf7,
		0x0d, 0x02, 0x05, 0x05, 0x00, 0x04, 0x10,
	},
	AlgFlagHashRIPEMD160: {
		0x30, 0x21, 0x30, 0x09, 0x06, 0x05, 0x2b, 0x24, 0x03, 0x02, 0x01,
		0x05, 0x00, 0x04, 0x14,
	},
}

var digestInfoLen = map[AlgorithmFlags]int{
	AlgFlagHashSHA1:      20,
	AlgFlagHashMD5:       16,
	AlgFlagHashRIPEMD160: 20,
}

// PrependDigestInfo wraps a raw hash value in its PKCS#1 v1.5
// DigestInfo encoding. STARCOS's set_security_env first tries to
// install COMPUTE SIGNATURE, which lets the card add this prefix
// itself; when that attempt fails and it falls back to INTERNAL
// AUTHENTICATE, ComputeSignature prepends the prefix before sending
// the digest to the card.
//
// This is implemented directly against RFC 8017 rather than a
// third-party ASN.1 library: the encoding is three fixed byte strings
// keyed by hash algorithm, there is no parsing involved, and no
// library in this codebase's dependency graph exists for the sole
// purpose of emitting a DigestInfo prefix.
func PrependDigestInfo(flag AlgorithmFlags, hash []byte) ([]byte, error) {
	prefix, ok := digestInfoPrefix[flag]
	if !ok {
		return nil, fmt.Errorf("iso7816: no DigestInfo prefix for algorithm flag %d", flag)
	}
	if want := digestInfoLen[flag]; len(hash) != want {
		return nil, fmt.Errorf("iso7816: hash length %d does not match expected %d for flag %d", len(hash), want, flag)
	}
	out := make([]byte, 0, len(prefix)+len(hash))
	out = append(out, prefix...)
	out = append(out, hash...)
	return out, nil
}
