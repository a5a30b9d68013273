package iso7816

// SecOperation is the security operation a security environment has
// been set up to perform.
type SecOperation int

const (
	SecOpNone SecOperation = iota
	SecOpDecipher
	SecOpSign
	SecOpAuthenticate
)

// AlgorithmFlags packs the padding and hash selections STARCOS encodes
// in the MSE/PSO algorithm reference byte.
type AlgorithmFlags uint32

const (
	AlgFlagRSAPad AlgorithmFlags = 1 << iota
	AlgFlagHashSHA1
	AlgFlagHashMD5
	AlgFlagHashRIPEMD160
)

// SecurityEnv is the card-side state a MANAGE SECURITY ENVIRONMENT /
// PERFORM SECURITY OPERATION exchange establishes and that later
// ComputeSignature/Decipher calls rely on.
type SecurityEnv struct {
	Operation        SecOperation
	Algorithm        int
	AlgorithmFlags   AlgorithmFlags
	KeyRef           []byte
	KeyRefAsymmetric bool
	AlgRef           byte
	AlgRefPresent    bool
	AlgPresent       bool
}

// ExtData is the driver's private per-handle extension slot, created
// by Init and released by Finish. It remembers which security
// operation the last successful SetSecurityEnv established, since
// STARCOS's COMPUTE SIGNATURE/INTERNAL AUTHENTICATE dispatch depends
// on it rather than on anything the card reports back.
type ExtData struct {
	SecOp         SecOperation
	FixDigestInfo AlgorithmFlags
}
