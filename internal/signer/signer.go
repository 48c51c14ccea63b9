// Package signer creates and checks OpenPGP signatures of written dumps.
package signer

// SignatureSuffix is appended to a file name to get its detached signature
const SignatureSuffix = ".asc"

// Signer interface for signing dumps
type Signer interface {
	// SignDetached creates an armored detached signature
	SignDetached(data []byte) ([]byte, error)

	// GetPublicKey returns the public key
	GetPublicKey() ([]byte, error)
}

// Verifier interface for checking signatures of input dumps
type Verifier interface {
	// VerifyDetached checks an armored detached signature of data
	VerifyDetached(data, signature []byte) error
}
