package types

// SchemeDescriptor names a versioned cryptographic scheme in an encrypted snapshot.
type SchemeDescriptor struct {
	Version     int    `json:"version"`
	Description string `json:"description"`
}

// EncryptedSnapshot is the password-protected export envelope.
type EncryptedSnapshot struct {
	Version             int              `json:"version"`
	KeyDerivationScheme SchemeDescriptor `json:"keyDerivationScheme"`
	EncryptionScheme    SchemeDescriptor `json:"encryptionScheme"`
	// EncryptedSnapshot is hex(nonce || ciphertext || tag).
	EncryptedSnapshot string `json:"encryptedSnapshot"`
}
