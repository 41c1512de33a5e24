// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

// PasswordHasher defines the interface for password hashing and verification.
type PasswordHasher interface {
	// Hash generates a salted digest from a plaintext password.
	Hash(password string) (string, error)

	// Check compares a plaintext password with a digest. A mismatch is (false, nil);
	// a malformed digest is reported as an error.
	Check(password, hash string) (bool, error)
}

// PasswordPolicy validates a candidate password before it is hashed.
type PasswordPolicy interface {
	Validate(password string) error
}
