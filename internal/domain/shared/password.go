package shared

// PasswordHasher hashes and verifies account passwords.
// Implemented in infrastructure with bcrypt.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare returns nil when password matches hash
	Compare(hash, password string) error
}
