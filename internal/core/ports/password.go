package ports

// PasswordHasher hides the hashing algorithm from the auth core.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}
