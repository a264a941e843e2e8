package service

// PasswordService hashes and checks passwords. Implementations must never log
// plaintext passwords.
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(password, storedHash string) bool
}
