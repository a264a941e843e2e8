package service

// TokenGenerator produces opaque bearer tokens of an exact length.
type TokenGenerator interface {
	Generate(length int) (string, error)
}
