package lottery

import "errors"

// Erros de domínio. Determinísticos e não-retryable; política de retry,
// se houver, é responsabilidade da camada que chama o core.
var (
	ErrWindowClosed   = errors.New("betting is closed")
	ErrInvalidNumbers = errors.New("invalid numbers")
	ErrMissingField   = errors.New("missing required field")
	ErrResultNotFound = errors.New("result not found")
)
