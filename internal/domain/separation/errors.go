package separation

import "errors"

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidStage       = errors.New("invalid stage")
	ErrNotFound           = errors.New("separation case not found")
	ErrStorageFailure     = errors.New("storage failure")
	ErrPersistenceFailure = errors.New("persistence failure")
	ErrAlreadyTerminal    = errors.New("case already closed")
	ErrInvalidInput       = errors.New("invalid input")

	// ErrCaseExists is returned by repositories when an insert loses the
	// unique employee index to a concurrent writer.
	ErrCaseExists = errors.New("separation case already exists")
)

// IsDomainError reports whether err carries one of the error kinds above.
func IsDomainError(err error) bool {
	for _, k := range []error{
		ErrUnauthorized, ErrInvalidStage, ErrNotFound, ErrStorageFailure,
		ErrPersistenceFailure, ErrAlreadyTerminal, ErrInvalidInput,
	} {
		if errors.Is(err, k) {
			return true
		}
	}
	return false
}
