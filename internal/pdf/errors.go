package pdf

import (
	"errors"
	"strings"
)

var (
	// ErrDecryption is matched by every DecryptionError
	ErrDecryption = errors.New("pdf decryption failed")

	// ErrPostcondition means the rewritten document is still encrypted or
	// lost pages
	ErrPostcondition = errors.New("normalized pdf failed verification")
)

// DecryptionError reports that the supplied password did not unlock an
// encrypted document.
type DecryptionError struct {
	Err error
}

func (e *DecryptionError) Error() string {
	return "pdf decryption failed: wrong password: " + e.Err.Error()
}

func (e *DecryptionError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrDecryption) hold for any DecryptionError
func (e *DecryptionError) Is(target error) bool {
	return target == ErrDecryption
}

// isPasswordError detects pdfcpu's password rejection, which is reported
// as a plain error value rather than an exported sentinel.
func isPasswordError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "password")
}
