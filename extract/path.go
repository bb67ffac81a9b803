package extract

import (
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/surtarso/vpxinfo/errors"
)

// ValidatePath converts caller-supplied path bytes into a validated path
// string. A nil slice reports null input; bytes must be valid UTF-8.
// No file access happens here or after a failure.
func ValidatePath(b []byte) (string, error) {
	if b == nil {
		err := errors.NullInput()
		Logger().Error("path validation failed", zap.Error(err))
		return "", err
	}
	if !utf8.Valid(b) {
		err := errors.InvalidUTF8("path bytes are not valid UTF-8")
		Logger().Error("path validation failed", zap.Error(err))
		return "", err
	}
	return string(b), nil
}
