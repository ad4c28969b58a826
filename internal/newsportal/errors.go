package newsportal

import (
	"fmt"

	platformerrors "github.com/jmgilman/go/errors"
)

var (
	// ErrUnknownCategory is returned for labels outside the taxonomy.
	ErrUnknownCategory = platformerrors.New(platformerrors.CodeInvalidInput, "unknown category")
	// ErrInvalidArticle is returned for mutation payloads missing required fields.
	ErrInvalidArticle = platformerrors.New(platformerrors.CodeInvalidInput, "invalid article")
)

// FormatError classifies a response whose shape does not match the expected
// one. It is permanent: retrying cannot fix the body.
func FormatError(err error, format string, args ...any) error {
	if err == nil {
		return platformerrors.Newf(platformerrors.CodeSchemaFailed, format, args...)
	}

	return platformerrors.Wrap(err, platformerrors.CodeSchemaFailed, fmt.Sprintf(format, args...))
}

func IsFormatError(err error) bool {
	return platformerrors.GetCode(err) == platformerrors.CodeSchemaFailed
}
