package dialogue

import "errors"

// Error kinds. Every failure returned by this package wraps exactly one of these.
var (
	ErrInputParse    = errors.New("input parse error")
	ErrConfig        = errors.New("config error")
	ErrTransport     = errors.New("transport error")
	ErrResponseParse = errors.New("response parse error")
)
