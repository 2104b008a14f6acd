package errs

import "errors"

var InvalidToken = errors.New("invalid token")

var (
	InternalError   = errors.New("internal error")
	GeneratingToken = errors.New("error generating token")
)
