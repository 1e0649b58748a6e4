package vo

import "errors"

var (
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInvalidIDRequest      = errors.New("invalid id request")
	ErrIDRejected            = errors.New("id rejected by constraint")
	ErrIDUnavailable         = errors.New("id generation unavailable")
	ErrIDNotParsable         = errors.New("id not parsable")
	ErrInvalidConstraintSpec = errors.New("invalid constraint spec")
	ErrConstraintSetExists   = errors.New("constraint set already registered")
)
