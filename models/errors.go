package models

import "errors"

// Sentinel domain errors. Services return these (optionally wrapped) and
// the handlers translate them to HTTP statuses; nothing below this layer
// knows about status codes.
var (
	ErrNotFound         = errors.New("resource not found")
	ErrConflict         = errors.New("resource already exists")
	ErrReservedUsername = errors.New(`username "me" is reserved`)
	ErrInvalidUsername  = errors.New("username may contain letters, digits and . @ + - _ only")
	ErrInvalidRole      = errors.New("role must be one of user, moderator, admin")
	ErrInvalidSlug      = errors.New("slug may contain latin letters, digits, hyphen and underscore only")
	ErrInvalidYear      = errors.New("year must be between 1 and the current year")
	ErrInvalidScore     = errors.New("score must be an integer between 1 and 10")
	ErrDuplicateReview  = errors.New("only one review per title is allowed")
	ErrInvalidToken     = errors.New("token is invalid or expired")
	ErrIdentityMismatch = errors.New("username does not match the token")
	ErrForbidden        = errors.New("action is not allowed")
	ErrDeliveryFailed   = errors.New("confirmation email could not be delivered")
)
