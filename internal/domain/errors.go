package domain

import "errors"

var (
	ErrIllegalTransition = errors.New("illegal transition")
	ErrMalformedAddress  = errors.New("malformed slot address")
	ErrIdentityNotFound  = errors.New("identity not found")
	ErrItemNotFound      = errors.New("item not found")
	ErrPersistence       = errors.New("persistence failure")
)
