package common

import (
	"errors"

	"giglend/crypto"
)

var ErrNotAuthorized = errors.New("caller not authorised for subject identity")

// Authorizer asserts that an already-authenticated caller may act as the
// claimed subject identity. Signature verification happens outside the core;
// engines only require that the two identities agree.
type Authorizer interface {
	RequireAuth(caller, subject crypto.Address) error
}

// IdentityAuthorizer is the default policy: the caller must be the subject.
type IdentityAuthorizer struct{}

func (IdentityAuthorizer) RequireAuth(caller, subject crypto.Address) error {
	if !caller.Equal(subject) {
		return ErrNotAuthorized
	}
	return nil
}
