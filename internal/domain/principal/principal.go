// Package principal resolves the bearer credential on an admin request
// into a store.Principal. The admin authorization placeholder (§9) returns
// true for all authenticated principals; this package implements the
// production form the spec asks for without guessing at claim fields: a
// principal is admin iff its credential verifies against one of a
// configured list of argon2id-hashed admin credentials. This is the
// decision recorded for the spec's open question — see DESIGN.md.
package principal

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/alexedwards/argon2id"

	"github.com/solawi-gate/listgate/internal/domain/store"
)

// ErrInvalidCredential is returned by Resolve for an empty credential.
var ErrInvalidCredential = errors.New("principal: invalid credential")

// ErrUnknownHashType is returned when a configured hash has an
// unrecognized format.
var ErrUnknownHashType = errors.New("principal: unknown hash type")

// Resolver checks bearer credentials against a configured set of
// argon2id-hashed admin credentials.
type Resolver struct {
	adminHashes []string
}

// NewResolver builds a Resolver from the configured admin credential
// hashes (ADMIN_CREDENTIAL_HASHES, PHC-format argon2id strings).
func NewResolver(adminHashes []string) *Resolver {
	return &Resolver{adminHashes: adminHashes}
}

// Resolve turns a raw bearer credential into a store.Principal. A
// credential that matches none of the configured admin hashes still
// resolves (non-admin); ErrInvalidCredential is only returned for an
// empty credential, since the hook path accepts unauthenticated callers
// while admin operations separately check IsAdmin.
func (r *Resolver) Resolve(ctx context.Context, rawCredential string) (store.Principal, error) {
	if rawCredential == "" {
		return store.Principal{}, ErrInvalidCredential
	}
	for _, hash := range r.adminHashes {
		match, err := verify(rawCredential, hash)
		if err != nil {
			continue
		}
		if match {
			return store.Principal{Credential: redactedCredential(rawCredential), IsAdmin: true}, nil
		}
	}
	return store.Principal{Credential: redactedCredential(rawCredential), IsAdmin: false}, nil
}

// HashCredential returns an argon2id PHC-format hash of rawCredential,
// suitable for storing in ADMIN_CREDENTIAL_HASHES. Used by the
// hash-key CLI command.
func HashCredential(rawCredential string) (string, error) {
	return argon2id.CreateHash(rawCredential, argon2idParams)
}

// argon2idParams sits just above the OWASP minimum (46 MiB): 47 MiB
// memory, 1 iteration, 1 degree of parallelism.
var argon2idParams = &argon2id.Params{
	Memory:      46 * 1024,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

func verify(rawCredential, storedHash string) (match bool, err error) {
	if !strings.HasPrefix(storedHash, "$argon2id$") {
		return false, ErrUnknownHashType
	}
	defer func() {
		if rec := recover(); rec != nil {
			match = false
			err = fmt.Errorf("principal: invalid argon2id hash parameters: %v", rec)
		}
	}()
	return argon2id.ComparePasswordAndHash(rawCredential, storedHash)
}

// redactedCredential never keeps the raw bearer credential around; it
// stores a short hash prefix purely for correlating log lines.
func redactedCredential(rawCredential string) string {
	sum := sha256.Sum256([]byte(rawCredential))
	digest := hex.EncodeToString(sum[:8])
	return "cred-" + digest
}
