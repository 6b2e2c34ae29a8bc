package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New generates a ULID string for entity ids (offers, requests, matches,
// notifications). ULIDs sort lexicographically by creation time, which
// keeps created-at GSI queries cheap.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
