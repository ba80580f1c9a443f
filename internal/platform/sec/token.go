// Copyright (c) 2026 Triibes. All rights reserved.

package sec

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// accessTokenBytes is the entropy of a reader capability token.
// 32 random bytes (256 bits) make collisions and guessing negligible;
// the invitation table still carries a uniqueness constraint as
// defense in depth.
const accessTokenBytes = 32

// NewAccessToken mints an opaque capability token for a beta-reader
// invitation: a fixed-length (64 character) lowercase hexadecimal string.
//
// The token is a pure lookup key. It never encodes invitation data, so a
// leaked token reveals nothing beyond the access it grants.
func NewAccessToken() (string, error) {
	buf := make([]byte, accessTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("sec: failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
