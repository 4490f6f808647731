/*
Package avatarx derives identicon avatar URLs from usernames.

Avatars are a pure function of the username: the same name always yields the
same URL, so the avatar is never stored where the username is already known
and can be rematerialized at read time (chat history replay, rosters).
*/
package avatarx

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

const (
	// BaseURL is the identicon provider endpoint.
	BaseURL = "https://i.pravatar.cc"

	// Size is the requested avatar edge length in pixels.
	Size = 150
)

// URL returns the deterministic avatar URL for the given username.
// The username is hashed so that display names never leak into image requests.
func URL(username string) string {
	sum := sha256.Sum256([]byte(username))
	seed := hex.EncodeToString(sum[:8])

	return fmt.Sprintf("%s/%d?u=%s", BaseURL, Size, seed)
}
