package auth

import (
	"crypto/md5"
	"fmt"
	"strings"
)

// GravatarURL derives a user's avatar URL from their email address.
//
// Gravatar's scheme: md5 of the trimmed, lowercased email, interpolated
// into a fixed URL. Same email in → same URL out, every time, with no
// network dependency; the image is only fetched when a browser renders it.
//
// Query parameters: s=200 (size), r=pg (rating), d=mm ("mystery man"
// placeholder when the email has no registered Gravatar).
//
// md5 is fine here. This is an identifier derivation, not a security
// boundary; it's the hash Gravatar's protocol specifies.
func GravatarURL(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	hash := md5.Sum([]byte(normalized))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=200&r=pg&d=mm", hash)
}
