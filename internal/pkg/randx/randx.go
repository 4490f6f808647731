/*
Package randx provides functions for generating cryptographically secure random identifiers.

It produces UUID-based connection and message ids, and short Base62 suffixes
used for object storage keys.
*/
package randx

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

const (
	// Base62Chars defines the character set used for Base62 encoding (0-9, A-Z, a-z).
	Base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// Base62Len is the total number of characters in the Base62 character set (62).
	Base62Len = int64(len(Base62Chars))

	// KeySuffixLength is the fixed length of generated object key suffixes.
	KeySuffixLength = 8
)

// ConnectionID generates a UUID v4 string used as an ephemeral connection identifier.
func ConnectionID() string {
	return uuid.New().String()
}

// MessageID generates a UUID v4 string used as a unique message identifier.
func MessageID() string {
	return uuid.New().String()
}

// KeySuffix generates a Base62 suffix of KeySuffixLength characters using crypto/rand.
// It is used to de-duplicate object storage keys for uploaded profile photos.
func KeySuffix() (string, error) {
	result := make([]byte, KeySuffixLength)

	for i := 0; i < KeySuffixLength; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(Base62Len))
		if err != nil {
			return "", fmt.Errorf("failed to generate random number for key suffix: %v", err)
		}

		result[i] = Base62Chars[num.Int64()]
	}

	return string(result), nil
}
