package pkg

import (
	"crypto/rand"
	"fmt"
)

const idAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// UniqueStringLength gives roughly 10^32 possible ids, enough that games,
// snipes and pictures can share one generator without coordination.
const UniqueStringLength = 18

// maxUnbiasedByte is the largest multiple of the alphabet size that fits
// in a byte; random bytes at or above it are rejected so that every
// alphabet character is equally likely.
const maxUnbiasedByte = byte(256 / len(idAlphabet) * len(idAlphabet))

// GenerateUniqueString - returns a new collision-resistant id.
func GenerateUniqueString() string {
	id := make([]byte, 0, UniqueStringLength)
	buf := make([]byte, UniqueStringLength)

	for len(id) < UniqueStringLength {
		if _, err := rand.Read(buf); err != nil {
			panic(fmt.Errorf("failed to read random bytes: %w", err))
		}

		for _, b := range buf {
			if b >= maxUnbiasedByte {
				continue
			}

			id = append(id, idAlphabet[int(b)%len(idAlphabet)])
			if len(id) == UniqueStringLength {
				break
			}
		}
	}

	return string(id)
}

// IsValidUniqueString - reports whether s could have been produced by
// GenerateUniqueString.
func IsValidUniqueString(s string) bool {
	if len(s) != UniqueStringLength {
		return false
	}

	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		default:
			return false
		}
	}

	return true
}
