package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateUniqueString(t *testing.T) {
	t.Run("Generated ids are valid and of fixed length", func(t *testing.T) {
		// Given: a batch of freshly generated ids
		for range 100 {
			id := GenerateUniqueString()

			// Then: every id validates and has the expected length
			require.Len(t, id, UniqueStringLength)
			assert.True(t, IsValidUniqueString(id))
		}
	})

	t.Run("Alphabet characters are drawn uniformly", func(t *testing.T) {
		// Given: character counts over a large batch of ids
		counts := make(map[byte]int)
		const batch = 20000
		for range batch {
			for _, c := range []byte(GenerateUniqueString()) {
				counts[c]++
			}
		}

		// Then: every alphabet character appears close to its expected
		// share. Folding raw bytes with a plain modulo would skew the
		// first 256%62 characters by 25%, far outside this tolerance.
		expected := float64(batch*UniqueStringLength) / float64(len(idAlphabet))
		require.Len(t, counts, len(idAlphabet))
		for c, count := range counts {
			assert.InDelta(t, expected, count, expected*0.10, "character %q", c)
		}
	})

	t.Run("Generated ids do not collide in a small sample", func(t *testing.T) {
		// Given: a set of generated ids
		seen := make(map[string]struct{})

		// When: generating many ids
		for range 1000 {
			seen[GenerateUniqueString()] = struct{}{}
		}

		// Then: all of them are distinct
		assert.Len(t, seen, 1000)
	})
}

func TestIsValidUniqueString(t *testing.T) {
	t.Run("Rejects wrong length", func(t *testing.T) {
		assert.False(t, IsValidUniqueString(""))
		assert.False(t, IsValidUniqueString("abc"))
		assert.False(t, IsValidUniqueString("aaaaaaaaaaaaaaaaaaa")) // 19 chars
	})

	t.Run("Rejects non-alphanumeric characters", func(t *testing.T) {
		assert.False(t, IsValidUniqueString("aaaaaaaa-aaaaaaaaa"))
		assert.False(t, IsValidUniqueString("aaaaaaaa aaaaaaaaa"))
	})

	t.Run("Accepts alphanumeric string of the right length", func(t *testing.T) {
		assert.True(t, IsValidUniqueString("a1B2c3D4e5F6g7H8i9"))
	})
}
