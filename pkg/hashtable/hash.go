package hashtable

import (
	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/xxh3"

	"github.com/evidencebp/garage/pkg/view"
)

// XXHash is the default hash strategy, xxHash64 over the key bytes.
func XXHash(key view.RO) uint64 {
	return xxhash.Sum64(key)
}

// XXH3 hashes with xxh3, which tends to be faster on short keys.
func XXH3(key view.RO) uint64 {
	return xxh3.Hash(key)
}

// targetLoadFactor is the expected chain length RecommendedBucketCount
// sizes for.
const targetLoadFactor = 0.75

// RecommendedBucketCount maps an expected peak entry count to a bucket
// count that keeps the expected chain length at or below
// targetLoadFactor. The table never resizes, so size for the peak. The
// result is always at least 1.
func RecommendedBucketCount(expectedEntries int) int {
	if expectedEntries < 1 {
		return 1
	}
	return int(float64(expectedEntries)/targetLoadFactor) + 1
}
