package hashtable

import (
	"fmt"
	"testing"

	"github.com/evidencebp/garage/pkg/view"
)

func benchKeys(n int) []view.RO {
	keys := make([]view.RO, n)
	for i := range keys {
		keys[i] = view.RO(fmt.Sprintf("stream-%d/recv", i))
	}
	return keys
}

func BenchmarkPut(b *testing.B) {
	keys := benchKeys(1 << 16)
	tbl, _ := New(XXHash, RecommendedBucketCount(len(keys)))
	val := view.RW("deadline")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tbl.Put(keys[i&(len(keys)-1)], val)
	}
}

func BenchmarkGetHit(b *testing.B) {
	keys := benchKeys(1 << 16)
	tbl, _ := New(XXHash, RecommendedBucketCount(len(keys)))
	for _, k := range keys {
		tbl.Put(k, view.RW("deadline"))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if v := tbl.Get(keys[i&(len(keys)-1)]); v == nil {
			b.Fatal("unexpected miss")
		}
	}
}

func BenchmarkGetMiss(b *testing.B) {
	keys := benchKeys(1 << 16)
	tbl, _ := New(XXHash, RecommendedBucketCount(len(keys)))
	for _, k := range keys {
		tbl.Put(k, view.RW("deadline"))
	}
	miss := view.RO("stream-none/none")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tbl.Get(miss)
	}
}

func BenchmarkPutPop(b *testing.B) {
	keys := benchKeys(1 << 10)
	tbl, _ := New(XXH3, RecommendedBucketCount(len(keys)))
	val := view.RW("deadline")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		k := keys[i&(len(keys)-1)]
		tbl.Put(k, val)
		tbl.Pop(k)
	}
}

func BenchmarkHashFuncs(b *testing.B) {
	key := view.RO("stream-123456/settings")
	b.Run("xxhash", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			XXHash(key)
		}
	})
	b.Run("xxh3", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			XXH3(key)
		}
	})
}
