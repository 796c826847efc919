package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	require.NoError(t, err)
	assert.Equal(t, val, got)
	exists, err := kv.Has(key)
	require.NoError(t, err)
	assert.Equal(t, has, exists)
}

// TestCacheGetSet does basic sanity checks on our cache
func TestCacheGetSet(t *testing.T) {
	base := MemStore()

	// make sure the btree is empty at start but returns results
	// that are written to it
	k, v := []byte("french"), []byte("fry")
	assertGetHas(t, base, k, nil, false)
	require.NoError(t, base.Set(k, v))
	assertGetHas(t, base, k, v, true)

	// now layer another btree on top and make sure that we get
	// base data
	cache := base.CacheWrap()
	assertGetHas(t, cache, k, v, true)

	// writing more data is only visible in the cache
	k2, v2 := []byte("LA"), []byte("Dodgers")
	assertGetHas(t, cache, k2, nil, false)
	require.NoError(t, cache.Set(k2, v2))
	assertGetHas(t, cache, k2, v2, true)
	assertGetHas(t, base, k2, nil, false)

	// we can write the cache to the base layer...
	require.NoError(t, cache.Write())
	assertGetHas(t, base, k, v, true)
	assertGetHas(t, base, k2, v2, true)

	// we can discard one
	k3, v3 := []byte("Bayern"), []byte("Munich")
	c2 := base.CacheWrap()
	require.NoError(t, c2.Set(k3, v3))
	c2.Discard()
	assertGetHas(t, base, k3, nil, false)

	// and delete through another
	c3 := base.CacheWrap()
	require.NoError(t, c3.Delete(k))
	assertGetHas(t, c3, k, nil, false)
	assertGetHas(t, base, k, v, true)
	require.NoError(t, c3.Write())
	assertGetHas(t, base, k, nil, false)
}

func TestCacheIterator(t *testing.T) {
	base := MemStore()
	for _, k := range []string{"a", "b", "c", "d"} {
		require.NoError(t, base.Set([]byte(k), []byte("base-"+k)))
	}

	cache := base.CacheWrap()
	require.NoError(t, cache.Set([]byte("b"), []byte("cache-b")))
	require.NoError(t, cache.Delete([]byte("c")))
	require.NoError(t, cache.Set([]byte("bb"), []byte("cache-bb")))
	require.NoError(t, cache.Set([]byte("e"), []byte("cache-e")))

	cases := map[string]struct {
		start, end []byte
		reverse    bool
		want       []Model
	}{
		"full range": {
			want: []Model{
				{Key: []byte("a"), Value: []byte("base-a")},
				{Key: []byte("b"), Value: []byte("cache-b")},
				{Key: []byte("bb"), Value: []byte("cache-bb")},
				{Key: []byte("d"), Value: []byte("base-d")},
				{Key: []byte("e"), Value: []byte("cache-e")},
			},
		},
		"bounded range, end exclusive": {
			start: []byte("b"),
			end:   []byte("d"),
			want: []Model{
				{Key: []byte("b"), Value: []byte("cache-b")},
				{Key: []byte("bb"), Value: []byte("cache-bb")},
			},
		},
		"open start": {
			end: []byte("b"),
			want: []Model{
				{Key: []byte("a"), Value: []byte("base-a")},
			},
		},
		"reverse open end": {
			start:   []byte("d"),
			reverse: true,
			want: []Model{
				{Key: []byte("e"), Value: []byte("cache-e")},
				{Key: []byte("d"), Value: []byte("base-d")},
			},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var (
				it  Iterator
				err error
			)
			if tc.reverse {
				it, err = cache.ReverseIterator(tc.start, tc.end)
			} else {
				it, err = cache.Iterator(tc.start, tc.end)
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, ReadAll(it))
		})
	}
}

func TestLogableStore(t *testing.T) {
	kv, log := LogableStore()
	cache := kv.CacheWrap()
	require.NoError(t, cache.Set([]byte("owner"), []byte{1}))
	require.NoError(t, cache.Delete([]byte("admins")))

	// Nothing reaches the lower layer until the cache is written.
	assert.Empty(t, log.ShowOps())
	require.NoError(t, cache.Write())

	ops := log.ShowOps()
	require.Len(t, ops, 2)
	assert.True(t, ops[0].IsSetOp())
	assert.Equal(t, []byte("owner"), ops[0].Key())
	assert.Equal(t, []byte{1}, ops[0].Value())
	assert.False(t, ops[1].IsSetOp())
	assert.Equal(t, []byte("admins"), ops[1].Key())
}

func TestSliceIteratorPanicsPastEnd(t *testing.T) {
	it := NewSliceIterator([]Model{{Key: []byte("k"), Value: []byte("v")}})
	assert.True(t, it.Valid())
	it.Next()
	assert.False(t, it.Valid())
	assert.Panics(t, func() { it.Key() })
}

func TestDiscardDropsBufferedWrites(t *testing.T) {
	kv, log := LogableStore()
	cache := kv.CacheWrap()
	require.NoError(t, cache.Set([]byte("owner"), []byte{1}))
	cache.Discard()

	// A write after discard must not flush anything buffered before.
	require.NoError(t, cache.Write())
	assertGetHas(t, kv, []byte("owner"), nil, false)
	assert.Empty(t, log.ShowOps())
}

func TestMemStoreRootRecordsNothing(t *testing.T) {
	db := MemStore()
	root, ok := db.(BTreeCacheWrap)
	require.True(t, ok)
	assert.Equal(t, discardBatch{}, root.batch)

	for i := 0; i < 100; i++ {
		require.NoError(t, db.Set([]byte{byte(i)}, []byte("value")))
	}
	require.NoError(t, db.Delete([]byte{0}))
	assert.Equal(t, discardBatch{}, root.batch)

	// writes flushed from a nested cache land in the root btree only
	cache := db.CacheWrap()
	require.NoError(t, cache.Set([]byte("key"), []byte("value")))
	require.NoError(t, cache.Write())
	assertGetHas(t, db, []byte("key"), []byte("value"), true)
	assertGetHas(t, db, []byte{0}, nil, false)
	assertGetHas(t, db, []byte{1}, []byte("value"), true)
}
