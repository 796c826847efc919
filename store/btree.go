package store

import (
	"bytes"

	"github.com/google/btree"

	"github.com/iov-one/authtoken/errors"
)

// btreeDegree is small because a cache wrap rarely holds more than a handful
// of writes.
const btreeDegree = 2

// MemStore returns a store that keeps everything in memory. Nothing is
// persisted and the root layer records no operations.
func MemStore() CacheableKVStore {
	var base EmptyKVStore
	return NewBTreeCacheWrap(base, base.NewBatch(), nil)
}

// LogableStore returns an in-memory store together with the batch that
// records every operation reaching the bottom layer.
func LogableStore() (CacheableKVStore, *NonAtomicBatch) {
	var base EmptyKVStore
	log := NewNonAtomicBatch(base)
	return NewBTreeCacheWrap(base, log, nil), log
}

// BTreeCacheWrap buffers writes in a btree on top of a read only view. All
// writes are mirrored into a batch that is flushed by Write. Reads see the
// buffered state first.
type BTreeCacheWrap struct {
	bt    *btree.BTree
	free  *btree.FreeList
	back  ReadOnlyKVStore
	batch Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap returns a cache over kv. Writes go only to batch, never
// to kv directly. A nil free list allocates a new one, pass an existing list
// to share nodes between nested wraps.
func NewBTreeCacheWrap(kv ReadOnlyKVStore, batch Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(btree.DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		bt:    btree.NewWithFreeList(btreeDegree, free),
		free:  free,
		back:  kv,
		batch: batch,
	}
}

// CacheWrap stacks another cache on top of this one.
func (b BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.NewBatch(), b.free)
}

// NewBatch returns a batch writing into this cache.
func (b BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

// Write flushes all buffered operations to the parent and empties the cache.
func (b BTreeCacheWrap) Write() error {
	err := b.batch.Write()
	b.Discard()
	return err
}

// Discard drops all buffered operations. Calling it after Write is a no-op.
func (b BTreeCacheWrap) Discard() {
	for b.bt.DeleteMin() != nil {
	}
	if r, ok := b.batch.(interface{ Reset() }); ok {
		r.Reset()
	}
}

func (b BTreeCacheWrap) Set(key, value []byte) error {
	b.bt.ReplaceOrInsert(cached{key: key, value: value})
	return b.batch.Set(key, value)
}

func (b BTreeCacheWrap) Delete(key []byte) error {
	b.bt.ReplaceOrInsert(cached{key: key, deleted: true})
	return b.batch.Delete(key)
}

func (b BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	c, ok, err := b.lookup(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return b.back.Get(key)
	}
	if c.deleted {
		return nil, nil
	}
	return c.value, nil
}

func (b BTreeCacheWrap) Has(key []byte) (bool, error) {
	c, ok, err := b.lookup(key)
	if err != nil {
		return false, err
	}
	if !ok {
		return b.back.Has(key)
	}
	return !c.deleted, nil
}

func (b BTreeCacheWrap) lookup(key []byte) (cached, bool, error) {
	item := b.bt.Get(cached{key: key})
	if item == nil {
		return cached{}, false, nil
	}
	c, ok := item.(cached)
	if !ok {
		return cached{}, false, errors.Wrapf(errors.ErrDatabase, "unknown btree item %T", item)
	}
	return c, true, nil
}

func (b BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	models, err := b.merged(start, end)
	if err != nil {
		return nil, err
	}
	return NewSliceIterator(models), nil
}

func (b BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	models, err := b.merged(start, end)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(models)-1; i < j; i, j = i+1, j-1 {
		models[i], models[j] = models[j], models[i]
	}
	return NewSliceIterator(models), nil
}

// merged returns the visible content of [start, end) in ascending order.
// Buffered values shadow the parent, buffered deletes hide it.
func (b BTreeCacheWrap) merged(start, end []byte) ([]Model, error) {
	it, err := b.back.Iterator(start, end)
	if err != nil {
		return nil, errors.Wrap(err, "backing iterator")
	}
	parent := ReadAll(it)
	ours := b.cachedRange(start, end)

	res := make([]Model, 0, len(parent)+len(ours))
	for len(parent) != 0 || len(ours) != 0 {
		if len(ours) == 0 || (len(parent) != 0 && bytes.Compare(parent[0].Key, ours[0].key) < 0) {
			res = append(res, parent[0])
			parent = parent[1:]
			continue
		}
		if len(parent) != 0 && bytes.Equal(parent[0].Key, ours[0].key) {
			parent = parent[1:]
		}
		if !ours[0].deleted {
			res = append(res, Model{Key: ours[0].key, Value: ours[0].value})
		}
		ours = ours[1:]
	}
	return res, nil
}

func (b BTreeCacheWrap) cachedRange(start, end []byte) []cached {
	var res []cached
	collect := func(item btree.Item) bool {
		res = append(res, item.(cached))
		return true
	}
	switch {
	case start == nil && end == nil:
		b.bt.Ascend(collect)
	case start == nil:
		b.bt.AscendLessThan(cached{key: end}, collect)
	case end == nil:
		b.bt.AscendGreaterOrEqual(cached{key: start}, collect)
	default:
		b.bt.AscendRange(cached{key: start}, cached{key: end}, collect)
	}
	return res
}

// cached is a buffered write. A zero value with only the key set is used
// for btree lookups.
type cached struct {
	key     []byte
	value   []byte
	deleted bool
}

var _ btree.Item = cached{}

func (c cached) Less(than btree.Item) bool {
	return bytes.Compare(c.key, than.(cached).key) < 0
}
