package authtoken

// ReadOnlyKVStore gives read access to the contract storage. All methods
// return an error instead of panicking, as the backing database may fail.
type ReadOnlyKVStore interface {
	// Get returns nil if the key does not exist.
	Get(key []byte) ([]byte, error)

	Has(key []byte) (bool, error)

	// Iterator returns keys in [start, end) in ascending order. A nil bound
	// is open. The range must not be written to while the iterator is open.
	Iterator(start, end []byte) (Iterator, error)

	// ReverseIterator is Iterator in descending order.
	ReverseIterator(start, end []byte) (Iterator, error)
}

// SetDeleter is the write part shared by a store and a batch. Passed slices
// must not be modified afterwards.
type SetDeleter interface {
	Set(key, value []byte) error
	Delete(key []byte) error
}

// KVStore is the contract storage every operation works on.
type KVStore interface {
	ReadOnlyKVStore
	SetDeleter
	NewBatch() Batch
}

// Batch groups writes that are applied by Write.
type Batch interface {
	SetDeleter
	Write() error
}

// Iterator walks a key range:
//
//   it, err := db.Iterator(start, end)
//   ...
//   defer it.Close()
//   for ; it.Valid(); it.Next() {
//   	key, value := it.Key(), it.Value()
//   }
//
// Next, Key and Value panic once Valid returned false.
type Iterator interface {
	Valid() bool
	Next()
	Key() []byte
	Value() []byte
	Close()
}

// CacheableKVStore can buffer writes in a cache wrap.
type CacheableKVStore interface {
	KVStore
	CacheWrap() KVCacheWrap
}

// KVCacheWrap is a write buffer over a store. Reads see the buffered writes.
// Write flushes them to the parent store, Discard drops them. A cache wrap
// can be wrapped again.
type KVCacheWrap interface {
	CacheableKVStore
	Write() error
	Discard()
}

// CommitKVStore is a versioned store persisted on disk.
type CommitKVStore interface {
	// Get reads from the last committed version.
	Get(key []byte) ([]byte, error)

	CacheWrap() KVCacheWrap

	// Commit persists all written data as a new version.
	Commit() (CommitID, error)

	// LoadLatestVersion loads the newest stable version on start up.
	LoadLatestVersion() error

	LatestVersion() (CommitID, error)
}

// CommitID identifies a committed version by its number and merkle root.
type CommitID struct {
	Version int64
	Hash    []byte
}
