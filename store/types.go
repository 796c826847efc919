//nolint
package store

import "github.com/iov-one/authtoken"

// Move references for all storage types into this package
// for shorter names everywhere

type ReadOnlyKVStore = authtoken.ReadOnlyKVStore
type SetDeleter = authtoken.SetDeleter
type KVStore = authtoken.KVStore
type Batch = authtoken.Batch
type Iterator = authtoken.Iterator
type CacheableKVStore = authtoken.CacheableKVStore
type KVCacheWrap = authtoken.KVCacheWrap
type CommitKVStore = authtoken.CommitKVStore
type CommitID = authtoken.CommitID
