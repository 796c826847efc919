package store

import (
	"fmt"

	"github.com/iov-one/authtoken/errors"
)

// Model is a single key value pair.
type Model struct {
	Key   []byte
	Value []byte
}

// SliceIterator iterates over preloaded models.
type SliceIterator struct {
	data []Model
	pos  int
}

var _ Iterator = (*SliceIterator)(nil)

// NewSliceIterator returns an iterator over data in the given order.
func NewSliceIterator(data []Model) *SliceIterator {
	return &SliceIterator{data: data}
}

func (s *SliceIterator) Valid() bool { return s.pos < len(s.data) }

// Next panics when called on an invalid iterator.
func (s *SliceIterator) Next() {
	s.current()
	s.pos++
}

func (s *SliceIterator) Key() []byte { return s.current().Key }

func (s *SliceIterator) Value() []byte { return s.current().Value }

func (s *SliceIterator) Close() { s.data = nil }

func (s *SliceIterator) current() Model {
	if !s.Valid() {
		panic("iterator used past its end")
	}
	return s.data[s.pos]
}

// ReadAll drains and closes it.
func ReadAll(it Iterator) []Model {
	defer it.Close()
	var res []Model
	for ; it.Valid(); it.Next() {
		res = append(res, Model{Key: it.Key(), Value: it.Value()})
	}
	return res
}

// EmptyKVStore holds nothing and ignores writes. It is the bottom layer of
// the in-memory stores.
type EmptyKVStore struct{}

var _ KVStore = EmptyKVStore{}

func (EmptyKVStore) Get([]byte) ([]byte, error) { return nil, nil }

func (EmptyKVStore) Has([]byte) (bool, error) { return false, nil }

func (EmptyKVStore) Set(key, value []byte) error { return nil }

func (EmptyKVStore) Delete([]byte) error { return nil }

// NewBatch returns a batch that drops everything, like the store itself.
func (EmptyKVStore) NewBatch() Batch { return discardBatch{} }

func (EmptyKVStore) Iterator(_, _ []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}

func (EmptyKVStore) ReverseIterator(_, _ []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}

// discardBatch accepts writes without keeping them. The root layer of an
// in-memory store never flushes anywhere, so recording would only grow.
type discardBatch struct{}

var _ Batch = discardBatch{}

func (discardBatch) Set(key, value []byte) error { return nil }

func (discardBatch) Delete([]byte) error { return nil }

func (discardBatch) Write() error { return nil }

// Op is a recorded set or delete.
type Op struct {
	del   bool
	key   []byte
	value []byte
}

// SetOp returns an operation setting key to value.
func SetOp(key, value []byte) Op { return Op{key: key, value: value} }

// DelOp returns an operation deleting key.
func DelOp(key []byte) Op { return Op{del: true, key: key} }

// IsSetOp is false for a delete.
func (o Op) IsSetOp() bool { return !o.del }

// Key returns a copy of the key.
func (o Op) Key() []byte { return append([]byte(nil), o.key...) }

// Value returns a copy of the value, nil for a delete.
func (o Op) Value() []byte {
	if o.del {
		return nil
	}
	return append([]byte(nil), o.value...)
}

// Apply executes the operation on out.
func (o Op) Apply(out SetDeleter) error {
	if o.del {
		return out.Delete(o.key)
	}
	return out.Set(o.key, o.value)
}

func (o Op) String() string {
	if o.del {
		return fmt.Sprintf("delete %X", o.key)
	}
	return fmt.Sprintf("set %X=%X", o.key, o.value)
}

// NonAtomicBatch records operations and replays them on Write one by one.
// A failure in the middle of Write leaves the earlier operations applied, so
// it is only safe on top of in-memory layers.
type NonAtomicBatch struct {
	out SetDeleter
	ops []Op
}

var _ Batch = (*NonAtomicBatch)(nil)

// NewNonAtomicBatch returns an empty batch writing to out.
func NewNonAtomicBatch(out SetDeleter) *NonAtomicBatch {
	return &NonAtomicBatch{out: out}
}

func (b *NonAtomicBatch) Set(key, value []byte) error {
	b.ops = append(b.ops, SetOp(key, value))
	return nil
}

func (b *NonAtomicBatch) Delete(key []byte) error {
	b.ops = append(b.ops, DelOp(key))
	return nil
}

// Write applies all recorded operations and clears the batch.
func (b *NonAtomicBatch) Write() error {
	for _, op := range b.ops {
		if err := op.Apply(b.out); err != nil {
			return errors.Wrapf(err, "apply %s", op)
		}
	}
	b.ops = nil
	return nil
}

// Reset drops all recorded operations.
func (b *NonAtomicBatch) Reset() { b.ops = nil }

// ShowOps returns the recorded operations. For tests.
func (b *NonAtomicBatch) ShowOps() []Op {
	return b.ops
}
