/*
Package wire implements the deterministic protobuf wire encoding used for
signed payloads and stored models.

Fields are always written in the order the caller adds them and zero values
are never skipped, so two encoders fed with the same values produce identical
bytes. The result is readable by any protobuf decoder using the schema
declared in codec.proto of the owning package.
*/
package wire

import (
	"github.com/gogo/protobuf/proto"

	"github.com/iov-one/authtoken/errors"
)

// Marshaler is implemented by every model that can be nested.
type Marshaler interface {
	Marshal() ([]byte, error)
}

// Encoder builds a single message.
type Encoder struct {
	buf []byte
}

// NewEncoder returns an empty message encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

func (e *Encoder) tag(field int, wireType int) {
	key := uint64(field)<<3 | uint64(wireType)
	e.buf = append(e.buf, proto.EncodeVarint(key)...)
}

// Bytes appends a length delimited field.
func (e *Encoder) Bytes(field int, b []byte) *Encoder {
	e.tag(field, proto.WireBytes)
	e.buf = append(e.buf, proto.EncodeVarint(uint64(len(b)))...)
	e.buf = append(e.buf, b...)
	return e
}

// String appends a string field.
func (e *Encoder) String(field int, s string) *Encoder {
	return e.Bytes(field, []byte(s))
}

// Uint64 appends a varint field.
func (e *Encoder) Uint64(field int, v uint64) *Encoder {
	e.tag(field, proto.WireVarint)
	e.buf = append(e.buf, proto.EncodeVarint(v)...)
	return e
}

// Message appends a nested message.
func (e *Encoder) Message(field int, m Marshaler) error {
	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrapf(err, "field %d", field)
	}
	e.Bytes(field, raw)
	return nil
}

// Result returns the encoded message.
func (e *Encoder) Result() []byte {
	return e.buf
}

// Decoder reads fields of a single message in order. Varints must be
// minimally encoded, as produced by Encoder, so that every message has
// exactly one accepted encoding.
type Decoder struct {
	buf *proto.Buffer
	raw []byte
	// pos mirrors the read position of buf.
	pos      int
	wireType int
}

// NewDecoder returns a decoder over given message.
func NewDecoder(raw []byte) *Decoder {
	return &Decoder{buf: proto.NewBuffer(raw), raw: raw}
}

// More returns true while there are unread fields.
func (d *Decoder) More() bool {
	return d.pos < len(d.raw)
}

// advance moves pos past a varint holding v and the following extra bytes.
// The last byte of a varint is the only one below 0x80, which tells whether
// v was written with the minimal number of bytes.
func (d *Decoder) advance(v uint64, extra int) error {
	n := proto.SizeVarint(v)
	if d.raw[d.pos+n-1] >= 0x80 {
		return errors.Wrap(errors.ErrModel, "varint not minimally encoded")
	}
	d.pos += n + extra
	return nil
}

func (d *Decoder) varint() (uint64, error) {
	v, err := d.buf.DecodeVarint()
	if err != nil {
		return 0, errors.Wrapf(errors.ErrModel, "varint: %s", err)
	}
	if err := d.advance(v, 0); err != nil {
		return 0, err
	}
	return v, nil
}

// Next reads the next field header and returns its number. The value must be
// consumed with the method matching its type, or skipped with Skip.
func (d *Decoder) Next() (int, error) {
	key, err := d.varint()
	if err != nil {
		return 0, errors.Wrap(err, "field key")
	}
	field := int(key >> 3)
	if field <= 0 {
		return 0, errors.Wrapf(errors.ErrModel, "invalid field number %d", field)
	}
	d.wireType = int(key & 7)
	return field, nil
}

// Bytes reads a length delimited value.
func (d *Decoder) Bytes() ([]byte, error) {
	if d.wireType != proto.WireBytes {
		return nil, errors.Wrapf(errors.ErrModel, "want length delimited value, got wire type %d", d.wireType)
	}
	val, err := d.buf.DecodeRawBytes(true)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "length delimited value: %s", err)
	}
	if err := d.advance(uint64(len(val)), len(val)); err != nil {
		return nil, err
	}
	return val, nil
}

// String reads a string value.
func (d *Decoder) String() (string, error) {
	b, err := d.Bytes()
	return string(b), err
}

// Uint64 reads a varint value.
func (d *Decoder) Uint64() (uint64, error) {
	if d.wireType != proto.WireVarint {
		return 0, errors.Wrapf(errors.ErrModel, "want varint value, got wire type %d", d.wireType)
	}
	return d.varint()
}

// Skip discards the value of an unknown field. Groups are not supported.
func (d *Decoder) Skip() error {
	var err error
	switch d.wireType {
	case proto.WireVarint:
		_, err = d.varint()
	case proto.WireBytes:
		_, err = d.Bytes()
	case proto.WireFixed64:
		if _, err = d.buf.DecodeFixed64(); err == nil {
			d.pos += 8
		}
	case proto.WireFixed32:
		if _, err = d.buf.DecodeFixed32(); err == nil {
			d.pos += 4
		}
	default:
		return errors.Wrapf(errors.ErrModel, "unsupported wire type %d", d.wireType)
	}
	if err != nil && !errors.ErrModel.Is(err) {
		return errors.Wrapf(errors.ErrModel, "skip wire type %d: %s", d.wireType, err)
	}
	return err
}
