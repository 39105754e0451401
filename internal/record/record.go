package record

import (
	"encoding/binary"
	"errors"
	"unicode/utf8"
)

// Timestamp (4) + KeySize (4) + ValueSize (4)
const HeaderSize = 12

var (
	// ErrMalformedHeader is returned when fewer than HeaderSize bytes are
	// available to decode a header.
	ErrMalformedHeader = errors.New("record: malformed header")

	// ErrMalformedRecord is returned when a byte slice is shorter than the
	// total length implied by its own header, or when the key or value bytes
	// are not valid UTF-8 text.
	ErrMalformedRecord = errors.New("record: malformed record")
)

// Header is the fixed-width binary prefix of every record in the log.
//
// All fields are unsigned 32-bit and encoded big-endian. The timestamp is
// seconds since the Unix epoch; it is informational only — recency is
// decided by offset order in the log, never by timestamps.
type Header struct {
	Timestamp uint32
	KeySize   uint32
	ValueSize uint32
}

// Record is one decoded (timestamp, key, value) unit as stored in the log.
type Record struct {
	Timestamp uint32
	Key       string
	Value     string
}

// Encode serializes a record into its on-disk byte representation:
//
//	<timestamp:u32><key_size:u32><value_size:u32><key_bytes><value_bytes>
//
// It returns the total encoded size alongside the bytes so callers can
// index the record without recomputing lengths. Encode is deterministic
// and cannot fail for keys and values whose lengths fit in uint32.
func Encode(timestamp uint32, key, value string) (int64, []byte) {
	size := HeaderSize + len(key) + len(value)
	data := make([]byte, size)

	binary.BigEndian.PutUint32(data[0:4], timestamp)
	binary.BigEndian.PutUint32(data[4:8], uint32(len(key)))
	binary.BigEndian.PutUint32(data[8:12], uint32(len(value)))
	copy(data[HeaderSize:], key)
	copy(data[HeaderSize+len(key):], value)

	return int64(size), data
}

// DecodeHeader parses the fixed-size header at the start of data. It does
// not touch the payload, so callers scanning a log can learn the key and
// value lengths and skip over the bytes without parsing them.
func DecodeHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, ErrMalformedHeader
	}

	return Header{
		Timestamp: binary.BigEndian.Uint32(data[0:4]),
		KeySize:   binary.BigEndian.Uint32(data[4:8]),
		ValueSize: binary.BigEndian.Uint32(data[8:12]),
	}, nil
}

// Decode parses header-prefixed bytes back into a full record.
func Decode(data []byte) (Record, error) {
	header, err := DecodeHeader(data)
	if err != nil {
		return Record{}, ErrMalformedRecord
	}

	total := int64(HeaderSize) + int64(header.KeySize) + int64(header.ValueSize)
	if int64(len(data)) < total {
		return Record{}, ErrMalformedRecord
	}

	keyEnd := int64(HeaderSize) + int64(header.KeySize)
	key := data[HeaderSize:keyEnd]
	value := data[keyEnd:total]

	// The store contract is text keys and values.
	if !utf8.Valid(key) || !utf8.Valid(value) {
		return Record{}, ErrMalformedRecord
	}

	return Record{
		Timestamp: header.Timestamp,
		Key:       string(key),
		Value:     string(value),
	}, nil
}
