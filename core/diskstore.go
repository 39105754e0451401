// Package core implements a log-structured key-value store following the
// BitCask design: all data lives in a single append-only log file, and an
// in-memory KeyDir maps each key to the byte offset of its most recent
// record.
//
// Writes append a record and update the KeyDir; reads do a single seek to
// the indexed offset. The KeyDir is rebuilt at startup by scanning the
// whole log, so startup time grows with the file, and every live key costs
// RAM. Stale records accumulate until an external tool rewrites the log;
// there is no compaction and no deletion.
//
// Read the paper for details: https://riak.com/assets/bitcask-intro.pdf
package core

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/quentin-auge/caskdb/internal/lock"
	"github.com/quentin-auge/caskdb/internal/record"
)

// Keys and values are length-prefixed with uint32 fields in the record
// header, which bounds their individual sizes.
const (
	MaxKeySize   = math.MaxUint32
	MaxValueSize = math.MaxUint32
)

// DiskStore is a durable key-value store backed by one append-only log
// file. One instance owns the file exclusively, enforced by an advisory
// lock next to it.
//
// All methods are safe for concurrent use by multiple goroutines: writes
// are serialized behind a per-instance mutex, reads run concurrently.
type DiskStore struct {
	mu       sync.RWMutex
	path     string
	lockFile *os.File
	writer   *os.File // append-only handle, all Set calls go through it
	reader   *os.File // random-access handle, never moves the write position
	offset   int64    // current end of the log
	keyDir   *KeyDir
	logger   *zap.SugaredLogger
	closed   bool
}

// Open opens the log file at path, creating it if absent, and rebuilds the
// KeyDir by scanning it from start to end. The store is unusable until the
// scan completes; on a large file this takes time accordingly.
//
// Open fails with ErrCorruptLog if any record cannot be decoded before
// end-of-file, and fails if another store instance holds the file.
func Open(path string, opts ...Option) (*DiskStore, error) {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt(cfg)
	}

	lockFile, err := lock.Acquire(path)
	if err != nil {
		return nil, err
	}

	writer, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		lock.Release(lockFile)
		return nil, fmt.Errorf("open log for append: %w", err)
	}

	reader, err := os.Open(path)
	if err != nil {
		writer.Close()
		lock.Release(lockFile)
		return nil, fmt.Errorf("open log for reading: %w", err)
	}

	ds := &DiskStore{
		path:     path,
		lockFile: lockFile,
		writer:   writer,
		reader:   reader,
		keyDir:   newKeyDir(),
		logger:   cfg.logger,
	}

	if err := ds.loadKeyDir(); err != nil {
		reader.Close()
		writer.Close()
		lock.Release(lockFile)
		return nil, err
	}

	return ds, nil
}

// loadKeyDir sequentially scans the log from offset 0 to end-of-file,
// decoding each header and skipping over the value bytes without parsing
// them. Later records overwrite earlier KeyDir entries for the same key,
// which is what makes the last write win.
func (ds *DiskStore) loadKeyDir() error {
	start := time.Now()

	if _, err := ds.reader.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("seek log start: %w", err)
	}

	br := bufio.NewReader(ds.reader)
	header := make([]byte, record.HeaderSize)

	var offset int64
	var nRecords int

	for {
		if _, err := io.ReadFull(br, header); err != nil {
			if err == io.EOF {
				break
			}
			if err == io.ErrUnexpectedEOF {
				return fmt.Errorf("%w: partial header at offset %d", ErrCorruptLog, offset)
			}
			return fmt.Errorf("read header at offset %d: %w", offset, err)
		}

		h, err := record.DecodeHeader(header)
		if err != nil {
			return fmt.Errorf("%w: offset %d: %v", ErrCorruptLog, offset, err)
		}

		key := make([]byte, h.KeySize)
		if _, err := io.ReadFull(br, key); err != nil {
			return fmt.Errorf("%w: partial key at offset %d", ErrCorruptLog, offset)
		}
		if !utf8.Valid(key) {
			return fmt.Errorf("%w: key is not valid text at offset %d", ErrCorruptLog, offset)
		}

		if _, err := io.CopyN(io.Discard, br, int64(h.ValueSize)); err != nil {
			return fmt.Errorf("%w: partial value at offset %d", ErrCorruptLog, offset)
		}

		size := int64(record.HeaderSize) + int64(h.KeySize) + int64(h.ValueSize)
		ds.keyDir.Put(string(key), KeyDirEntry{Offset: offset, Size: size})
		offset += size
		nRecords++
	}

	ds.offset = offset
	ds.logger.Infof("loaded %d keydir records from %s in %s", nRecords, ds.path, time.Since(start))

	return nil
}

// Set durably stores value under key. The record is appended and flushed
// to stable storage before the KeyDir is updated, so a failed write never
// leaves the index pointing at bytes that are not on disk, and a Get after
// Set returns — even from a freshly restarted store — finds the record.
func (ds *DiskStore) Set(key, value string) error {
	if int64(len(key)) > MaxKeySize {
		return ErrKeyTooLarge
	}
	if int64(len(value)) > MaxValueSize {
		return ErrValueTooLarge
	}

	ds.mu.Lock()
	defer ds.mu.Unlock()

	if ds.closed {
		return ErrClosed
	}

	timestamp := uint32(time.Now().Unix())
	size, data := record.Encode(timestamp, key, value)

	if _, err := ds.writer.Write(data); err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	if err := ds.writer.Sync(); err != nil {
		return fmt.Errorf("sync log: %w", err)
	}

	ds.keyDir.Put(key, KeyDirEntry{Offset: ds.offset, Size: size})
	ds.offset += size

	return nil
}

// Get returns the value stored under key. An absent key is reported with
// found == false and a nil error; this store has no distinction between
// "never set" and "deleted", since deletion is unsupported.
func (ds *DiskStore) Get(key string) (value string, found bool, err error) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	if ds.closed {
		return "", false, ErrClosed
	}

	entry, ok := ds.keyDir.Get(key)
	if !ok {
		return "", false, nil
	}

	buf := make([]byte, entry.Size)
	if _, err := ds.reader.ReadAt(buf, entry.Offset); err != nil {
		return "", false, fmt.Errorf("read record at offset %d: %w", entry.Offset, err)
	}

	rec, err := record.Decode(buf)
	if err != nil {
		return "", false, fmt.Errorf("%w: offset %d: %v", ErrIndexCorruption, entry.Offset, err)
	}

	return rec.Value, true, nil
}

// Has reports whether key is live, without touching the disk.
func (ds *DiskStore) Has(key string) bool {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	if ds.closed {
		return false
	}
	return ds.keyDir.Has(key)
}

// Len returns the number of live keys.
func (ds *DiskStore) Len() int {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	if ds.closed {
		return 0
	}
	return ds.keyDir.Len()
}

// Keys returns all live keys, in no particular order.
func (ds *DiskStore) Keys() []string {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	if ds.closed {
		return nil
	}
	return ds.keyDir.Keys()
}

// Close releases both file handles and the advisory lock. Further calls on
// the store fail fast with ErrClosed.
func (ds *DiskStore) Close() error {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if ds.closed {
		return ErrClosed
	}
	ds.closed = true

	werr := ds.writer.Close()
	rerr := ds.reader.Close()
	lock.Release(ds.lockFile)

	ds.logger.Infof("closed store %s", ds.path)

	if werr != nil {
		return werr
	}
	return rerr
}
