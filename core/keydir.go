package core

import "github.com/dolthub/swiss"

// KeyDirEntry points at the most recent record for a key in the log.
//
// Older records for the same key may still exist earlier in the file but
// are unreachable once the entry is overwritten.
type KeyDirEntry struct {
	Offset int64 // Byte position in the log where the record header starts
	Size   int64 // Total record size on disk (header + key + value)
}

// KeyDir is the in-memory index mapping each key to its latest on-disk
// record. It is never persisted; it is a derived, rebuildable cache of the
// log's content, reconstructed by the load scan at startup.
//
// The index demands no ordering, only uniqueness and overwrite-on-rewrite,
// so it is backed by a swiss-table hash map.
type KeyDir struct {
	m *swiss.Map[string, KeyDirEntry]
}

func newKeyDir() *KeyDir {
	return &KeyDir{m: swiss.NewMap[string, KeyDirEntry](1 << 10)}
}

// Put records entry as the latest location of key, replacing any prior one.
func (kd *KeyDir) Put(key string, entry KeyDirEntry) {
	kd.m.Put(key, entry)
}

// Get returns the latest location of key, if any.
func (kd *KeyDir) Get(key string) (KeyDirEntry, bool) {
	return kd.m.Get(key)
}

// Has reports whether key is live in the index.
func (kd *KeyDir) Has(key string) bool {
	return kd.m.Has(key)
}

// Len returns the number of live keys.
func (kd *KeyDir) Len() int {
	return kd.m.Count()
}

// Keys returns all live keys, in no particular order.
func (kd *KeyDir) Keys() []string {
	keys := make([]string, 0, kd.m.Count())
	kd.m.Iter(func(key string, _ KeyDirEntry) bool {
		keys = append(keys, key)
		return false
	})
	return keys
}
