//go:build windows

package lock

import (
	"fmt"
	"os"
)

// Acquire attempts to take an exclusive lock on the database at path, using
// a sibling lock file named path + ".lock".
//
// On Windows this is implemented by atomically creating the lock file. If
// the file already exists, the database is assumed to be open in another
// store instance.
//
// The returned file handle must be kept open for the duration of the lock.
func Acquire(path string) (*os.File, error) {
	f, err := os.OpenFile(path+".lock", os.O_CREATE|os.O_EXCL|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("database %s already in use by another store instance", path)
	}

	return f, nil
}

// Release releases a lock acquired via Acquire.
//
// On Windows this removes the lock file from disk. Release should be called
// exactly once for each successful Acquire call.
func Release(f *os.File) {
	name := f.Name()
	f.Close()
	os.Remove(name)
}
