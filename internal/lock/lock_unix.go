//go:build unix

package lock

import (
	"fmt"
	"os"
	"syscall"
)

// Acquire attempts to take an exclusive, non-blocking advisory lock on the
// database at path, using a sibling lock file named path + ".lock".
//
// On Unix systems this uses flock(2). If the lock cannot be acquired, the
// database file is assumed to be open in another store instance.
//
// The returned file handle must remain open for the duration of the lock.
func Acquire(path string) (*os.File, error) {
	f, err := os.OpenFile(path+".lock", os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("unable to open lock file: %w", err)
	}

	err = syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("database %s already in use by another store instance", path)
	}

	return f, nil
}

// Release releases a lock acquired via Acquire.
//
// On Unix systems this releases the advisory flock and closes the file.
func Release(f *os.File) {
	syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
	f.Close()
}
