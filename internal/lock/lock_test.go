package lock_test

import (
	"path/filepath"
	"testing"

	"github.com/quentin-auge/caskdb/internal/lock"
)

func TestAcquireRelease(t *testing.T) {
	t.Run("second acquire fails while lock is held", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "data.db")

		f, err := lock.Acquire(path)
		if err != nil {
			t.Fatalf("could not acquire initial lock: %v", err)
		}

		if _, err := lock.Acquire(path); err == nil {
			t.Error("second acquire was not supposed to succeed")
		}

		lock.Release(f)
	})

	t.Run("acquire succeeds after release", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "data.db")

		f, err := lock.Acquire(path)
		if err != nil {
			t.Fatalf("could not acquire lock: %v", err)
		}
		lock.Release(f)

		f2, err := lock.Acquire(path)
		if err != nil {
			t.Errorf("acquire after release was supposed to succeed: %v", err)
		}
		lock.Release(f2)
	})
}
