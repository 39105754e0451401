package core_test

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/quentin-auge/caskdb/core"
	"github.com/quentin-auge/caskdb/internal/record"
)

func tempDBPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "data.db")
}

func openStore(t *testing.T, path string) *core.DiskStore {
	t.Helper()

	ds, err := core.Open(path)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}

	t.Cleanup(func() {
		ds.Close()
	})

	return ds
}

func mustSet(t *testing.T, ds *core.DiskStore, key, value string) {
	t.Helper()
	if err := ds.Set(key, value); err != nil {
		t.Fatalf("Set(%q, %q) failed: %v", key, value, err)
	}
}

func mustGet(t *testing.T, ds *core.DiskStore, key string) string {
	t.Helper()

	value, found, err := ds.Get(key)
	if err != nil {
		t.Fatalf("Get(%q) failed: %v", key, err)
	}
	if !found {
		t.Fatalf("Get(%q) reported absent, expected present", key)
	}
	return value
}

func TestSetThenGet(t *testing.T) {
	ds := openStore(t, tempDBPath(t))

	mustSet(t, ds, "foo", "bar")

	if got := mustGet(t, ds, "foo"); got != "bar" {
		t.Fatalf("expected bar, got %q", got)
	}
}

func TestGetAbsentKey(t *testing.T) {
	ds := openStore(t, tempDBPath(t))

	value, found, err := ds.Get("never-set-key")
	if err != nil {
		t.Fatalf("absent key must not be an error, got %v", err)
	}
	if found {
		t.Fatalf("expected absent, got value %q", value)
	}
}

func TestLastWriteWins(t *testing.T) {
	ds := openStore(t, tempDBPath(t))

	mustSet(t, ds, "k", "v1")
	mustSet(t, ds, "k", "v2")

	if got := mustGet(t, ds, "k"); got != "v2" {
		t.Fatalf("expected v2, got %q", got)
	}
}

func TestEmptyValue(t *testing.T) {
	ds := openStore(t, tempDBPath(t))

	mustSet(t, ds, "blank", "")

	if got := mustGet(t, ds, "blank"); got != "" {
		t.Fatalf("expected empty value, got %q", got)
	}
}

func TestDurabilityAcrossReopen(t *testing.T) {
	path := tempDBPath(t)

	ds, err := core.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	mustSet(t, ds, "persist", "yes")
	if err := ds.Close(); err != nil {
		t.Fatal(err)
	}

	ds2 := openStore(t, path)
	if got := mustGet(t, ds2, "persist"); got != "yes" {
		t.Fatalf("expected yes after reopen, got %q", got)
	}
}

// Follows one key through an overwrite and a restart: the log holds both
// records, the KeyDir must resolve to the later one each time.
func TestOverwriteSurvivesReopen(t *testing.T) {
	path := tempDBPath(t)

	ds, err := core.Open(path)
	if err != nil {
		t.Fatal(err)
	}

	mustSet(t, ds, "a", "b")
	if got := mustGet(t, ds, "a"); got != "b" {
		t.Fatalf("expected b, got %q", got)
	}

	mustSet(t, ds, "a", "c")
	if got := mustGet(t, ds, "a"); got != "c" {
		t.Fatalf("expected c, got %q", got)
	}

	// Both records are on disk; only the second is reachable.
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	wantSize := int64(2*record.HeaderSize + 2*len("a") + len("b") + len("c"))
	if info.Size() != wantSize {
		t.Fatalf("expected log size %d, got %d", wantSize, info.Size())
	}

	if err := ds.Close(); err != nil {
		t.Fatal(err)
	}

	ds2 := openStore(t, path)
	if got := mustGet(t, ds2, "a"); got != "c" {
		t.Fatalf("expected c after reopen, got %q", got)
	}
}

func TestCorruptLogDetection(t *testing.T) {
	path := tempDBPath(t)

	ds, err := core.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	mustSet(t, ds, "first", "record")
	mustSet(t, ds, "second", "record")
	if err := ds.Close(); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}

	// Chop the log mid-record: the second record loses its tail.
	if err := os.Truncate(path, info.Size()-3); err != nil {
		t.Fatal(err)
	}

	if _, err := core.Open(path); !errors.Is(err, core.ErrCorruptLog) {
		t.Fatalf("expected ErrCorruptLog, got %v", err)
	}
}

func TestCorruptLogPartialHeader(t *testing.T) {
	path := tempDBPath(t)

	ds, err := core.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	mustSet(t, ds, "k", "v")
	if err := ds.Close(); err != nil {
		t.Fatal(err)
	}

	// Append a few stray bytes: not even a full header.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write([]byte{0x01, 0x02}); err != nil {
		t.Fatal(err)
	}
	f.Close()

	if _, err := core.Open(path); !errors.Is(err, core.ErrCorruptLog) {
		t.Fatalf("expected ErrCorruptLog, got %v", err)
	}
}

func TestOperationsAfterClose(t *testing.T) {
	ds, err := core.Open(tempDBPath(t))
	if err != nil {
		t.Fatal(err)
	}
	mustSet(t, ds, "k", "v")
	if err := ds.Close(); err != nil {
		t.Fatal(err)
	}

	if err := ds.Set("k", "v2"); !errors.Is(err, core.ErrClosed) {
		t.Errorf("Set after Close: expected ErrClosed, got %v", err)
	}
	if _, _, err := ds.Get("k"); !errors.Is(err, core.ErrClosed) {
		t.Errorf("Get after Close: expected ErrClosed, got %v", err)
	}
	if err := ds.Close(); !errors.Is(err, core.ErrClosed) {
		t.Errorf("double Close: expected ErrClosed, got %v", err)
	}
}

func TestSecondOpenOnLockedPathFails(t *testing.T) {
	path := tempDBPath(t)

	openStore(t, path)

	if _, err := core.Open(path); err == nil {
		t.Fatal("second Open on a locked path was not supposed to succeed")
	}
}

func TestHasLenKeys(t *testing.T) {
	ds := openStore(t, tempDBPath(t))

	mustSet(t, ds, "a", "1")
	mustSet(t, ds, "b", "2")
	mustSet(t, ds, "a", "3") // overwrite, no new key

	if !ds.Has("a") || !ds.Has("b") {
		t.Error("expected both keys to be live")
	}
	if ds.Has("c") {
		t.Error("did not expect key c")
	}
	if got := ds.Len(); got != 2 {
		t.Errorf("expected 2 live keys, got %d", got)
	}

	keys := ds.Keys()
	sort.Strings(keys)
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Errorf("unexpected key set: %v", keys)
	}
}

func TestManyKeysAcrossReopen(t *testing.T) {
	path := tempDBPath(t)

	ds, err := core.Open(path)
	if err != nil {
		t.Fatal(err)
	}

	keys := []string{"alpha", "beta", "gamma", "delta", "epsilon"}
	for i, k := range keys {
		mustSet(t, ds, k, k+"-value")
		// Overwrite every other key once.
		if i%2 == 0 {
			mustSet(t, ds, k, k+"-final")
		}
	}
	if err := ds.Close(); err != nil {
		t.Fatal(err)
	}

	ds2 := openStore(t, path)
	for i, k := range keys {
		want := k + "-value"
		if i%2 == 0 {
			want = k + "-final"
		}
		if got := mustGet(t, ds2, k); got != want {
			t.Errorf("key %q: expected %q, got %q", k, want, got)
		}
	}
}
