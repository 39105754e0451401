/*
	Throughput benchmark for the storage engine. Talks to the engine
	directly, bypassing the TCP server, so the numbers reflect the data
	path alone.
*/

package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/quentin-auge/caskdb/core"
)

const reportEvery = 100_000

func main() {
	dbPath := flag.String("db", "bench.db", "Path of the database file")
	mode := flag.String("mode", "write", "Benchmark mode: write or read")
	n := flag.Int("n", 1_000_000, "Number of operations")
	keySize := flag.Int("keysize", 8, "Key length in hex characters")
	valueSize := flag.Int("valuesize", 32, "Value length in hex characters")
	seed := flag.Int64("seed", time.Now().UnixNano(), "Random seed")
	flag.Parse()

	store, err := core.Open(*dbPath)
	if err != nil {
		log.Fatalf("error opening store at %s: %v", *dbPath, err)
	}
	defer store.Close()

	rng := rand.New(rand.NewSource(*seed))

	switch *mode {
	case "write":
		runWrites(store, rng, *n, *keySize, *valueSize)
	case "read":
		runReads(store, rng, *n, *keySize, *valueSize)
	default:
		log.Fatalf("unknown mode %q", *mode)
	}
}

func runWrites(store *core.DiskStore, rng *rand.Rand, n, keySize, valueSize int) {
	start := time.Now()

	for i := 1; i <= n; i++ {
		key := randomStr(rng, keySize)
		value := randomStr(rng, valueSize)

		if err := store.Set(key, value); err != nil {
			log.Fatalf("SET error after %d records: %v", i, err)
		}

		if i%reportEvery == 0 {
			elapsed := time.Since(start).Seconds()
			fmt.Printf("write throughput: %.0fk records / s\n", float64(i)/1e3/elapsed)
		}
	}

	fmt.Printf("wrote %d records in %v\n", n, time.Since(start))
}

func runReads(store *core.DiskStore, rng *rand.Rand, n, keySize, valueSize int) {
	// Seed a fixed universe of keys so most reads hit.
	universe := make([]string, 1000)
	for i := range universe {
		universe[i] = randomStr(rng, keySize)
		if err := store.Set(universe[i], randomStr(rng, valueSize)); err != nil {
			log.Fatalf("seed SET error: %v", err)
		}
	}

	start := time.Now()
	var hits int

	for i := 1; i <= n; i++ {
		key := universe[rng.Intn(len(universe))]

		_, found, err := store.Get(key)
		if err != nil {
			log.Fatalf("GET error after %d reads: %v", i, err)
		}
		if found {
			hits++
		}

		if i%reportEvery == 0 {
			elapsed := time.Since(start).Seconds()
			fmt.Printf("read throughput: %.0fk records / s\n", float64(i)/1e3/elapsed)
		}
	}

	fmt.Printf("read %d records (%d hits) in %v\n", n, hits, time.Since(start))
}

const hexDigits = "0123456789abcdef"

func randomStr(rng *rand.Rand, k int) string {
	b := make([]byte, k)
	for i := range b {
		b[i] = hexDigits[rng.Intn(len(hexDigits))]
	}
	return string(b)
}
