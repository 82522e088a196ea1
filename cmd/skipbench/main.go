// Command skipbench drives a skiplist.SkipList[int, string] from many
// goroutines at once and reports the sizes it observes. It exists purely
// as an external harness: the skiplist package itself never imports flag,
// log, or os.
package main

import (
	"flag"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/oss-skiplist/lfskiplist/skiplist"
)

func main() {
	workers := flag.Int("workers", 4, "number of goroutines that insert a disjoint key range")
	keysPerWorker := flag.Int("keys-per-worker", 10000, "keys inserted by each worker")
	removers := flag.Int("removers", 0, "number of goroutines that concurrently remove random keys")
	removesPerRemover := flag.Int("removes-per-remover", 5000, "remove attempts issued by each remover")
	maxLevels := flag.Int("max-levels", skiplist.DefaultMaxLevels, "tower height cap")
	probability := flag.Float64("p", skiplist.DefaultProbability, "per-level promotion probability")
	dump := flag.Bool("dump", false, "print every surviving key/value/level after the run")
	flag.Parse()

	if *workers <= 0 {
		log.Fatal("Error: -workers must be positive\n")
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	list := skiplist.New[int, string](
		skiplist.WithMaxLevels[int, string](*maxLevels),
		skiplist.WithProbability[int, string](*probability),
	)

	start := time.Now()
	var wg sync.WaitGroup

	for w := 0; w < *workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			base := worker * *keysPerWorker
			for i := 0; i < *keysPerWorker; i++ {
				key := base + i
				list.Insert(key, "v")
			}
			logger.Info("inserter finished", "worker", worker, "keys", *keysPerWorker)
		}(w)
	}

	totalKeys := *workers * *keysPerWorker
	var removedCount int64
	var removedMu sync.Mutex

	for r := 0; r < *removers; r++ {
		wg.Add(1)
		go func(remover int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(remover)))
			local := 0
			for i := 0; i < *removesPerRemover; i++ {
				if totalKeys == 0 {
					break
				}
				key := rng.Intn(totalKeys)
				if list.Remove(key) {
					local++
				}
			}
			removedMu.Lock()
			removedCount += int64(local)
			removedMu.Unlock()
			logger.Info("remover finished", "remover", remover, "removed", local)
		}(r)
	}

	wg.Wait()
	elapsed := time.Since(start)

	logger.Info("run complete",
		"elapsed", elapsed,
		"inserted", totalKeys,
		"removed", removedCount,
		"size", list.Len(),
	)

	if *dump {
		if err := list.Print(os.Stdout); err != nil {
			logger.Error("print failed", "err", err)
			os.Exit(1)
		}
	}
}
