package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"runtime/pprof"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/valyala/bytebufferpool"

	"github.com/evidencebp/garage/pkg/hashtable"
	"github.com/evidencebp/garage/pkg/metrics"
	"github.com/evidencebp/garage/pkg/view"
)

type chainStats struct {
	Gets     atomic.Uint64
	Puts     atomic.Uint64
	Pops     atomic.Uint64
	Hits     atomic.Uint64
	Replaces atomic.Uint64
}

// planChain drives the chained table with a gaussian read/write workload.
// The table itself is single-threaded by contract, so every table call is
// serialized behind one mutex; latency figures therefore include lock wait.
func planChain() {
	var (
		totalKeys    int
		readWorkers  int
		writeWorkers int
		durationSecs int
		hashName     string
		valueBytes   int
		logStats     bool
		pinWorkers   bool
		csvPath      string
		memProfile   string
	)

	flag.IntVar(&totalKeys, "keys", 2_000_000, "key space size")
	flag.IntVar(&readWorkers, "readers", 4, "number of read workers")
	flag.IntVar(&writeWorkers, "writers", 2, "number of write workers")
	flag.IntVar(&durationSecs, "duration-secs", 60, "workload duration in seconds")
	flag.StringVar(&hashName, "hash", "xxhash", "hash strategy: xxhash or xxh3")
	flag.IntVar(&valueBytes, "value-bytes", 1024, "payload size per value")
	flag.BoolVar(&logStats, "log-stats", true, "periodically log table stats")
	flag.BoolVar(&pinWorkers, "pin", false, "pin workers to CPUs")
	flag.StringVar(&csvPath, "csv", metrics.CSVFileName, "append run summary to this CSV file")
	flag.StringVar(&memProfile, "memprofile", "", "write memory profile to this file")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if metrics.Enabled() {
		metrics.Init()
	}
	go func() {
		log.Info().Msg("Starting pprof server on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			log.Error().Err(err).Msg("pprof server failed")
		}
	}()

	hashFn := hashtable.XXHash
	if hashName == "xxh3" {
		hashFn = hashtable.XXH3
	}

	buckets := hashtable.RecommendedBucketCount(totalKeys)
	tbl, err := hashtable.New(hashFn, buckets)
	if err != nil {
		panic(err)
	}
	log.Info().Msgf("table sized with %d buckets for %d keys", buckets, totalKeys)

	// the bench owns every key buffer; table views into them stay valid
	// for the whole run
	keys := make([][]byte, totalKeys)
	for i := range keys {
		keys[i] = []byte(fmt.Sprintf("stream-%d/recv", i))
	}

	// slots tracks which pooled buffer currently backs each key's value,
	// so a replaced or popped value's buffer can go back to the pool the
	// moment its view leaves the table
	slots := make([]*bytebufferpool.ByteBuffer, totalKeys)

	var mu sync.Mutex
	stats := &chainStats{}
	tracker := metrics.NewLatencyTracker()

	put := func(i int) {
		buf := bytebufferpool.Get()
		fmt.Fprintf(buf, "val-%d-", i)
		for buf.Len() < valueBytes {
			buf.WriteByte('a')
		}

		start := time.Now()
		mu.Lock()
		_, replaced := tbl.Put(view.RO(keys[i]), view.RW(buf.B))
		prev := slots[i]
		slots[i] = buf
		mu.Unlock()
		tracker.RecordPut(time.Since(start))

		if replaced {
			// the previous value view is out of the table now; its
			// backing buffer is free to recycle
			bytebufferpool.Put(prev)
			stats.Replaces.Add(1)
		}
		stats.Puts.Add(1)
	}

	pop := func(i int) {
		mu.Lock()
		_, ok := tbl.Pop(view.RO(keys[i]))
		prev := slots[i]
		slots[i] = nil
		mu.Unlock()

		if ok {
			bytebufferpool.Put(prev)
		}
		stats.Pops.Add(1)
	}

	get := func(i int) {
		start := time.Now()
		mu.Lock()
		_, ok := tbl.Lookup(view.RO(keys[i]))
		mu.Unlock()
		tracker.RecordGet(time.Since(start))

		if ok {
			stats.Hits.Add(1)
		}
		stats.Gets.Add(1)
	}

	// prepopulate 70% of the key space
	log.Info().Msg("prepopulating keys")
	for i := 0; i < totalKeys; i++ {
		if i%10 < 7 {
			put(i)
		}
	}
	log.Info().Msgf("prepopulated, table holds %d entries", tbl.Len())

	stopCh := make(chan struct{})
	if logStats {
		go metrics.RunConsoleLogger(10*time.Second, func() metrics.Snapshot {
			mu.Lock()
			ts := tbl.Stats()
			mu.Unlock()
			return snapshotOf(stats, tracker, ts)
		}, stopCh)
	}

	deadline := time.Now().Add(time.Duration(durationSecs) * time.Second)
	var wg sync.WaitGroup

	for w := 0; w < readWorkers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			if pinWorkers {
				pinToCPU(worker)
			}
			for time.Now().Before(deadline) {
				get(normalDistInt(totalKeys))
			}
		}(w)
	}
	for w := 0; w < writeWorkers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			if pinWorkers {
				pinToCPU(readWorkers + worker)
			}
			n := 0
			for time.Now().Before(deadline) {
				i := normalDistInt(totalKeys)
				// mostly overwrites, occasional removal
				if n%10 == 9 {
					pop(i)
				} else {
					put(i)
				}
				n++
			}
		}(w)
	}
	wg.Wait()
	close(stopCh)

	mu.Lock()
	ts := tbl.Stats()
	mu.Unlock()
	final := snapshotOf(stats, tracker, ts)
	rThroughput := float64(final.Gets) / float64(durationSecs)
	wThroughput := float64(final.Puts) / float64(durationSecs)
	hitRate := 0.0
	if final.Gets > 0 {
		hitRate = float64(final.Hits) / float64(final.Gets)
	}
	log.Info().Msgf("run complete: %d gets, %d puts, %d pops, hit rate %.4f, max chain %d",
		final.Gets, final.Puts, final.Pops, hitRate, ts.MaxChainLen)

	if csvPath != "" {
		summary := metrics.RunSummary{
			Plan:        "chain",
			Keys:        totalKeys,
			Readers:     readWorkers,
			Writers:     writeWorkers,
			GetP25:      final.GetP25,
			GetP50:      final.GetP50,
			GetP99:      final.GetP99,
			PutP25:      final.PutP25,
			PutP50:      final.PutP50,
			PutP99:      final.PutP99,
			RThroughput: rThroughput,
			WThroughput: wThroughput,
			HitRate:     hitRate,
			Entries:     ts.Entries,
			MaxChain:    ts.MaxChainLen,
		}
		if err := metrics.AppendCSV(csvPath, summary); err != nil {
			log.Error().Err(err).Msg("failed to append run summary")
		}
	}

	if memProfile != "" {
		f, err := os.Create(memProfile)
		if err != nil {
			log.Error().Err(err).Msg("failed to create memory profile")
			return
		}
		defer f.Close()
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Error().Err(err).Msg("failed to write memory profile")
		}
	}
}

func snapshotOf(stats *chainStats, tracker *metrics.LatencyTracker, ts hashtable.Stats) metrics.Snapshot {
	s := metrics.Snapshot{
		Gets:     stats.Gets.Load(),
		Puts:     stats.Puts.Load(),
		Pops:     stats.Pops.Load(),
		Hits:     stats.Hits.Load(),
		Replaces: stats.Replaces.Load(),
		Entries:  ts.Entries,
		Buckets:  ts.Buckets,
		MaxChain: ts.MaxChainLen,
	}
	s.GetP25, s.GetP50, s.GetP99 = tracker.GetLatencyPercentiles()
	s.PutP25, s.PutP50, s.PutP99 = tracker.PutLatencyPercentiles()
	return s
}
