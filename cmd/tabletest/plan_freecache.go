package main

import (
	"flag"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/coocood/freecache"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/evidencebp/garage/pkg/metrics"
)

// planFreecache runs the same gaussian workload against freecache, as a
// copying, internally-synchronized baseline for the chained table.
func planFreecache() {
	var (
		totalKeys    int
		readWorkers  int
		writeWorkers int
		durationSecs int
		valueBytes   int
		cacheMB      int
		logStats     bool
		csvPath      string
	)

	flag.IntVar(&totalKeys, "keys", 2_000_000, "key space size")
	flag.IntVar(&readWorkers, "readers", 4, "number of read workers")
	flag.IntVar(&writeWorkers, "writers", 2, "number of write workers")
	flag.IntVar(&durationSecs, "duration-secs", 60, "workload duration in seconds")
	flag.IntVar(&valueBytes, "value-bytes", 1024, "payload size per value")
	flag.IntVar(&cacheMB, "cache-mb", 4096, "freecache size in MiB")
	flag.BoolVar(&logStats, "log-stats", true, "periodically log cache stats")
	flag.StringVar(&csvPath, "csv", metrics.CSVFileName, "append run summary to this CSV file")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cache := freecache.NewCache(cacheMB * 1024 * 1024)
	debug.SetGCPercent(20)

	keys := make([][]byte, totalKeys)
	vals := make([][]byte, totalKeys)
	for i := range keys {
		keys[i] = []byte(fmt.Sprintf("stream-%d/recv", i))
		v := make([]byte, 0, valueBytes)
		v = append(v, fmt.Sprintf("val-%d-", i)...)
		for len(v) < valueBytes {
			v = append(v, 'a')
		}
		vals[i] = v
	}

	stats := &chainStats{}
	tracker := metrics.NewLatencyTracker()

	log.Info().Msg("prepopulating keys")
	for i := 0; i < totalKeys; i++ {
		if i%10 < 7 {
			if err := cache.Set(keys[i], vals[i], 0); err != nil {
				panic(err)
			}
		}
	}

	stopCh := make(chan struct{})
	if logStats {
		go func() {
			ticker := time.NewTicker(10 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-stopCh:
					return
				case <-ticker.C:
					log.Info().Msgf("HitRate: %v", cache.HitRate())
					log.Info().Msgf("Entries: %v", cache.EntryCount())
					log.Info().Msgf("Evacuated: %v", cache.EvacuateCount())
				}
			}
		}()
	}

	deadline := time.Now().Add(time.Duration(durationSecs) * time.Second)
	var wg sync.WaitGroup

	for w := 0; w < readWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(deadline) {
				i := normalDistInt(totalKeys)
				start := time.Now()
				_, err := cache.Get(keys[i])
				tracker.RecordGet(time.Since(start))
				if err == nil {
					stats.Hits.Add(1)
				}
				stats.Gets.Add(1)
			}
		}()
	}
	for w := 0; w < writeWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n := 0
			for time.Now().Before(deadline) {
				i := normalDistInt(totalKeys)
				if n%10 == 9 {
					cache.Del(keys[i])
					stats.Pops.Add(1)
				} else {
					start := time.Now()
					if err := cache.Set(keys[i], vals[i], 0); err != nil {
						panic(err)
					}
					tracker.RecordPut(time.Since(start))
					stats.Puts.Add(1)
				}
				n++
			}
		}()
	}
	wg.Wait()
	close(stopCh)

	gets := stats.Gets.Load()
	puts := stats.Puts.Load()
	hitRate := 0.0
	if gets > 0 {
		hitRate = float64(stats.Hits.Load()) / float64(gets)
	}
	getP25, getP50, getP99 := tracker.GetLatencyPercentiles()
	putP25, putP50, putP99 := tracker.PutLatencyPercentiles()
	log.Info().Msgf("run complete: %d gets, %d puts, %d dels, hit rate %.4f",
		gets, puts, stats.Pops.Load(), hitRate)

	if csvPath != "" {
		summary := metrics.RunSummary{
			Plan:        "freecache",
			Keys:        totalKeys,
			Readers:     readWorkers,
			Writers:     writeWorkers,
			GetP25:      getP25,
			GetP50:      getP50,
			GetP99:      getP99,
			PutP25:      putP25,
			PutP50:      putP50,
			PutP99:      putP99,
			RThroughput: float64(gets) / float64(durationSecs),
			WThroughput: float64(puts) / float64(durationSecs),
			HitRate:     hitRate,
			Entries:     int(cache.EntryCount()),
		}
		if err := metrics.AppendCSV(csvPath, summary); err != nil {
			log.Error().Err(err).Msg("failed to append run summary")
		}
	}
}
