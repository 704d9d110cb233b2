package metrics

import (
	"time"

	"github.com/rs/zerolog/log"
)

// Snapshot is one sampling of a running table workload.
type Snapshot struct {
	Gets     uint64
	Puts     uint64
	Pops     uint64
	Hits     uint64
	Replaces uint64

	Entries  int
	Buckets  int
	MaxChain int

	GetP25, GetP50, GetP99 time.Duration
	PutP25, PutP50, PutP99 time.Duration
}

// RunConsoleLogger samples the workload every interval and dumps
// throughput, hit rate, occupancy and latency percentiles to the log.
// Also forwards the figures to statsd when metrics are enabled. Returns
// when stopCh closes.
func RunConsoleLogger(interval time.Duration, snapshot func() Snapshot, stopCh <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var prevGets, prevPuts, prevHits uint64

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			s := snapshot()

			rThroughput := float64(s.Gets-prevGets) / interval.Seconds()
			wThroughput := float64(s.Puts-prevPuts) / interval.Seconds()
			hitRate := 0.0
			if gets := s.Gets - prevGets; gets > 0 {
				hitRate = float64(s.Hits-prevHits) / float64(gets)
			}

			log.Info().Msgf("GetP25: %v", s.GetP25)
			log.Info().Msgf("GetP50: %v", s.GetP50)
			log.Info().Msgf("GetP99: %v", s.GetP99)
			log.Info().Msgf("PutP25: %v", s.PutP25)
			log.Info().Msgf("PutP50: %v", s.PutP50)
			log.Info().Msgf("PutP99: %v", s.PutP99)
			log.Info().Msgf("RThroughput: %v", rThroughput)
			log.Info().Msgf("WThroughput: %v", wThroughput)
			log.Info().Msgf("HitRate: %v", hitRate)
			log.Info().Msgf("Entries: %v, Buckets: %v, MaxChain: %v", s.Entries, s.Buckets, s.MaxChain)

			if Enabled() {
				Gauge(KEY_RTHROUGHPUT, rThroughput, nil)
				Gauge(KEY_WTHROUGHPUT, wThroughput, nil)
				Gauge(KEY_HITRATE, hitRate, nil)
				Gauge(KEY_ENTRIES, float64(s.Entries), nil)
				Gauge(KEY_MAX_CHAIN, float64(s.MaxChain), nil)
				Timing(KEY_GET_LATENCY, s.GetP50, GetPercentileTag(TAG_VALUE_P50))
				Timing(KEY_GET_LATENCY, s.GetP99, GetPercentileTag(TAG_VALUE_P99))
				Timing(KEY_PUT_LATENCY, s.PutP50, GetPercentileTag(TAG_VALUE_P50))
				Timing(KEY_PUT_LATENCY, s.PutP99, GetPercentileTag(TAG_VALUE_P99))
			}

			prevGets = s.Gets
			prevPuts = s.Puts
			prevHits = s.Hits
		}
	}
}
