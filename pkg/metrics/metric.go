// Package metrics emits workload metrics for the table bench tooling:
// statsd (via telegraf) when enabled, zerolog console dumps otherwise.
package metrics

import (
	"os"
	"strings"
	"sync"
	"time"

	"github.com/DataDog/datadog-go/v5/statsd"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Garage metric keys
const (
	KEY_GET_LATENCY = "garage_get_latency"
	KEY_PUT_LATENCY = "garage_put_latency"
	KEY_RTHROUGHPUT = "garage_rthroughput"
	KEY_WTHROUGHPUT = "garage_wthroughput"
	KEY_HITRATE     = "garage_hitrate"
	KEY_ENTRIES     = "garage_entries"
	KEY_MAX_CHAIN   = "garage_max_chain"
	KEY_GETS        = "garage_gets"
	KEY_PUTS        = "garage_puts"
	KEY_POPS        = "garage_pops"
	KEY_HITS        = "garage_hits"
	KEY_REPLACES    = "garage_replaces"
)

var (
	statsDClient    = getDefaultClient()
	samplingRate    = 0.1
	telegrafAddress = "localhost:8125"
	appName         = ""
	initialized     = false
	once            sync.Once

	// When false, all Timing/Count/Incr/Gauge calls are no-ops.
	// Controlled by the GARAGE_METRICS_ENABLED env var ("true"/"1" to
	// enable).
	metricsEnabled = loadMetricsEnabled()
)

func loadMetricsEnabled() bool {
	v := os.Getenv("GARAGE_METRICS_ENABLED")
	if v == "" {
		return false
	}
	return strings.EqualFold(v, "true") || v == "1"
}

// Init initializes the statsd client from viper config. Safe to call more
// than once.
func Init() {
	if initialized {
		log.Debug().Msgf("Metrics already initialized!")
		return
	}
	once.Do(func() {
		var err error
		samplingRate = viper.GetFloat64("APP_METRIC_SAMPLING_RATE")
		appName = viper.GetString("APP_NAME")
		globalTags := getGlobalTags()

		statsDClient, err = statsd.New(
			telegrafAddress,
			statsd.WithTags(globalTags),
		)
		if err != nil {
			log.Panic().AnErr("StatsD client initialization failed", err)
		}
		log.Info().Msgf("Metrics client initialized with telegraf address - %s, global tags - %v, "+
			"sampling rate - %f, garage metrics enabled - %v", telegrafAddress, globalTags, samplingRate, metricsEnabled)
		initialized = true
	})
}

func getDefaultClient() *statsd.Client {
	client, _ := statsd.New("localhost:8125")
	return client
}

func getGlobalTags() []string {
	env := viper.GetString("APP_ENV")
	if len(env) == 0 {
		log.Warn().Msg("APP_ENV is not set")
	}
	service := viper.GetString("APP_NAME")
	if len(service) == 0 {
		log.Warn().Msg("APP_NAME is not set")
	}
	return []string{
		TagAsString(TagEnv, env),
		TagAsString(TagService, service),
	}
}

// Timing sends timing information. No-op when metrics are disabled.
func Timing(name string, value time.Duration, tags []string) {
	if !metricsEnabled {
		return
	}
	tags = append(tags, TagAsString(TagService, appName))
	if err := statsDClient.Timing(name, value, tags, samplingRate); err != nil {
		log.Warn().AnErr("Error occurred while doing statsd timing", err)
	}
}

// Count increases a metric counter by value. No-op when metrics are
// disabled.
func Count(name string, value int64, tags []string) {
	if !metricsEnabled {
		return
	}
	tags = append(tags, TagAsString(TagService, appName))
	if err := statsDClient.Count(name, value, tags, samplingRate); err != nil {
		log.Warn().AnErr("Error occurred while doing statsd count", err)
	}
}

// Incr increases a metric counter by 1. No-op when metrics are disabled.
func Incr(name string, tags []string) {
	if !metricsEnabled {
		return
	}
	Count(name, 1, tags)
}

// Gauge sets a gauge value. No-op when metrics are disabled.
func Gauge(name string, value float64, tags []string) {
	if !metricsEnabled {
		return
	}
	tags = append(tags, TagAsString(TagService, appName))
	if err := statsDClient.Gauge(name, value, tags, samplingRate); err != nil {
		log.Warn().AnErr("Error occurred while doing statsd gauge", err)
	}
}

// Enabled returns whether garage metrics are enabled. Call sites should
// check this before allocating tags.
func Enabled() bool {
	return metricsEnabled
}
