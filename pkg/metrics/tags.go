package metrics

import "strconv"

const (
	TagEnv     = "env"
	TagService = "service"

	TAG_LATENCY_PERCENTILE = "latency_percentile"
	TAG_VALUE_P25          = "p25"
	TAG_VALUE_P50          = "p50"
	TAG_VALUE_P99          = "p99"
	TAG_PLAN               = "plan"
	TAG_WORKER_IDX         = "worker_idx"
)

type Tag struct {
	Key   string
	Value string
}

func NewTag(key, value string) Tag {
	return Tag{Key: key, Value: value}
}

func TagAsString(key, value string) string {
	return key + ":" + value
}

func BuildTag(tags ...Tag) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, TagAsString(t.Key, t.Value))
	}
	return out
}

func GetPercentileTag(percentile string) []string {
	return BuildTag(NewTag(TAG_LATENCY_PERCENTILE, percentile))
}

func GetWorkerTag(workerIdx int) []string {
	return BuildTag(NewTag(TAG_WORKER_IDX, strconv.Itoa(workerIdx)))
}
