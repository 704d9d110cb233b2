package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"
)

const CSVFileName = "performance_results.csv"

var csvHeader = []string{
	"plan", "keys", "readers", "writers",
	"get_p25", "get_p50", "get_p99",
	"put_p25", "put_p50", "put_p99",
	"rthroughput", "wthroughput", "hitrate",
	"entries", "max_chain",
}

// RunSummary is one finished bench run, appended as a CSV row.
type RunSummary struct {
	Plan    string
	Keys    int
	Readers int
	Writers int

	GetP25, GetP50, GetP99 time.Duration
	PutP25, PutP50, PutP99 time.Duration

	RThroughput float64
	WThroughput float64
	HitRate     float64

	Entries  int
	MaxChain int
}

// AppendCSV appends the run summary to path, writing the header first when
// the file is new.
func AppendCSV(path string, s RunSummary) error {
	info, statErr := os.Stat(path)
	fresh := statErr != nil || info.Size() == 0

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if fresh {
		if err := w.Write(csvHeader); err != nil {
			return err
		}
	}
	row := []string{
		s.Plan,
		fmt.Sprint(s.Keys),
		fmt.Sprint(s.Readers),
		fmt.Sprint(s.Writers),
		s.GetP25.String(),
		s.GetP50.String(),
		s.GetP99.String(),
		s.PutP25.String(),
		s.PutP50.String(),
		s.PutP99.String(),
		fmt.Sprintf("%.2f", s.RThroughput),
		fmt.Sprintf("%.2f", s.WThroughput),
		fmt.Sprintf("%.4f", s.HitRate),
		fmt.Sprint(s.Entries),
		fmt.Sprint(s.MaxChain),
	}
	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
