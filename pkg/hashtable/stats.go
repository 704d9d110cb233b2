package hashtable

// Stats summarizes table occupancy for load-factor monitoring.
type Stats struct {
	Entries     int
	Buckets     int
	UsedBuckets int
	MaxChainLen int
}

// Stats walks every bucket. O(buckets + entries); meant for tests and
// periodic stat dumps, not hot paths.
func (t *Table) Stats() Stats {
	s := Stats{
		Entries: t.entries,
		Buckets: len(t.buckets),
	}
	for i := range t.buckets {
		chain := 0
		for n := t.buckets[i].First(); n != nil; n = n.Next() {
			chain++
		}
		if chain > 0 {
			s.UsedBuckets++
		}
		if chain > s.MaxChainLen {
			s.MaxChainLen = chain
		}
	}
	return s
}
