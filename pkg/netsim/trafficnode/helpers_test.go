package trafficnode

// recordingStats is a minimal node.Stats used by this package's tests to
// assert on counter values without pulling in the real collector
// package.
type recordingStats struct {
	counters map[string]int64
}

func newRecordingStats() *recordingStats {
	return &recordingStats{counters: make(map[string]int64)}
}

func (s *recordingStats) RegisterCounter(name string)           { s.counters[name] = 0 }
func (s *recordingStats) IncrCounter(name string, amount int64) { s.counters[name] += amount }
func (s *recordingStats) RegisterCycleStats(string)              {}
func (s *recordingStats) RecordCycleStats(string, int, bool)     {}
func (s *recordingStats) RegisterIntervalCounter(string, int)    {}
func (s *recordingStats) IncrIntervalCounter(string, int, int64) {}
