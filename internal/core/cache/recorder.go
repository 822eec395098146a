package cache

// Recorder receives cache outcome counters. observability.Metrics implements it.
type Recorder interface {
	CacheHit(family string)
	CacheMiss(family string)
	CachePopulateFailed(family string)
	KeysInvalidated(n int)
	InvalidationFailed()
}

type nopRecorder struct{}

func (nopRecorder) CacheHit(string)            {}
func (nopRecorder) CacheMiss(string)           {}
func (nopRecorder) CachePopulateFailed(string) {}
func (nopRecorder) KeysInvalidated(int)        {}
func (nopRecorder) InvalidationFailed()        {}

func recorderOrNop(r Recorder) Recorder {
	if r == nil {
		return nopRecorder{}
	}
	return r
}
