package metrics

import (
	"sync/atomic"
	"time"
)

type Counter struct {
	value uint64
}

func (c *Counter) Inc() {
	atomic.AddUint64(&c.value, 1)
}

func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.value)
}

// Upstream counts calls made to the catalog backend.
type Upstream struct {
	Requests       Counter
	TransportFails Counter
	ErrorResponses Counter
}

type UpstreamSnapshot struct {
	Requests       uint64 `json:"requests"`
	TransportFails uint64 `json:"transport_failures"`
	ErrorResponses uint64 `json:"error_responses"`
}

func (u *Upstream) Snapshot() UpstreamSnapshot {
	return UpstreamSnapshot{
		Requests:       u.Requests.Load(),
		TransportFails: u.TransportFails.Load(),
		ErrorResponses: u.ErrorResponses.Load(),
	}
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
