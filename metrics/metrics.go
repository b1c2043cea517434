// Package metrics defines the recording contract for verification
// outcomes and latency. The prometheus implementation labels series by
// payment method; NoopRecorder is the default.
package metrics

import "time"

// Recorder receives one counter increment per verdict and one latency
// observation per verification.
type Recorder interface {
	IncCounter(name string, labels map[string]string)
	ObserveLatency(name string, duration time.Duration, labels map[string]string)
}
