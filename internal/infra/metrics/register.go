package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	mu        sync.Mutex
	collected []prometheus.Collector
	once      sync.Once
)

// register queues collectors from per-file init functions.
func register(cs ...prometheus.Collector) {
	mu.Lock()
	defer mu.Unlock()
	collected = append(collected, cs...)
}

// MustRegister registers every queued collector with the default registry.
// Idempotent; call once from main.
func MustRegister() {
	once.Do(func() {
		mu.Lock()
		defer mu.Unlock()
		prometheus.MustRegister(collected...)
	})
}
