package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(documentUploadBytes, documentUploadsTotal)
}

var (
	documentUploadBytes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "document_upload_bytes",
			Help:    "Size distribution of uploaded documents.",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8), // 1KiB .. ~16MiB
		},
	)

	documentUploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "document_uploads_total",
			Help: "Document uploads by outcome (stored/quota_exceeded/failed).",
		},
		[]string{"outcome"},
	)
)

func ObserveDocumentUpload(sizeBytes int64, outcome string) {
	if sizeBytes > 0 {
		documentUploadBytes.Observe(float64(sizeBytes))
	}
	documentUploadsTotal.WithLabelValues(outcome).Inc()
}
