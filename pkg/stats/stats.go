package stats

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

const (
	BYTE = 1 << (10 * iota)
	KILOBYTE
	MEGABYTE
	GIGABYTE
	TERABYTE
)

const dumpFilename = "stats"

var (
	validations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "feevalidator",
			Name:      "validations_total",
			Help:      "Number of terminated fee validations by outcome.",
		},
		[]string{"currency", "role", "status"},
	)
	fetchFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "feevalidator",
			Name:      "fetch_failures_total",
			Help:      "Number of failed requests to the block explorer.",
		},
	)
)

func init() {
	prometheus.MustRegister(validations, fetchFailures)
}

// RecordValidation increments the counter of validations terminated with
// the given status.
func RecordValidation(currency, role, status string) {
	validations.WithLabelValues(currency, role, status).Inc()
}

// RecordFetchFailure increments the counter of failed explorer requests.
func RecordFetchFailure() {
	fetchFailures.Inc()
}

// Validations returns the counter vector of terminated validations.
func Validations() *prometheus.CounterVec {
	return validations
}

// EnableMemoryStatistics enables go routine that periodically prints memory
// usage of the go process. When the context is done, the default prometheus
// metrics are dumped into the given dir, if any.
func EnableMemoryStatistics(
	ctx context.Context, interval time.Duration, dumpDir string,
) {
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				PrintMemoryStatistics()
				PrintNumOfRoutines()
			case <-ctx.Done():
				if len(dumpDir) <= 0 {
					return
				}
				if err := DumpPrometheusDefaults(
					filepath.Join(dumpDir, dumpFilename),
				); err != nil {
					log.WithError(err).Warn("failed to dump prometheus metrics")
				}
				return
			}
		}
	}()
}

// toGigabytes returns given memory in bytes to gigabytes.
func toGigabytes(bytes uint64) float64 {
	return float64(bytes) / GIGABYTE
}

// PrintMemoryStatistics prints memory statistics using go runtime library.
func PrintMemoryStatistics() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	log.Infof(
		"Total allocated: %.3fGB, Heap allocated: %.3fGB, "+
			"Allocated objects count: %v, Freed objects count: %v",
		toGigabytes(memStats.TotalAlloc),
		toGigabytes(memStats.HeapAlloc),
		memStats.Mallocs,
		memStats.Frees,
	)
}

// DumpPrometheusDefaults appends the metrics of the default prometheus
// gatherer to the given file.
func DumpPrometheusDefaults(filename string) error {
	file, err := os.OpenFile(
		filename,
		os.O_APPEND|os.O_CREATE|os.O_RDWR,
		0644,
	)
	if err != nil {
		return err
	}
	defer file.Close()

	metricFamily, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return err
	}

	writer := bufio.NewWriter(file)
	for _, v := range metricFamily {
		if _, err := writer.WriteString(v.String() + "\n"); err != nil {
			return err
		}
	}
	return writer.Flush()
}

// PrintNumOfRoutines prints number of go routines currently running
func PrintNumOfRoutines() {
	log.Infof("Num of go routines: %v", runtime.NumGoroutine())
}
