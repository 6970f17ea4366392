package roadrunner

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

const (
	// Histogram value range in microseconds. One minute is far beyond any
	// latency a single store operation should ever exhibit.
	histogramMinValue = 1
	histogramMaxValue = int64(time.Minute / time.Microsecond)
	histogramSigFigs  = 3
)

var reportQuantiles = []float64{50.0, 75.0, 95.0, 99.0}

// Report is the end-of-run summary: operation counts, per-label latency
// percentiles and the per-thread elapsed spread.
type Report struct {
	totalOps      int64
	measuredOps   int64
	histograms    map[string]*hdrhistogram.Histogram
	totalElapsed  time.Duration
	threadElapsed []time.Duration
}

// BuildReport folds every recorded sample into a per-label histogram.
// Samples are recorded in microseconds; values beyond the histogram range
// are clamped by the library rather than dropped.
func BuildReport(dispatcher *WorkloadDispatcher, totalElapsed time.Duration) *Report {
	report := &Report{
		totalOps:      dispatcher.GetTotalOps(),
		measuredOps:   dispatcher.GetMeasuredOps(),
		histograms:    make(map[string]*hdrhistogram.Histogram),
		totalElapsed:  totalElapsed,
		threadElapsed: dispatcher.GetThreadElapsed(),
	}
	for label, samples := range dispatcher.GetMeasures() {
		histogram := hdrhistogram.New(
			histogramMinValue, histogramMaxValue, histogramSigFigs)
		for _, sample := range samples {
			micros := NanosecondToMicrosecond(sample.Nanoseconds())
			if micros < histogramMinValue {
				micros = histogramMinValue
			}
			if micros > histogramMaxValue {
				micros = histogramMaxValue
			}
			histogram.RecordValue(micros)
		}
		report.histograms[label] = histogram
	}
	return report
}

func (self *Report) TotalOps() int64 {
	return self.totalOps
}

func (self *Report) MeasuredOps() int64 {
	return self.measuredOps
}

// ValueAtQuantile returns the latency in microseconds at the given
// percentile for the label, or 0 when the label has no samples. The
// histogram rounds up to a bucket's highest equivalent value, which can
// land beyond the configured maximum; reported values are capped at it.
func (self *Report) ValueAtQuantile(label string, quantile float64) int64 {
	histogram, ok := self.histograms[label]
	if !ok {
		return 0
	}
	v := histogram.ValueAtQuantile(quantile)
	if v > histogramMaxValue {
		v = histogramMaxValue
	}
	return v
}

func (self *Report) shortestLongest() (time.Duration, time.Duration) {
	if len(self.threadElapsed) == 0 {
		return 0, 0
	}
	shortest, longest := self.threadElapsed[0], self.threadElapsed[0]
	for _, e := range self.threadElapsed[1:] {
		if e < shortest {
			shortest = e
		}
		if e > longest {
			longest = e
		}
	}
	return shortest, longest
}

// String renders the summary in the classic run-log form: counts first,
// then one block per operation label with its percentile lines, then the
// elapsed lines.
func (self *Report) String() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Operations: measured %d ops out of total %d ops\n",
		self.measuredOps, self.totalOps)

	labels := make([]string, 0, len(self.histograms))
	for label := range self.histograms {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		histogram := self.histograms[label]
		fmt.Fprintf(&buf, "%s (%d samples):\n", label, histogram.TotalCount())
		for _, quantile := range reportQuantiles {
			fmt.Fprintf(&buf, "   %vth Percentile: %d µs\n",
				quantile, self.ValueAtQuantile(label, quantile))
		}
	}

	fmt.Fprintf(&buf, "Elapsed: %v\n", self.totalElapsed)
	shortest, longest := self.shortestLongest()
	fmt.Fprintf(&buf, "Shortest Thread: %v\n", shortest)
	fmt.Fprintf(&buf, "Longest Thread: %v\n", longest)
	return buf.String()
}

// Print writes the report to standard output.
func (self *Report) Print() {
	Println("%s", self.String())
}
