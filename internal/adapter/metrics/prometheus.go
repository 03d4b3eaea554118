package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gitlab.com/fcv-2025.net/grader/internal/core/ports/secondary"
	"gitlab.com/fcv-2025.net/grader/internal/domain"
)

var _ secondary.GradingMetrics = (*Recorder)(nil)

// Recorder exports grading counters to a prometheus registry
type Recorder struct {
	verdicts *prometheus.CounterVec
	cases    *prometheus.CounterVec
	duration prometheus.Histogram
	score    prometheus.Histogram
}

func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		verdicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "grader_verdicts_total",
				Help: "Graded submissions by mode and overall status",
			},
			[]string{"mode", "status"},
		),
		cases: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "grader_test_cases_total",
				Help: "Evaluated test cases by outcome",
			},
			[]string{"outcome"},
		),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "grader_test_case_duration_seconds",
			Help:    "Wall time from submit to terminal result for one test case",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
		}),
		score: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "grader_verdict_score",
			Help:    "Score of graded submissions",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		}),
	}
	reg.MustRegister(r.verdicts, r.cases, r.duration, r.score)
	return r
}

func (r *Recorder) RecordCase(result domain.TestCaseResult, elapsed time.Duration) {
	r.cases.WithLabelValues(caseOutcome(result)).Inc()
	r.duration.Observe(elapsed.Seconds())
}

func (r *Recorder) RecordVerdict(verdict *domain.GradingVerdict) {
	r.verdicts.WithLabelValues(string(verdict.Mode), string(verdict.OverallStatus)).Inc()
	r.score.Observe(float64(verdict.Score))
}

func caseOutcome(result domain.TestCaseResult) string {
	switch {
	case result.Passed:
		return "passed"
	case result.ErrorKind != domain.ErrorKindNone:
		return string(result.ErrorKind)
	default:
		return "mismatch"
	}
}

// Handler serves the registry in the text exposition format
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}
