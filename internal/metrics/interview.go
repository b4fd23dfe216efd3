package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sessionsStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "interview_sessions_started_total",
		Help:      "Interview sessions created",
	}, []string{"round_type"})

	answersSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "interview_answers_total",
		Help:      "Answers accepted, by the turn they produced",
	}, []string{"turn"})

	sessionsCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "interview_sessions_completed_total",
		Help:      "Interview sessions that reached COMPLETED, by trigger",
	}, []string{"trigger"})

	evaluations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "interview_evaluations_total",
		Help:      "Scorecard generation attempts by outcome",
	}, []string{"outcome"})

	providerLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "llm_request_duration_seconds",
		Help:      "Latency of question and evaluation calls to the LLM provider",
		Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
	}, []string{"operation", "outcome"})
)

func SessionStarted(roundType string) {
	sessionsStarted.WithLabelValues(roundType).Inc()
}

func AnswerSubmitted(turn string) {
	answersSubmitted.WithLabelValues(turn).Inc()
}

func SessionCompleted(trigger string) {
	sessionsCompleted.WithLabelValues(trigger).Inc()
}

func EvaluationAttempt(outcome string) {
	evaluations.WithLabelValues(outcome).Inc()
}

// ObserveProvider records one provider call; err decides the outcome label.
func ObserveProvider(operation string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	providerLatency.WithLabelValues(operation, outcome).Observe(time.Since(start).Seconds())
}
