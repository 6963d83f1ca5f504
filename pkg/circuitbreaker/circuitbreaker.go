package circuitbreaker

import (
	"github.com/sony/gobreaker"

	log "github.com/sirupsen/logrus"
)

var (
	// MaxNumOfFailingRequests ...
	MaxNumOfFailingRequests = 10
	// FailingRatio ...
	FailingRatio = 0.6
)

// Opts is the struct given to NewCircuitBreaker. Zero values fall back to
// MaxNumOfFailingRequests and FailingRatio.
type Opts struct {
	Name               string
	MaxFailingRequests int
	FailingRatio       float64
}

// NewCircuitBreaker is a factory function returning a *gobreaker.CircuitBreaker
// with a default state-changing function that activates if the overall number
// of failing requests have reached a tweakable MaxFailingRequests cap and
// the failing ratio has met the FailingRatio.
func NewCircuitBreaker(opts Opts) *gobreaker.CircuitBreaker {
	name := opts.Name
	if name == "" {
		name = "circuitbreaker"
	}
	maxFailing := opts.MaxFailingRequests
	if maxFailing <= 0 {
		maxFailing = MaxNumOfFailingRequests
	}
	failingRatio := opts.FailingRatio
	if failingRatio <= 0 {
		failingRatio = FailingRatio
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: name,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return int(counts.Requests) > maxFailing && ratio >= failingRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(log.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("circuit breaker changed state")
		},
	})
}
