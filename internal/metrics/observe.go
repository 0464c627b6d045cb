package metrics

import (
	"time"

	"github.com/georgemunganga/bazaar-ledger/internal/ledger"
)

// Observe records the outcome of one transition started at start. It is
// meant to be deferred with a pointer to the caller's named error result.
// Typed ledger errors are labelled by their code.
func Observe(module, op string, start time.Time, errp *error) {
	var err error
	if errp != nil {
		err = *errp
	}
	TransitionDuration.WithLabelValues(module, op).Observe(time.Since(start).Seconds())

	outcome := "ok"
	if err != nil {
		outcome = "error"
		if le, ok := ledger.AsError(err); ok {
			outcome = le.Code
		}
	}
	Transitions.WithLabelValues(module, op, outcome).Inc()
}
