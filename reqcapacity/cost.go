// Package reqcapacity implements admission control: independent of
// retry classification, it decides whether the client currently has
// enough shared retry capacity to attempt another request.
package reqcapacity

import (
	"fmt"

	"github.com/aponysus/retrycap/classify"
)

// ExceptionCostCalculator maps a failure to a non-negative token cost.
// A nil Failure (e.g. on a fresh context) costs the default amount.
type ExceptionCostCalculator func(f *classify.Failure) int

// NewExceptionCostCalculator builds a calculator that charges
// throttlingCost when it is non-nil and the classifier says f is a
// throttling failure, and defaultCost otherwise.
func NewExceptionCostCalculator(classifier classify.Classifier, throttlingCost *int, defaultCost int) ExceptionCostCalculator {
	if defaultCost < 0 {
		panic(fmt.Sprintf("reqcapacity: defaultCost must not be negative, got %d", defaultCost))
	}
	if throttlingCost != nil && *throttlingCost < 0 {
		panic(fmt.Sprintf("reqcapacity: throttlingCost must not be negative, got %d", *throttlingCost))
	}
	return func(f *classify.Failure) int {
		if throttlingCost != nil && classifier.IsThrottling(f) {
			return *throttlingCost
		}
		return defaultCost
	}
}

// LegacyCost is the cost calculator for RetryMode LEGACY: throttling
// failures are free (0), everything else costs 5. This deliberately
// excludes throttling from draining the bucket, since legacy clients
// relied on server-side back-pressure instead.
func LegacyCost(classifier classify.Classifier) ExceptionCostCalculator {
	zero := 0
	return NewExceptionCostCalculator(classifier, &zero, 5)
}

// StandardCost is the cost calculator for RetryMode STANDARD: every
// retryable failure, throttling included, costs 5.
func StandardCost(classifier classify.Classifier) ExceptionCostCalculator {
	return NewExceptionCostCalculator(classifier, nil, 5)
}
