// Package policy assembles the immutable RetryPolicy bundle: a
// RetryMode's defaults, overridden piecewise by a caller-supplied
// Builder, closed over the aggregate retry condition the AttemptDriver
// consults.
package policy

import (
	"github.com/aponysus/retrycap/attemptctx"
	"github.com/aponysus/retrycap/backoff"
	"github.com/aponysus/retrycap/classify"
	"github.com/aponysus/retrycap/condition"
	"github.com/aponysus/retrycap/reqcapacity"
	"github.com/aponysus/retrycap/retrymode"
)

// Policy is the immutable bundle an AttemptDriver reads from. It is
// constructed once per client and shared read-only by every concurrent
// request's driver.
type Policy struct {
	NumRetries        int
	RetryCondition    condition.Predicate
	Backoff           backoff.Strategy
	ThrottlingBackoff backoff.Strategy
	Capacity          reqcapacity.RequestCapacity
	Mode              retrymode.Mode
	Classifier        classify.Classifier

	aggregate condition.Predicate
}

// AggregateRetryCondition returns And(MaxNumberOfRetries(numRetries),
// userRetryCondition[, capacityCondition-if-bundled]) as built by the
// Builder.
func (p *Policy) AggregateRetryCondition() condition.Predicate {
	return p.aggregate
}

// BackoffFor selects the throttling or default backoff strategy for
// ctx: the policy uses the throttling variant when the last failure is
// classified as throttling.
func (p *Policy) BackoffFor(ctx *attemptctx.Context) backoff.Strategy {
	if ctx.LastFailure != nil && p.Classifier.IsThrottling(ctx.LastFailure) {
		return p.ThrottlingBackoff
	}
	return p.Backoff
}

// None returns a policy that never retries and never gates on
// capacity.
func None() *Policy {
	return &Policy{
		NumRetries:        0,
		RetryCondition:    condition.Never(),
		Backoff:           backoff.NoBackoff{},
		ThrottlingBackoff: backoff.NoBackoff{},
		Capacity:          reqcapacity.UnlimitedCapacity{},
		Mode:              retrymode.Legacy,
		Classifier:        classify.NewDefaultClassifier(),
		aggregate:         condition.Never(),
	}
}

// Builder assembles a Policy from a RetryMode's defaults, overridden
// piecewise by explicit calls. Each setter modifies the Builder in
// place and returns it for chaining; the Policy that Build returns is
// not changed by later setter calls.
type Builder struct {
	mode             *retrymode.Mode
	profile           retrymode.ProfileSource
	numRetries        *int
	retryCondition    condition.Predicate
	backoffStrategy   backoff.Strategy
	throttlingBackoff backoff.Strategy
	capacity          reqcapacity.RequestCapacity
	classifier        classify.Classifier
	bundleCapacity    bool
}

// NewBuilder returns an empty Builder; every field left unset takes
// its RetryMode-derived default at Build time.
func NewBuilder() *Builder {
	return &Builder{}
}

// Mode explicitly overrides retry-mode resolution; when unset, Build
// resolves it via retrymode.ResolveDefault using Profile (if set).
func (b *Builder) Mode(m retrymode.Mode) *Builder {
	b.mode = &m
	return b
}

// Profile supplies the profile-file fallback consulted when Mode has
// not been explicitly set.
func (b *Builder) Profile(p retrymode.ProfileSource) *Builder {
	b.profile = p
	return b
}

func (b *Builder) NumRetries(n int) *Builder {
	b.numRetries = &n
	return b
}

func (b *Builder) RetryCondition(c condition.Predicate) *Builder {
	b.retryCondition = c
	return b
}

func (b *Builder) Backoff(s backoff.Strategy) *Builder {
	b.backoffStrategy = s
	return b
}

func (b *Builder) ThrottlingBackoff(s backoff.Strategy) *Builder {
	b.throttlingBackoff = s
	return b
}

func (b *Builder) Capacity(c reqcapacity.RequestCapacity) *Builder {
	b.capacity = c
	return b
}

func (b *Builder) Classifier(c classify.Classifier) *Builder {
	b.classifier = c
	return b
}

// BundleCapacityCondition folds the RequestCapacity admission check
// into the aggregate RetryCondition chain, matching the legacy
// "outageCompensation"-flagged bundled shape some callers still expect.
// The newer separate-RequestCapacity shape (the default) is preferred;
// this exists only to translate a caller that explicitly asks for the
// bundled shape. When set, the capacity condition is appended last, so
// it is never consulted for an attempt some earlier condition would
// have rejected.
func (b *Builder) BundleCapacityCondition(bundle bool) *Builder {
	b.bundleCapacity = bundle
	return b
}

// Build assembles the Policy. Resolution order for fields left unset:
// RetryMode-derived defaults, where the mode itself is resolved via
// the explicit override, then retrymode.ResolveDefault(profile).
func (b *Builder) Build() *Policy {
	mode := b.resolveMode()

	classifier := b.classifier
	if classifier == nil {
		classifier = classify.NewDefaultClassifier()
	}

	numRetries := retrymode.NumRetries(mode)
	if b.numRetries != nil {
		numRetries = *b.numRetries
	}

	retryCondition := b.retryCondition
	if retryCondition == nil {
		retryCondition = condition.DefaultClassifierCondition(classifier)
	}

	backoffStrategy := b.backoffStrategy
	if backoffStrategy == nil {
		backoffStrategy = backoff.Default
	}

	throttlingBackoff := b.throttlingBackoff
	if throttlingBackoff == nil {
		throttlingBackoff = backoff.Throttling
	}

	capacity := b.capacity
	if capacity == nil {
		var cost reqcapacity.ExceptionCostCalculator
		if mode == retrymode.Standard {
			cost = reqcapacity.StandardCost(classifier)
		} else {
			cost = reqcapacity.LegacyCost(classifier)
		}
		capacity = reqcapacity.NewTokenBucket(reqcapacity.DefaultTokenBucketSize, cost)
	}

	members := []condition.Predicate{condition.MaxNumberOfRetries(numRetries), retryCondition}
	if b.bundleCapacity {
		members = append(members, condition.CapacityBundle{Capacity: capacity})
	}

	return &Policy{
		NumRetries:        numRetries,
		RetryCondition:    retryCondition,
		Backoff:           backoffStrategy,
		ThrottlingBackoff: throttlingBackoff,
		Capacity:          capacity,
		Mode:              mode,
		Classifier:        classifier,
		aggregate:         condition.And(members...),
	}
}

func (b *Builder) resolveMode() retrymode.Mode {
	if b.mode != nil {
		return *b.mode
	}
	return retrymode.ResolveDefault(b.profile)
}
