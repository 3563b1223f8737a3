package classify

// Classifier is the external FailureClassifier collaborator: it
// answers the three questions the retry core needs about a Failure
// without needing to know how the failure was derived from the wire
// response or transport exception.
type Classifier interface {
	IsThrottling(f *Failure) bool
	IsRetryable(f *Failure) bool
	IsNonRetryable(f *Failure) bool
}

// DefaultClassifier is retryable if the failure kind is one of the
// essential retryable kinds, the status code is one of the classic
// server-error codes, or the service's error code list marks it
// retryable. A failure of kind SERVICE_NON_RETRYABLE,
// CLIENT_NON_RETRYABLE or CAPACITY_EXCEEDED is never retryable,
// whatever its status code or error code.
type DefaultClassifier struct {
	// RetryableStatusCodes overrides the default {500, 502, 503, 504}
	// set when non-nil.
	RetryableStatusCodes map[int]struct{}

	// RetryableCodes is a service-defined set of error codes considered
	// retryable regardless of status code or kind.
	RetryableCodes map[string]struct{}
}

// NewDefaultClassifier builds a DefaultClassifier with the standard
// {500, 502, 503, 504} retryable status codes plus any additional
// service-specific retryable error codes.
func NewDefaultClassifier(retryableCodes ...string) *DefaultClassifier {
	codes := make(map[string]struct{}, len(retryableCodes))
	for _, c := range retryableCodes {
		codes[c] = struct{}{}
	}
	return &DefaultClassifier{
		RetryableStatusCodes: defaultRetryableStatusCodes(),
		RetryableCodes:       codes,
	}
}

func defaultRetryableStatusCodes() map[int]struct{} {
	return map[int]struct{}{
		500: {},
		502: {},
		503: {},
		504: {},
	}
}

func (c *DefaultClassifier) IsThrottling(f *Failure) bool {
	if f == nil {
		return false
	}
	if f.Kind == KindServiceThrottling {
		return true
	}
	return f.StatusCode == 429
}

func (c *DefaultClassifier) IsRetryable(f *Failure) bool {
	if f == nil {
		return false
	}
	switch f.Kind {
	case KindNetworkIO, KindServiceThrottling, KindServiceTransient:
		return true
	case KindServiceNonRetryable, KindClientNonRetryable, KindCapacityExceeded:
		return false
	}
	if _, ok := c.statusCodes()[f.StatusCode]; ok {
		return true
	}
	if f.Code != "" {
		if _, ok := c.codes()[f.Code]; ok {
			return true
		}
	}
	return false
}

func (c *DefaultClassifier) IsNonRetryable(f *Failure) bool {
	if f == nil {
		return false
	}
	return f.Kind == KindServiceNonRetryable || f.Kind == KindClientNonRetryable
}

func (c *DefaultClassifier) statusCodes() map[int]struct{} {
	if c.RetryableStatusCodes != nil {
		return c.RetryableStatusCodes
	}
	return defaultRetryableStatusCodes()
}

func (c *DefaultClassifier) codes() map[string]struct{} {
	if c.RetryableCodes != nil {
		return c.RetryableCodes
	}
	return nil
}
