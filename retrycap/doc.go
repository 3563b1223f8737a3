// Package retrycap is the facade package: it wires policy, attempt,
// and observability together behind a small convenience surface so a
// caller doesn't need to import every leaf package directly.
//
// A minimal client-side retry loop:
//
//	pol := policy.NewBuilder().Mode(retrymode.Standard).Build()
//	resp, failure := retrycap.Do(ctx, pol, myExecutor, req)
package retrycap
