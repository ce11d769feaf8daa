// Package delivery defines the contract every transport implementation
// (HTTP today) satisfies so main can serve them uniformly.
package delivery

import "context"

// Delivery is a serving surface with a blocking Serve loop. Shutdown is
// handled through fx lifecycle hooks registered by the implementation.
type Delivery interface {
	Serve(ctx context.Context) error
}
