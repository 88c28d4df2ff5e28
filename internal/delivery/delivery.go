// Package delivery defines the contract every transport entrypoint
// (HTTP API, worker) fulfils so main can start them uniformly.
package delivery

import "context"

// Delivery is a long-running transport server. Serve blocks until the
// server stops; shutdown is handled through the Fx lifecycle.
type Delivery interface {
	Serve(ctx context.Context) error
}
