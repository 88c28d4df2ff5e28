// Package lifecycle defines shared timeouts for application start and shutdown hooks.
package lifecycle

import "time"

// DefaultTimeout bounds graceful startup and shutdown of long-lived components.
const DefaultTimeout = 10 * time.Second
