// Package constants defines shared application constants.
package constants

// Environment names.
const (
	EnvDevelop    = "develop"
	EnvProduction = "production"
)

// Pub/Sub provider types.
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
	PubSubProviderNoop   = "noop"
)

// Demo account credentials. The demo login always succeeds and provisions
// the account on first use.
const (
	DemoEmail    = "demo@exemplo.com"
	DemoPassword = "demo123"
	DemoName     = "Usuário Demo"
)
