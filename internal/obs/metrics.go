package obs

import "expvar"

// Process-wide counters, also published under /debug/vars.
var (
	ProductsCreated    = expvar.NewInt("products_created")
	ProductsDeleted    = expvar.NewInt("products_deleted")
	ValidationFailures = expvar.NewInt("validation_failures")
	PersistenceErrors  = expvar.NewInt("persistence_errors")
)

// Snapshot returns the current counter values keyed by name.
func Snapshot() map[string]int64 {
	return map[string]int64{
		"products_created":    ProductsCreated.Value(),
		"products_deleted":    ProductsDeleted.Value(),
		"validation_failures": ValidationFailures.Value(),
		"persistence_errors":  PersistenceErrors.Value(),
	}
}
