// Package mock provides deterministic test doubles for the ai service
// interfaces. Each double supports custom behavior injection via function
// fields and tracks call counts for assertions.
package mock
