// Package contracts wires the repository's deploy descriptors into one
// registry. New contracts register here explicitly.
package contracts

import (
	"github.com/funckit/funckit/contracts/counter"
	"github.com/funckit/funckit/internal/deploy"
)

// Default returns the registry of all deployable contracts.
func Default() *deploy.Registry {
	registry := deploy.NewRegistry()
	registry.MustRegister(counter.Descriptor())
	return registry
}
