// Package varstore defines pluggable storage for kernel instance variables.
// Plugins that hold variables can back the kernelList/kernelGet/kernelSet/
// kernelRemove capabilities with a Store instead of implementing them by
// hand; ServiceOptions produces the registry overrides for any Store.
package varstore

import (
	"context"

	"github.com/plugrpc/plugrpc-go/plugservice"
)

// Store persists named variables per kernel instance. Implementations must
// be safe for concurrent use.
type Store interface {
	// List enumerates the variables held by an instance.
	List(ctx context.Context, instance string) ([]plugservice.Variable, error)

	// Get retrieves one variable. The boolean reports presence; a missing
	// variable is not an error.
	Get(ctx context.Context, instance string, name string) (any, bool, error)

	// Set assigns a variable, replacing any prior value.
	Set(ctx context.Context, instance string, name string, value any) error

	// Remove deletes a variable. Removing an absent variable is a no-op.
	Remove(ctx context.Context, instance string, name string) error

	// Clear drops every variable held by an instance.
	Clear(ctx context.Context, instance string) error

	// Close releases the store's resources.
	Close() error
}

// ServiceOptions returns the registry overrides that back the variable
// capabilities with s. kernelStop clears the instance's variables; plugins
// that also release other resources on stop should compose their own stop
// override after these.
func ServiceOptions(s Store) []plugservice.Option {
	return []plugservice.Option{
		plugservice.WithKernelList(func(ctx context.Context, instance string) ([]plugservice.Variable, error) {
			return s.List(ctx, instance)
		}),
		plugservice.WithKernelGet(func(ctx context.Context, name string, instance string) (any, error) {
			v, ok, err := s.Get(ctx, instance, name)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, nil
			}
			return v, nil
		}),
		plugservice.WithKernelSet(func(ctx context.Context, name string, value any, instance string) error {
			return s.Set(ctx, instance, name, value)
		}),
		plugservice.WithKernelRemove(func(ctx context.Context, name string, instance string) error {
			return s.Remove(ctx, instance, name)
		}),
		plugservice.WithKernelStop(func(ctx context.Context, instance string) error {
			return s.Clear(ctx, instance)
		}),
	}
}
