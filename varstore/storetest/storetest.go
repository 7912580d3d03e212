// Package storetest provides a conformance suite for varstore.Store
// implementations.
package storetest

import (
	"context"
	"testing"

	"github.com/plugrpc/plugrpc-go/varstore"
)

// Factory builds a fresh Store for one subtest.
type Factory func(t *testing.T) varstore.Store

// RunStoreTests exercises the Store contract against every implementation.
func RunStoreTests(t *testing.T, factory Factory) {
	t.Helper()
	ctx := context.Background()

	t.Run("GetMissingReportsAbsence", func(t *testing.T) {
		s := factory(t)
		defer s.Close()

		_, ok, err := s.Get(ctx, "k1", "x")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if ok {
			t.Fatalf("expected missing variable")
		}
	})

	t.Run("SetGetRoundTrip", func(t *testing.T) {
		s := factory(t)
		defer s.Close()

		if err := s.Set(ctx, "k1", "x", float64(42)); err != nil {
			t.Fatalf("Set: %v", err)
		}
		v, ok, err := s.Get(ctx, "k1", "x")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if !ok {
			t.Fatalf("expected variable to exist")
		}
		if v != float64(42) {
			t.Fatalf("unexpected value: %#v", v)
		}
	})

	t.Run("ListIsSortedByName", func(t *testing.T) {
		s := factory(t)
		defer s.Close()

		for _, name := range []string{"b", "a", "c"} {
			if err := s.Set(ctx, "k1", name, name); err != nil {
				t.Fatalf("Set: %v", err)
			}
		}
		vars, err := s.List(ctx, "k1")
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(vars) != 3 {
			t.Fatalf("expected 3 variables, got %d", len(vars))
		}
		for i, want := range []string{"a", "b", "c"} {
			if vars[i].Name != want {
				t.Fatalf("position %d: want %q got %q", i, want, vars[i].Name)
			}
		}
	})

	t.Run("InstancesAreIsolated", func(t *testing.T) {
		s := factory(t)
		defer s.Close()

		if err := s.Set(ctx, "k1", "x", "one"); err != nil {
			t.Fatalf("Set: %v", err)
		}
		_, ok, err := s.Get(ctx, "k2", "x")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if ok {
			t.Fatalf("variable leaked across instances")
		}
	})

	t.Run("RemoveDeletesAndTolerateMissing", func(t *testing.T) {
		s := factory(t)
		defer s.Close()

		if err := s.Set(ctx, "k1", "x", "one"); err != nil {
			t.Fatalf("Set: %v", err)
		}
		if err := s.Remove(ctx, "k1", "x"); err != nil {
			t.Fatalf("Remove: %v", err)
		}
		if _, ok, _ := s.Get(ctx, "k1", "x"); ok {
			t.Fatalf("variable survived removal")
		}
		if err := s.Remove(ctx, "k1", "never"); err != nil {
			t.Fatalf("Remove of absent variable: %v", err)
		}
	})

	t.Run("ClearDropsInstance", func(t *testing.T) {
		s := factory(t)
		defer s.Close()

		if err := s.Set(ctx, "k1", "x", "one"); err != nil {
			t.Fatalf("Set: %v", err)
		}
		if err := s.Set(ctx, "k1", "y", "two"); err != nil {
			t.Fatalf("Set: %v", err)
		}
		if err := s.Clear(ctx, "k1"); err != nil {
			t.Fatalf("Clear: %v", err)
		}
		vars, err := s.List(ctx, "k1")
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(vars) != 0 {
			t.Fatalf("expected no variables after Clear, got %d", len(vars))
		}
	})
}
