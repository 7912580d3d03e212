package plugservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultBehaviors(t *testing.T) {
	ctx := context.Background()
	svc := NewService()

	t.Run("Health", func(t *testing.T) {
		before := time.Now().UnixMilli()
		res, err := svc.Health(ctx)
		require.NoError(t, err)
		assert.Equal(t, "OK", res.Status)
		assert.GreaterOrEqual(t, res.Timestamp, before)
	})

	t.Run("KernelStartEchoesKernelName", func(t *testing.T) {
		res, err := svc.KernelStart(ctx, "python")
		require.NoError(t, err)
		assert.Equal(t, "python", res.Instance)
	})

	t.Run("NoOps", func(t *testing.T) {
		assert.NoError(t, svc.KernelStop(ctx, "k1"))
		assert.NoError(t, svc.KernelSet(ctx, "x", 1, "k1"))
		assert.NoError(t, svc.KernelRemove(ctx, "x", "k1"))
	})

	t.Run("EmptyCollections", func(t *testing.T) {
		pkgs, err := svc.KernelPackages(ctx, "k1")
		require.NoError(t, err)
		assert.NotNil(t, pkgs)
		assert.Empty(t, pkgs)

		exec, err := svc.KernelExecute(ctx, "1+1", "k1")
		require.NoError(t, err)
		assert.NotNil(t, exec.Outputs)
		assert.NotNil(t, exec.Messages)

		eval, err := svc.KernelEvaluate(ctx, "1+1", "k1")
		require.NoError(t, err)
		assert.NotNil(t, eval.Output)
		assert.NotNil(t, eval.Messages)

		vars, err := svc.KernelList(ctx, "k1")
		require.NoError(t, err)
		assert.NotNil(t, vars)
		assert.Empty(t, vars)
	})

	t.Run("GetReturnsNotFoundSentinel", func(t *testing.T) {
		v, err := svc.KernelGet(ctx, "x", "k1")
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("SystemPromptIsEmpty", func(t *testing.T) {
		prompt, err := svc.AssistantSystemPrompt(ctx, Task{}, TaskOptions{}, "a")
		require.NoError(t, err)
		assert.Empty(t, prompt)
	})

	t.Run("MandatoryCapabilitiesFail", func(t *testing.T) {
		_, err := svc.KernelInfo(ctx, "k1")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNotImplemented)

		_, err = svc.AssistantPerformTask(ctx, Task{}, TaskOptions{}, "a")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNotImplemented)
	})
}

func TestOverrides(t *testing.T) {
	ctx := context.Background()

	t.Run("OverrideReplacesOnlyItsCapability", func(t *testing.T) {
		svc := NewService(
			WithKernelInfo(func(ctx context.Context, instance string) (KernelInfo, error) {
				return KernelInfo{Name: "echo", Version: "1.0.0"}, nil
			}),
		)

		info, err := svc.KernelInfo(ctx, "k1")
		require.NoError(t, err)
		assert.Equal(t, "echo", info.Name)

		// Sibling capability still falls back to its default.
		_, err = svc.AssistantPerformTask(ctx, Task{}, TaskOptions{}, "a")
		assert.ErrorIs(t, err, ErrNotImplemented)
	})

	t.Run("OverrideErrorsPropagate", func(t *testing.T) {
		boom := errors.New("boom")
		svc := NewService(
			WithKernelStop(func(ctx context.Context, instance string) error { return boom }),
		)
		assert.ErrorIs(t, svc.KernelStop(ctx, "k1"), boom)
	})

	t.Run("LaterOptionWins", func(t *testing.T) {
		svc := NewService(
			WithHealth(func(ctx context.Context) (HealthResult, error) {
				return HealthResult{Status: "first"}, nil
			}),
			WithHealth(func(ctx context.Context) (HealthResult, error) {
				return HealthResult{Status: "second"}, nil
			}),
		)
		res, err := svc.Health(ctx)
		require.NoError(t, err)
		assert.Equal(t, "second", res.Status)
	})
}
