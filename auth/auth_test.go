package auth

import (
	"context"
	"errors"
	"testing"
)

func TestStaticToken(t *testing.T) {
	ctx := context.Background()
	a := NewStaticToken("s3cret")

	t.Run("AcceptsExactMatch", func(t *testing.T) {
		if err := a.CheckAuthentication(ctx, "s3cret"); err != nil {
			t.Fatalf("CheckAuthentication: %v", err)
		}
	})

	t.Run("RejectsMismatch", func(t *testing.T) {
		for _, tok := range []string{"", "s3cret ", "S3cret", "s3cre", "s3cret0"} {
			err := a.CheckAuthentication(ctx, tok)
			if !errors.Is(err, ErrUnauthorized) {
				t.Fatalf("token %q: want ErrUnauthorized, got %v", tok, err)
			}
		}
	})

	t.Run("EmptySecretNeverAuthenticates", func(t *testing.T) {
		empty := NewStaticToken("")
		if err := empty.CheckAuthentication(ctx, ""); err == nil {
			t.Fatalf("expected error with empty configured secret")
		}
	})
}
