package redisstore

import (
	"testing"

	"github.com/google/uuid"
	"github.com/plugrpc/plugrpc-go/varstore"
	"github.com/plugrpc/plugrpc-go/varstore/storetest"
)

func TestRedisStore(t *testing.T) {
	// Quick availability check to allow graceful skip in environments without Redis.
	s, err := NewFromEnv()
	if err != nil {
		t.Skipf("skipping redis store tests: %v", err)
		return
	}
	_ = s.Close()

	storetest.RunStoreTests(t, func(t *testing.T) varstore.Store {
		ss, err := New(Config{KeyPrefix: "plugrpc:test:" + uuid.NewString() + ":"})
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		return ss
	})
}
