package memstore

import (
	"testing"

	"github.com/plugrpc/plugrpc-go/varstore"
	"github.com/plugrpc/plugrpc-go/varstore/storetest"
)

func TestMemoryStore(t *testing.T) {
	storetest.RunStoreTests(t, func(t *testing.T) varstore.Store {
		return New()
	})
}
