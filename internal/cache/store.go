package cache

import (
	"github.com/dgraph-io/ristretto"
	ristretto_store "github.com/eko/gocache/store/ristretto/v4"
)

var (
	S *ristretto_store.RistrettoStore
	R *ristretto.Cache
)

func NewStore() error {
	inner, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e4,
		MaxCost:     1 << 24,
		BufferItems: 64,
	})
	if err != nil {
		return err
	}
	R = inner
	S = ristretto_store.NewRistretto(inner)
	return nil
}
