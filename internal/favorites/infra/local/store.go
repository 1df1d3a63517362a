// Package local persists anonymous favorites in the embedded BadgerDB,
// scoped by device identifier.
package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/dgraph-io/badger/v4"

	"github.com/danuprasetya/furnistore/internal/favorites/domain"
)

type Store struct {
	db *badger.DB
}

func NewStore(db *badger.DB) *Store {
	return &Store{db: db}
}

func favKey(deviceID, productID string) []byte {
	return []byte("fav/" + deviceID + "/" + productID)
}

func favPrefix(deviceID string) []byte {
	return []byte("fav/" + deviceID + "/")
}

func (s *Store) List(_ context.Context, deviceID string) ([]domain.Favorite, error) {
	var out []domain.Favorite

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = favPrefix(deviceID)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var fav domain.Favorite
				if err := json.Unmarshal(val, &fav); err != nil {
					return fmt.Errorf("decode favorite: %w", err)
				}
				out = append(out, fav)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].AddedAt.Equal(out[j].AddedAt) {
			return out[i].AddedAt.Before(out[j].AddedAt)
		}
		return out[i].ProductID < out[j].ProductID
	})
	return out, nil
}

func (s *Store) Add(_ context.Context, deviceID string, fav domain.Favorite) error {
	return s.db.Update(func(txn *badger.Txn) error {
		key := favKey(deviceID, fav.ProductID)

		// Idempotent: an already-saved product keeps its original entry.
		_, err := txn.Get(key)
		if err == nil {
			return nil
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		buf, err := json.Marshal(fav)
		if err != nil {
			return fmt.Errorf("encode favorite: %w", err)
		}
		return txn.Set(key, buf)
	})
}

func (s *Store) Remove(_ context.Context, deviceID, productID string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(favKey(deviceID, productID))
	})
}

func (s *Store) Clear(_ context.Context, deviceID string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = favPrefix(deviceID)

		var keys [][]byte
		it := txn.NewIterator(opts)
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		it.Close()

		for _, key := range keys {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}
