// Package local persists anonymous carts in the embedded BadgerDB, scoped by
// device identifier. Listing preserves insertion order via a per-device
// monotonic position counter.
package local

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/dgraph-io/badger/v4"

	"github.com/danuprasetya/furnistore/internal/cart/domain"
)

type Store struct {
	db *badger.DB
}

func NewStore(db *badger.DB) *Store {
	return &Store{db: db}
}

type record struct {
	Line domain.CartLine `json:"line"`
	Pos  uint64          `json:"pos"`
}

func lineKey(deviceID, productID string) []byte {
	return []byte("cart/" + deviceID + "/" + productID)
}

func linePrefix(deviceID string) []byte {
	return []byte("cart/" + deviceID + "/")
}

func seqKey(deviceID string) []byte {
	return []byte("cartseq/" + deviceID)
}

func (s *Store) List(_ context.Context, deviceID string) (domain.Lines, error) {
	var recs []record

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = linePrefix(deviceID)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var rec record
				if err := json.Unmarshal(val, &rec); err != nil {
					return fmt.Errorf("decode cart line: %w", err)
				}
				recs = append(recs, rec)
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

	sort.Slice(recs, func(i, j int) bool { return recs[i].Pos < recs[j].Pos })

	out := make(domain.Lines, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.Line)
	}
	return out, nil
}

func (s *Store) Get(_ context.Context, deviceID, productID string) (domain.CartLine, bool, error) {
	var rec record
	found := false

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(lineKey(deviceID, productID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		return domain.CartLine{}, false, err
	}
	return rec.Line, found, nil
}

func (s *Store) Put(_ context.Context, deviceID string, line domain.CartLine) error {
	return s.db.Update(func(txn *badger.Txn) error {
		key := lineKey(deviceID, line.ProductID)

		rec := record{Line: line}

		item, err := txn.Get(key)
		switch {
		case err == nil:
			// Existing line keeps its position in the cart.
			if err := item.Value(func(val []byte) error {
				var prev record
				if err := json.Unmarshal(val, &prev); err != nil {
					return err
				}
				rec.Pos = prev.Pos
				return nil
			}); err != nil {
				return err
			}
		case errors.Is(err, badger.ErrKeyNotFound):
			pos, err := nextPos(txn, deviceID)
			if err != nil {
				return err
			}
			rec.Pos = pos
		default:
			return err
		}

		buf, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encode cart line: %w", err)
		}
		return txn.Set(key, buf)
	})
}

func (s *Store) Remove(_ context.Context, deviceID, productID string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(lineKey(deviceID, productID))
	})
}

func (s *Store) Clear(_ context.Context, deviceID string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = linePrefix(deviceID)

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
		return txn.Delete(seqKey(deviceID))
	})
}

func nextPos(txn *badger.Txn, deviceID string) (uint64, error) {
	var pos uint64

	item, err := txn.Get(seqKey(deviceID))
	switch {
	case err == nil:
		if err := item.Value(func(val []byte) error {
			if len(val) == 8 {
				pos = binary.BigEndian.Uint64(val)
			}
			return nil
		}); err != nil {
			return 0, err
		}
	case errors.Is(err, badger.ErrKeyNotFound):
	default:
		return 0, err
	}

	pos++
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, pos)
	if err := txn.Set(seqKey(deviceID), buf); err != nil {
		return 0, err
	}
	return pos, nil
}
