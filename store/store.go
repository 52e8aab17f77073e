package store

import (
	"context"

	"github.com/juju/errors"
)

// Store is a small prefix/key value store. It backs run trace records.
type Store interface {
	Get(ctx context.Context, prefix, key string) ([]byte, error)
	Set(ctx context.Context, prefix, key string, value []byte) error
	/**
	 * Remove a prefix and key
	 * remove an unexists prefix + key would NOT return error
	 */
	Remove(ctx context.Context, prefix, key string) error

	// List walks the keys under prefix in ascending order until iterator returns false.
	List(ctx context.Context, prefix string, iterator func(key string) bool) error
}

// RemovePrefix deletes every key under prefix.
func RemovePrefix(ctx context.Context, s Store, prefix string) error {
	keys := make([]string, 0)
	if err := s.List(ctx, prefix, func(key string) bool {
		keys = append(keys, key)
		return true
	}); err != nil {
		return errors.Trace(err)
	}
	for _, key := range keys {
		if err := s.Remove(ctx, prefix, key); err != nil {
			return errors.Annotatef(err, "remove %s%s", prefix, key)
		}
	}
	return nil
}
