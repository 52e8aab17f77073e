package mem

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/warriorguo/pipeline/store"
)

var (
	_ store.Store = &memStore{}
)

const keySep = "|"

func NewMemStore() store.Store {
	return &memStore{
		m:              make(map[string][]byte),
		mockErrHandler: defaultNoErr,
	}
}

// NewMemStoreWithErrHandler lets tests inject store failures.
func NewMemStoreWithErrHandler(errHandler func() error) store.Store {
	return &memStore{
		m:              make(map[string][]byte),
		mockErrHandler: errHandler,
	}
}

func defaultNoErr() error {
	return nil
}

/**
 * memStore keeps everything in a map. Trace records only live as long
 * as the editor, there is nothing to persist.
 */
type memStore struct {
	mu sync.Mutex

	mockErrHandler func() error

	m map[string][]byte
}

func (m *memStore) String() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]string, 0, len(m.m))
	for key := range m.m {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	sb := &strings.Builder{}
	sb.WriteString("\n----------\n")
	for _, key := range keys {
		fmt.Fprintf(sb, "%s: %s\n", key, string(m.m[key]))
	}
	sb.WriteString("----------\n")
	return sb.String()
}

func (m *memStore) Get(ctx context.Context, prefix, key string) ([]byte, error) {
	if err := m.mockErrHandler(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	v, exists := m.m[prefix+keySep+key]
	if !exists {
		return nil, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *memStore) Set(ctx context.Context, prefix, key string, value []byte) error {
	if err := m.mockErrHandler(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	v := make([]byte, len(value))
	copy(v, value)
	m.m[prefix+keySep+key] = v
	return nil
}

func (m *memStore) Remove(ctx context.Context, prefix, key string) error {
	if err := m.mockErrHandler(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.m, prefix+keySep+key)
	return nil
}

func (m *memStore) List(ctx context.Context, prefix string, iterator func(key string) bool) error {
	if err := m.mockErrHandler(); err != nil {
		return err
	}
	m.mu.Lock()
	prefix += keySep
	matchedKeys := make([]string, 0)
	for key := range m.m {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		matchedKeys = append(matchedKeys, strings.TrimPrefix(key, prefix))
	}
	m.mu.Unlock()

	sort.Strings(matchedKeys)
	for _, key := range matchedKeys {
		if !iterator(key) {
			break
		}
	}
	return nil
}
