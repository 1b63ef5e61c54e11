package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

type memDoc struct {
	seq  uint64
	data map[string]any
}

// MemoryStore keeps documents in process memory. Data passes through a
// JSON round trip on every write and read so callers observe the same
// value types a real document store returns (numbers as float64).
type MemoryStore struct {
	mu    sync.Mutex
	seq   uint64
	colls map[string]map[string]*memDoc
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{colls: map[string]map[string]*memDoc{}}
}

func (m *MemoryStore) Get(_ context.Context, coll, key string) (Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.colls[coll][key]
	if !ok {
		return Document{}, ErrNotFound
	}
	data, err := roundTrip(d.data)
	if err != nil {
		return Document{}, err
	}
	return Document{Key: key, Data: data}, nil
}

func (m *MemoryStore) Query(_ context.Context, coll string, q Query) ([]Document, error) {
	for _, f := range q.Filters {
		if err := checkField(f.Field); err != nil {
			return nil, err
		}
	}
	if q.OrderBy != "" {
		if err := checkField(q.OrderBy); err != nil {
			return nil, err
		}
	}

	m.mu.Lock()
	type hit struct {
		key string
		doc *memDoc
	}
	var hits []hit
	for k, d := range m.colls[coll] {
		if matches(d.data, q.Filters) {
			hits = append(hits, hit{k, d})
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if q.OrderBy != "" {
			c := compareValues(hits[i].doc.data[q.OrderBy], hits[j].doc.data[q.OrderBy])
			if c != 0 {
				if q.Desc {
					return c > 0
				}
				return c < 0
			}
		}
		return hits[i].doc.seq < hits[j].doc.seq
	})
	if q.Limit > 0 && len(hits) > q.Limit {
		hits = hits[:q.Limit]
	}
	out := make([]Document, 0, len(hits))
	var err error
	for _, h := range hits {
		var data map[string]any
		if data, err = roundTrip(h.doc.data); err != nil {
			break
		}
		out = append(out, Document{Key: h.key, Data: data})
	}
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (m *MemoryStore) Insert(ctx context.Context, coll string, data map[string]any) (string, error) {
	key := uuid.NewString()
	if err := m.Create(ctx, coll, key, data); err != nil {
		return "", err
	}
	return key, nil
}

func (m *MemoryStore) Create(_ context.Context, coll, key string, data map[string]any) error {
	copied, err := roundTrip(data)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.collection(coll)
	if _, ok := c[key]; ok {
		return ErrAlreadyExists
	}
	m.seq++
	c[key] = &memDoc{seq: m.seq, data: copied}
	return nil
}

func (m *MemoryStore) Set(_ context.Context, coll, key string, data map[string]any) error {
	copied, err := roundTrip(data)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.collection(coll)
	if d, ok := c[key]; ok {
		d.data = copied
		return nil
	}
	m.seq++
	c[key] = &memDoc{seq: m.seq, data: copied}
	return nil
}

func (m *MemoryStore) Update(_ context.Context, coll, key string, fields map[string]any) error {
	copied, err := roundTrip(fields)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.colls[coll][key]
	if !ok {
		return ErrNotFound
	}
	for k, v := range copied {
		d.data[k] = v
	}
	return nil
}

func (m *MemoryStore) UpdateIf(_ context.Context, coll, key string, unless Filter, fields map[string]any) error {
	if err := checkField(unless.Field); err != nil {
		return err
	}
	copied, err := roundTrip(fields)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.colls[coll][key]
	if !ok {
		return ErrNotFound
	}
	if matches(d.data, []Filter{unless}) {
		return ErrConditionFailed
	}
	for k, v := range copied {
		d.data[k] = v
	}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, coll, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.colls[coll], key)
	return nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) collection(coll string) map[string]*memDoc {
	c, ok := m.colls[coll]
	if !ok {
		c = map[string]*memDoc{}
		m.colls[coll] = c
	}
	return c
}

func matches(data map[string]any, filters []Filter) bool {
	for _, f := range filters {
		if Canonical(data[f.Field]) != Canonical(f.Value) {
			return false
		}
	}
	return true
}

// compareValues orders numbers numerically and everything else by its
// canonical string. Missing values sort first.
func compareValues(a, b any) int {
	fa, aok := a.(float64)
	fb, bok := b.(float64)
	if aok && bok {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	}
	sa, sb := Canonical(a), Canonical(b)
	switch {
	case sa < sb:
		return -1
	case sa > sb:
		return 1
	}
	return 0
}

func roundTrip(data map[string]any) (map[string]any, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}
