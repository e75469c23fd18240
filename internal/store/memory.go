package store

import "sort"

// Memory is an in-process KV, used in tests and dry runs.
type Memory struct {
	items map[string]string
}

func NewMemory() *Memory {
	return &Memory{items: map[string]string{}}
}

func (m *Memory) GetItem(key string) (string, bool, error) {
	if err := validateKey(key); err != nil {
		return "", false, err
	}
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *Memory) SetItem(key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	m.items[key] = value
	return nil
}

func (m *Memory) RemoveItem(key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	delete(m.items, key)
	return nil
}

func (m *Memory) Keys() ([]string, error) {
	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
