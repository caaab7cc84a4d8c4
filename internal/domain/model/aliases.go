package model

import (
	"encoding/json"
	"fmt"
)

// aliasFields - JSON-объект запроса, разобранный по ключам.
// Значения ищутся по упорядоченному списку вариантов написания ключа.
type aliasFields map[string]json.RawMessage

func parseAliasFields(data []byte) (aliasFields, error) {
	var f aliasFields
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if f == nil {
		return nil, fmt.Errorf("ожидался JSON-объект")
	}
	return f, nil
}

// lookup возвращает значение первого найденного ключа. null считается отсутствием.
func (f aliasFields) lookup(keys ...string) (json.RawMessage, string, bool) {
	for _, k := range keys {
		raw, ok := f[k]
		if !ok || string(raw) == "null" {
			continue
		}
		return raw, k, true
	}
	return nil, "", false
}

func (f aliasFields) optString(keys ...string) (*string, error) {
	raw, key, ok := f.lookup(keys...)
	if !ok {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("поле %s: ожидалась строка", key)
	}
	return &s, nil
}

func (f aliasFields) optBool(keys ...string) (*bool, error) {
	raw, key, ok := f.lookup(keys...)
	if !ok {
		return nil, nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("поле %s: ожидалось true или false", key)
	}
	return &b, nil
}

func (f aliasFields) stringValue(dst *string, keys ...string) error {
	s, err := f.optString(keys...)
	if err != nil {
		return err
	}
	if s != nil {
		*dst = *s
	}
	return nil
}

func (f aliasFields) boolValue(dst *bool, keys ...string) error {
	b, err := f.optBool(keys...)
	if err != nil {
		return err
	}
	if b != nil {
		*dst = *b
	}
	return nil
}
