package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Encode serializes v into the JSON form every backend stores.
func Encode(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode value: %w", err)
	}
	return string(data), nil
}

// Decode fills target from a stored value. Strings and byte slices are parsed
// as JSON; anything else is treated as a pre-parsed document and decoded
// field by field using the json tags of target.
func Decode(value any, target any) error {
	switch v := value.(type) {
	case nil:
		return ErrNil
	case string:
		if err := json.Unmarshal([]byte(v), target); err != nil {
			return fmt.Errorf("decode json value: %w", err)
		}
		return nil
	case []byte:
		if err := json.Unmarshal(v, target); err != nil {
			return fmt.Errorf("decode json value: %w", err)
		}
		return nil
	case json.RawMessage:
		if err := json.Unmarshal(v, target); err != nil {
			return fmt.Errorf("decode json value: %w", err)
		}
		return nil
	}

	cfg := &mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(time.RFC3339),
			timePassthroughHook,
		),
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return fmt.Errorf("build decoder: %w", err)
	}
	if err := decoder.Decode(value); err != nil {
		return fmt.Errorf("decode parsed value: %w", err)
	}
	return nil
}

// timePassthroughHook keeps time.Time values intact instead of letting the
// decoder treat them as structs.
func timePassthroughHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(time.Time{}) {
		return data, nil
	}
	if t, ok := data.(time.Time); ok {
		return t, nil
	}
	if t, ok := data.(*time.Time); ok && t != nil {
		return *t, nil
	}
	return data, nil
}

// Load reads key and decodes it into T. found is false when the key is missing.
func Load[T any](ctx context.Context, s Store, key string) (T, bool, error) {
	var out T
	raw, err := s.Get(ctx, key)
	if errors.Is(err, ErrNil) {
		return out, false, nil
	}
	if err != nil {
		return out, false, fmt.Errorf("get %q: %w", key, err)
	}
	if err := Decode(raw, &out); err != nil {
		return out, false, fmt.Errorf("decode %q: %w", key, err)
	}
	return out, true, nil
}

// Save encodes v and writes it under key.
func Save(ctx context.Context, s Store, key string, v any) error {
	payload, err := Encode(v)
	if err != nil {
		return err
	}
	if err := s.Set(ctx, key, payload); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// Mutate runs a typed read-modify-write through Store.Update.
func Mutate[T any](ctx context.Context, s Store, key string, fn func(current T, found bool) (T, error)) error {
	return s.Update(ctx, key, func(raw any, exists bool) (string, error) {
		var current T
		if exists {
			if err := Decode(raw, &current); err != nil {
				return "", fmt.Errorf("decode %q: %w", key, err)
			}
		}
		next, err := fn(current, exists)
		if err != nil {
			return "", err
		}
		return Encode(next)
	})
}
