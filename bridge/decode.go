package bridge

import (
	"context"
	"encoding/json"
	"reflect"

	"github.com/wippyai/script-bridge/errors"
)

// As converts a resolved value to T. A value that already is a T passes
// through untouched; anything else goes through an interchange round trip
// (JSON encode, then decode into T), which covers the number, string, slice,
// and object shapes script engines hand back. This is a stateless post-step:
// it holds no bridge state.
func As[T any](v any) (T, error) {
	if typed, ok := v.(T); ok {
		return typed, nil
	}

	var out T
	goType := reflect.TypeOf(&out).Elem().String()

	data, err := json.Marshal(v)
	if err != nil {
		return out, errors.Decode(goType, err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		var zero T
		return zero, errors.Decode(goType, err)
	}
	return out, nil
}

// EvaluateAs evaluates script and decodes the result as T.
func EvaluateAs[T any](ctx context.Context, b *Bridge, script string) (T, error) {
	v, err := b.Evaluate(ctx, script)
	if err != nil {
		var zero T
		return zero, err
	}
	return As[T](v)
}

// EvaluateBlockingAs is the blocking form of EvaluateAs.
func EvaluateBlockingAs[T any](b *Bridge, script string) (T, error) {
	v, err := b.EvaluateBlocking(script)
	if err != nil {
		var zero T
		return zero, err
	}
	return As[T](v)
}
