package request

import (
	"context"
	"encoding/json"

	"github.com/slipstream/torbox/types"
)

// Decode executes req and unmarshals the body into T. A response without a
// body yields empty(), or the zero T when empty is nil. Decoding failures are
// returned as *types.DeserializationError and are not retried.
func Decode[T any](ctx context.Context, e *Engine, req Request, empty func() T) (T, error) {
	var zero T

	out, err := e.Execute(ctx, req)
	if err != nil {
		return zero, err
	}

	if out.Body == nil {
		if empty != nil {
			return empty(), nil
		}
		return zero, nil
	}

	var result T
	if err := json.Unmarshal([]byte(*out.Body), &result); err != nil {
		return zero, &types.DeserializationError{Body: *out.Body, Cause: err}
	}
	return result, nil
}
