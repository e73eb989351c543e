package request

import (
	"encoding/json"
	"strings"

	"github.com/slipstream/torbox/types"
)

// DecodeServiceError parses body as a TorBox error envelope. It returns nil
// when body is nil, is not a JSON object, or has no "error" key.
func DecodeServiceError(body *string) *types.ServiceError {
	if body == nil {
		return nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal([]byte(*body), &envelope); err != nil || envelope == nil {
		return nil
	}

	code, ok := envelope["error"]
	if !ok {
		return nil
	}

	return &types.ServiceError{
		Code:   rawString(code),
		Detail: rawString(envelope["detail"]),
	}
}

// rawString returns a JSON string's value, "" for null or absent values, and
// the raw text for anything else.
func rawString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	text := strings.TrimSpace(string(raw))
	if text == "null" {
		return ""
	}
	return text
}
