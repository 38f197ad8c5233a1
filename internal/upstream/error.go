package upstream

import (
	"encoding/json"
	"fmt"
)

const defaultErrorMessage = "Request to upstream API failed"

// Error is returned for any non-2xx answer from the catalog backend.
type Error struct {
	Status  int
	Message string
	Details json.RawMessage
}

func (e *Error) Error() string {
	return fmt.Sprintf("upstream returned %d: %s", e.Status, e.Message)
}

// Field returns a top-level string field of the upstream error body, or "".
func (e *Error) Field(key string) string {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(e.Details, &body); err != nil {
		return ""
	}
	raw, ok := body[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	if string(raw) == "null" {
		return ""
	}
	return string(raw)
}

func newError(status int, body json.RawMessage) *Error {
	e := &Error{Status: status, Details: body}
	switch {
	case e.Field("error") != "":
		e.Message = e.Field("error")
	case e.Field("detail") != "":
		e.Message = e.Field("detail")
	default:
		e.Message = defaultErrorMessage
	}
	return e
}

// ParseBody turns an upstream body into JSON. Empty bodies become null and
// non-JSON text is wrapped as {"detail": text}.
func ParseBody(b []byte) json.RawMessage {
	if len(b) == 0 {
		return json.RawMessage("null")
	}
	if json.Valid(b) {
		return json.RawMessage(b)
	}
	wrapped, _ := json.Marshal(map[string]string{"detail": string(b)})
	return wrapped
}
