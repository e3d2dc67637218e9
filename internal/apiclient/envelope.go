package apiclient

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Response codes. The upstream API reports HTTP-style codes inside the
// envelope; the two synthetic codes mark failures where no response arrived.
const (
	CodeOK           = 200
	CodeUnauthorized = 401
	CodeOffline      = 1000
	CodeNetwork      = 1001
)

// Fallback messages for normalized transport failures.
const (
	OfflineMessage = "You are offline. Please check your internet connection."
	GenericMessage = "Some error occurred."
)

// Envelope is the uniform response shape used by every upstream endpoint.
type Envelope struct {
	Code    int             `json:"code"`
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Total   FlexInt         `json:"total"`
}

// OK reports a successful envelope.
func (e Envelope) OK() bool {
	return e.Code == CodeOK
}

// Unauthorized reports a session-expired envelope.
func (e Envelope) Unauthorized() bool {
	return e.Code == CodeUnauthorized
}

// ErrorMessage returns the server message or the generic fallback.
func (e Envelope) ErrorMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return GenericMessage
}

// DecodeData unmarshals the envelope data into dest.
func (e Envelope) DecodeData(dest any) error {
	if len(e.Data) == 0 || bytes.Equal(e.Data, []byte("null")) {
		return nil
	}
	return json.Unmarshal(e.Data, dest)
}

// errorEnvelope builds a synthetic failure envelope.
func errorEnvelope(code int, message string) Envelope {
	return Envelope{Code: code, Message: message}
}

// FlexInt decodes a JSON number or numeric string, defaulting to zero for
// anything else. Upstream sometimes returns totals as strings.
type FlexInt int

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*f = 0
			return nil
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = FlexInt(n)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		*f = 0
		return nil
	}
	*f = FlexInt(n)
	return nil
}

// Int returns the coerced value.
func (f FlexInt) Int() int { return int(f) }
