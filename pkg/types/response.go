package types

type SuccessEnvelope struct {
	Data any `json:"data"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// Outcome reports how a cart operation ended. Success outcomes carry no
// message; rejections carry the user-facing notification text.
type Outcome struct {
	Committed bool   `json:"committed"`
	Severity  string `json:"severity,omitempty"`
	Message   string `json:"message,omitempty"`
}
