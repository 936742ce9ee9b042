package types

// SuccessEnvelope wraps every successful JSON payload.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// DataEnvelope is the typed counterpart of SuccessEnvelope used when decoding.
type DataEnvelope[T any] struct {
	Data T `json:"data"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// MessageEnvelope carries a bare confirmation such as a delete acknowledgement.
type MessageEnvelope struct {
	Message string `json:"message"`
}
