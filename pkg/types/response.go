// Package types holds the wire envelopes shared by every storefront
// endpoint. Handlers never write bare payloads: success responses wrap
// the payload in a data envelope, failures carry a machine-readable
// code from pkg/errors.
package types

// SuccessEnvelope wraps every 2xx payload, including checkout results
// that carry skipped-line warnings inside Data.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public error shape. Code matches a pkg/errors code
// string (VALIDATION_ERROR, PRODUCT_UNAVAILABLE, EMPTY_CHECKOUT, ...);
// Details is only populated for codes whose metadata allows it.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
