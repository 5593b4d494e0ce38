package domain

import "errors"

var (
	ErrInvalidSignature = errors.New("invalid_signature")
	ErrInvalidPayload   = errors.New("invalid_payload")
	ErrGatewayFailure   = errors.New("gateway_failure")
)
