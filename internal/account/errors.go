package account

import (
	"errors"
	"fmt"
	"net/http"
)

// Messages shown by the profile screens.
const (
	MsgPasswordChanged = "Senha alterada com sucesso!"
	MsgPasswordFailed  = "Erro ao alterar senha. Verifique sua senha atual."
	MsgNoOrders        = "Nenhum pedido encontrado"
	MsgNoVouchers      = "Nenhum cupom disponível"
)

var (
	// ErrPasswordMismatch is returned when the new password and its
	// confirmation differ.
	ErrPasswordMismatch = errors.New("As senhas não coincidem")
	// ErrMissingField is returned when a required form field is empty.
	ErrMissingField = errors.New("campo obrigatório")
	// ErrUnauthorized is returned when the token is missing or rejected.
	// Tokens are never refreshed.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidCredentials is returned when login is rejected.
	ErrInvalidCredentials = errors.New("invalid identifier or password")
)

// APIError is a non-success response from the account API.
type APIError struct {
	Endpoint string
	Status   int
	Message  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s (status %d)", e.Endpoint, e.Message, e.Status)
}

// Unwrap maps auth failures to the sentinel errors.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	}
	return nil
}

func handleAPIError(endpoint string, statusCode int) error {
	msg := ""
	switch statusCode {
	case http.StatusBadRequest:
		msg = "request rejected"
	case http.StatusUnauthorized:
		msg = "session expired, sign in again"
	case http.StatusForbidden:
		msg = "access denied"
	case http.StatusNotFound:
		msg = "endpoint not found"
	case http.StatusTooManyRequests:
		msg = "rate limit exceeded, try again later"
	default:
		if statusCode >= 500 {
			msg = "service unavailable"
		} else {
			msg = "unexpected response"
		}
	}
	return &APIError{Endpoint: endpoint, Status: statusCode, Message: msg}
}
