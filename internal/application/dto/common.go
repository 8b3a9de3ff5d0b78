package dto

// ErrorResponse es el cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse es una confirmación simple.
type MessageResponse struct {
	Message string `json:"message"`
}
