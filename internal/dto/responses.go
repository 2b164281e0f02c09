package dto

// ErrorResponse - стандартный формат ошибки.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse - стандартный формат подтверждения.
type MessageResponse struct {
	Message string `json:"message"`
}
