package response

// ErrorBody is the single error envelope of the API, used by handlers and by
// middleware that rejects a request before a handler runs.
type ErrorBody struct {
	Message string `json:"message"`
}

func Error(message string) ErrorBody {
	return ErrorBody{Message: message}
}
