package handler

import "net/http"

// errorBody is the uniform error shape: { "error": { "status": <int>, "message": <string> } }
type errorBody struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func errorResponse(w http.ResponseWriter, status int, message string) {
	env := envelope{"error": errorBody{Status: status, Message: message}}

	// Write the response using the writeJSON() helper. If this happens to return an
	// error then fall back to sending the client an empty response with a
	// 500 Internal Server Error status code.
	if err := writeJSON(w, status, env, nil); err != nil {
		w.WriteHeader(500)
	}
}

// failedValidationResponse returns 422 UnprocessableEntity status.
// The server understood the content type and the syntax of the request body,
// but it was unable to process the contained instructions; repeating the
// request without modification will fail with the same error.
func failedValidationResponse(w http.ResponseWriter, errors map[string]string) {
	env := envelope{"error": envelope{
		"status":  http.StatusUnprocessableEntity,
		"message": "the request body failed validation",
		"fields":  errors,
	}}

	if err := writeJSON(w, http.StatusUnprocessableEntity, env, nil); err != nil {
		w.WriteHeader(500)
	}
}

// badRequestResponse returns 400 BadRequest status.
func badRequestResponse(w http.ResponseWriter, message string) {
	errorResponse(w, http.StatusBadRequest, message)
}

// internalErrorResponse returns a generic 500 without leaking internals.
func internalErrorResponse(w http.ResponseWriter) {
	errorResponse(w, http.StatusInternalServerError, "the server encountered a problem and could not process your request")
}

// serviceErrorResponse maps a typed service error to its HTTP status. Internal
// infrastructure errors are replaced by the generic message; client errors
// keep the sentinel's message.
func serviceErrorResponse(w http.ResponseWriter, err error) {
	code := GetCode(err)
	if code >= http.StatusInternalServerError {
		internalErrorResponse(w)
		return
	}
	errorResponse(w, code, err.Error())
}
