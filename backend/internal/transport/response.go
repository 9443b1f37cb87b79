package transport

import (
	"encoding/json"
	"log"
	"net/http"

	"orbital-sim/backend/internal/apperrors"
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// writeError логирует ошибку и отправляет JSON ответ с кодом по типу ошибки
func writeError(w http.ResponseWriter, r *http.Request, logger *log.Logger, err error) {
	errorType := apperrors.GetType(err)
	statusCode := statusCodeFor(errorType)

	switch errorType {
	case apperrors.ErrorTypeInternal, apperrors.ErrorTypeExternal, apperrors.ErrorTypeNumericInstability:
		logger.Printf("[API] %s %s: %d %s: %v", r.Method, r.URL.Path, statusCode, errorType, err)
	case apperrors.ErrorTypeUnauthorized:
		logger.Printf("[API] %s %s from %s: unauthorized: %v", r.Method, r.URL.Path, r.RemoteAddr, err)
	}

	writeJSON(w, statusCode, ErrorResponse{
		Error:   string(errorType),
		Message: err.Error(),
		Code:    statusCode,
	})
}

func statusCodeFor(errorType apperrors.ErrorType) int {
	switch errorType {
	case apperrors.ErrorTypeNotFound:
		return http.StatusNotFound
	case apperrors.ErrorTypeInvalidParameter:
		return http.StatusBadRequest
	case apperrors.ErrorTypeConflict:
		return http.StatusConflict
	case apperrors.ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case apperrors.ErrorTypeExternal:
		return http.StatusServiceUnavailable
	case apperrors.ErrorTypeNumericInstability:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeJSON отправляет данные в формате JSON
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data != nil {
		// код уже отправлен, ошибку кодирования вернуть некуда
		_ = json.NewEncoder(w).Encode(data)
	}
}
