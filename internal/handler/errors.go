package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"mydiary/internal/apperr"
	"mydiary/internal/logger"
)

// ErrorResponse - стандартный ответ с ошибкой
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

const internalErrorMessage = "Внутренняя ошибка сервера"

// WriteError - универсальная функция для отправки ошибок
func WriteError(w http.ResponseWriter, message string, statusCode int) {
	writeSuccess(w, ErrorResponse{Error: message}, statusCode)
}

// writeSuccess - функция для успешных ответов
func writeSuccess(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// writeServiceError converts a service error into the JSON error body.
// Errors outside the apperr taxonomy are logged and hidden behind a
// generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	code := apperr.CodeOf(err)
	status := code.HTTPStatus()

	var appErr *apperr.Error
	if status == http.StatusInternalServerError || !errors.As(err, &appErr) {
		logger.FromContext(r.Context()).WithError(err).
			WithFields(logrus.Fields{"path": r.URL.Path, "code": code}).
			Error("Ошибка обработки запроса")
		WriteError(w, internalErrorMessage, http.StatusInternalServerError)
		return
	}

	writeSuccess(w, ErrorResponse{Error: appErr.Message, Fields: appErr.Fields}, status)
}

// writeValidationError renders validator errors as {error, fields}.
func writeValidationError(w http.ResponseWriter, err error) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		WriteError(w, "Неверные данные", http.StatusBadRequest)
		return
	}

	fields := make(map[string]string, len(validationErrors))
	for _, fe := range validationErrors {
		fields[fieldPath(fe)] = fieldMessage(fe)
	}

	writeSuccess(w, ErrorResponse{Error: "Ошибка валидации", Fields: fields}, http.StatusBadRequest)
}

// fieldPath drops the struct name: "DiaryRequest.images[0].data" -> "images[0].data".
func fieldPath(fe validator.FieldError) string {
	parts := strings.SplitN(fe.Namespace(), ".", 2)
	if len(parts) == 2 {
		return parts[1]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "обязательное поле"
	case "email":
		return "некорректный email"
	case "min":
		return fmt.Sprintf("минимальная длина %s", fe.Param())
	case "max":
		return fmt.Sprintf("максимальная длина %s", fe.Param())
	case "letterdigit":
		return "должен содержать хотя бы одну букву и одну цифру"
	case "oneof":
		return fmt.Sprintf("допустимые значения: %s", fe.Param())
	case "datetime":
		return "ожидается формат HH:MM"
	default:
		return "некорректное значение"
	}
}

func decodeJSON(r *http.Request, dst interface{}) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
