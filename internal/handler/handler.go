package handlers

import (
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"mydiary/internal/config"
	"mydiary/internal/service"
)

type Handlers struct {
	AuthService   service.AuthService
	UserService   service.UserService
	DiaryService  service.DiaryService
	TagService    service.TagService
	TablesService service.TablesService
	Cfg           *config.Config
	Validate      *validator.Validate
}

func NewHandlers(service *service.Service, config *config.Config) *Handlers {
	return &Handlers{
		AuthService:   service.Auth,
		UserService:   service.User,
		DiaryService:  service.Diary,
		TagService:    service.Tag,
		TablesService: service.Tables,
		Cfg:           config,
		Validate:      NewValidator(),
	}
}

// NewValidator reports fields by their JSON names and knows the
// letterdigit rule used for passwords.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("letterdigit", validateLetterDigit)

	return v
}

// validateLetterDigit requires at least one letter and one digit.
func validateLetterDigit(fl validator.FieldLevel) bool {
	var hasLetter, hasDigit bool
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}
