package domain

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Сообщения для ошибок регистрации и входа
const (
	MsgInvalidEmail       = "Invalid email"
	MsgPasswordTooShort   = "Password must be at least 6 characters"
	MsgUserExists         = "User with this email or username already exists"
	MsgInvalidCredentials = "Invalid email or password"
)

// RegisterInput — тело запроса регистрации
type RegisterInput struct {
	Username string `json:"username" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginInput — тело запроса входа
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// NormalizeEmail приводит email к виду, в котором он хранится
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate нормализует поля и проверяет их
func (in *RegisterInput) Validate() error {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = NormalizeEmail(in.Email)
	return translateValidation(validate.Struct(in))
}

func (in *LoginInput) Validate() error {
	in.Email = NormalizeEmail(in.Email)
	return translateValidation(validate.Struct(in))
}

func translateValidation(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return NewValidationError(MsgMissingFields)
	}
	switch fe := verrs[0]; {
	case fe.Tag() == "required":
		return NewValidationError(MsgMissingFields)
	case fe.Field() == "Email":
		return NewValidationError(MsgInvalidEmail)
	case fe.Field() == "Password":
		return NewValidationError(MsgPasswordTooShort)
	default:
		return NewValidationError(MsgMissingFields)
	}
}
