package aidoc

import (
	"log/slog"

	"github.com/go-playground/validator"
)

type RequestValidator struct {
	validator *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New()
	return &RequestValidator{v}
}

// Validate валидирует структуру запроса. Возвращает ошибку только при нарушении правил валидации, внутренние ошибки валидатора логируются.
func (rv *RequestValidator) Validate(i interface{}) error {
	if err := rv.validator.Struct(i); err != nil {
		if _, ok := err.(validator.ValidationErrors); ok {
			return err
		}
		slog.Error("Validate struct", "err", err)
	}
	return nil
}
