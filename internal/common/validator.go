package common

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

// sharedValidator backs zero-value GenericEchoValidators. validator.Validate is safe for concurrent use.
var sharedValidator = validator.New()

// GenericEchoValidator plugs go-playground/validator into echo's Context.Validate
type GenericEchoValidator struct {
	Validator *validator.Validate
}

func NewGenericEchoValidator() *GenericEchoValidator {
	return &GenericEchoValidator{Validator: validator.New()}
}

// Validate is called concurrently from request goroutines and never mutates gv.
func (gv *GenericEchoValidator) Validate(i interface{}) error {
	v := gv.Validator
	if v == nil {
		v = sharedValidator
	}
	if err := v.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("received invalid request: %v", err)).SetInternal(err)
	}
	return nil
}
