// Package service implements the Connect handlers of the group ledger on top
// of ledger.Ledger.
package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"connectrpc.com/connect"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/PixelCode01/SHG-Mangement-sub000/internal/models"
	"github.com/PixelCode01/SHG-Mangement-sub000/pkg/api"
)

var validate = newValidator()

// newValidator returns a validator that names fields by their JSON tag and
// compares decimals numerically.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// validateRequest checks msg's struct tags and returns an InvalidArgument
// error naming the first offending field.
func validateRequest(msg any) error {
	err := validate.Struct(msg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return connect.NewError(connect.CodeInvalidArgument, err)
	}
	fe := verrs[0]
	field := strings.TrimPrefix(fe.Namespace(), reflect.TypeOf(msg).Elem().Name()+".")
	cerr := connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("%s: %s", field, validationMessage(fe)))
	cerr.Meta().Set(api.MetaErrorCode, "INVALID_REQUEST")
	cerr.Meta().Set(api.MetaErrorField, field)
	return cerr
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "datetime":
		return "must be a date formatted as " + fe.Param()
	default:
		return "is invalid"
	}
}

// connectError maps engine errors onto Connect codes. Domain errors carry
// their code, field and maximum allowed amount as metadata.
func connectError(err error) error {
	var cerr *connect.Error
	if errors.As(err, &cerr) {
		return cerr
	}

	code := connect.CodeInternal
	switch {
	case errors.Is(err, context.Canceled):
		code = connect.CodeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		code = connect.CodeDeadlineExceeded
	case models.IsValidation(err):
		code = connect.CodeInvalidArgument
	case models.IsConflict(err):
		code = connect.CodeFailedPrecondition
	case models.IsNotFound(err):
		code = connect.CodeNotFound
	}

	cerr = connect.NewError(code, err)
	var de *models.DomainError
	if errors.As(err, &de) {
		cerr.Meta().Set(api.MetaErrorCode, de.Code)
		if de.Field != "" {
			cerr.Meta().Set(api.MetaErrorField, de.Field)
		}
		if de.MaxAllowed != nil {
			cerr.Meta().Set(api.MetaMaxAllowed, de.MaxAllowed.StringFixed(2))
		}
	}
	return cerr
}
