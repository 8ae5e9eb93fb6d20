package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"hotel-backend/internal/domain"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateInput runs struct-tag validation and reports the first failing
// field as a *domain.ValidationError.
func validateInput(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.NewValidationError("", err.Error())
	}
	fe := verrs[0]
	return domain.NewValidationError(fe.Field(), describe(fe))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "min", "gt", "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max", "lt", "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func requireStaff(actor domain.Principal) error {
	if actor.UserID == 0 {
		return domain.ErrUnauthenticated
	}
	if !actor.Role.IsStaff() {
		return domain.ErrForbidden
	}
	return nil
}

func requireAdmin(actor domain.Principal) error {
	if actor.UserID == 0 {
		return domain.ErrUnauthenticated
	}
	if actor.Role != domain.RoleAdmin {
		return domain.ErrForbidden
	}
	return nil
}

func requireUser(actor domain.Principal) error {
	if actor.UserID == 0 {
		return domain.ErrUnauthenticated
	}
	return nil
}

func pageBounds(page, pageSize int32) (limit, offset int32) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return pageSize, (page - 1) * pageSize
}
