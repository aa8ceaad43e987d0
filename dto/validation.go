package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"teamhub/model"
)

var registerOnce sync.Once

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

// RegisterValidators installs the custom binding tags on gin's validator and
// makes it report JSON field names.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected binding validator engine")
	}

	var err error
	registerOnce.Do(func() {
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		if err = v.RegisterValidation("tasktype", func(fl validator.FieldLevel) bool {
			t := fl.Field().String()
			return t == model.TaskTypeTask || t == model.TaskTypeMilestone
		}); err != nil {
			return
		}
		if err = v.RegisterValidation("teamrole", func(fl validator.FieldLevel) bool {
			r := fl.Field().String()
			return r == model.TeamRoleAdmin || r == model.TeamRoleMember
		}); err != nil {
			return
		}
		err = v.RegisterValidation("bcryptmax", func(fl validator.FieldLevel) bool {
			return len(fl.Field().String()) <= MaxPasswordBytes
		})
	})
	return err
}

// ValidationMessage turns a binding error into a client-facing message.
func ValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request format"
	}

	fe := verrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "len":
		return fmt.Sprintf("%s must be %s characters long", field, fe.Param())
	case "numeric":
		return field + " must contain only digits"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "tasktype":
		return field + " must be task or milestone"
	case "teamrole":
		return field + " must be admin or member"
	case "bcryptmax":
		return fmt.Sprintf("%s must be at most %d bytes", field, MaxPasswordBytes)
	default:
		return field + " is invalid"
	}
}
