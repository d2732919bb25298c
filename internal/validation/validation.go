// Package validation holds the shared validator instance and the custom
// tags used by request DTOs and domain inputs.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strings"
	"sync"

	"travelbook/internal/domain"
	"travelbook/internal/domain/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *validator.Validate

	cardNumberRe = regexp.MustCompile(`^[0-9]{13,19}$`)
	cvvRe        = regexp.MustCompile(`^[0-9]{3,4}$`)
)

// Validator returns the process-wide validator with custom tags registered.
func Validator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		if err := register(validate); err != nil {
			panic(err)
		}
	})
	return validate
}

// RegisterGin installs the custom tags on gin's binding engine so `binding`
// struct tags can use them too.
func RegisterGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding engine is not go-playground/validator")
	}
	return register(v)
}

func register(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	if err := v.RegisterValidation("cardtype", func(fl validator.FieldLevel) bool {
		return IsCardType(fl.Field().String())
	}); err != nil {
		return err
	}
	if err := v.RegisterValidation("cardnumber", func(fl validator.FieldLevel) bool {
		return IsCardNumber(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("cvv", func(fl validator.FieldLevel) bool {
		return cvvRe.MatchString(strings.TrimSpace(fl.Field().String()))
	})
}

func IsCardType(s string) bool {
	return slices.Contains(models.CardTypes, strings.ToLower(strings.TrimSpace(s)))
}

// IsCardNumber accepts 13 to 19 digits; spaces and dashes are ignored.
func IsCardNumber(s string) bool {
	clean := strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(s))
	return cardNumberRe.MatchString(clean)
}

// Struct validates s and converts the first failure into a
// domain.ValidationError.
func Struct(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	return ToDomain(err)
}

// ToDomain maps validator output to domain.ValidationError. Other errors pass
// through wrapped as a generic validation failure.
func ToDomain(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.ValidationError{Msg: err.Error(), Err: err}
	}
	fe := verrs[0]
	return domain.ValidationError{Field: fieldPath(fe), Msg: describe(fe), Err: err}
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	if ns == "" {
		return fe.Field()
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "ltefield":
		return fmt.Sprintf("must not exceed %s", fe.Param())
	case "cardtype":
		return "must be one of " + strings.Join(models.CardTypes, ", ")
	case "cardnumber":
		return "must be 13 to 19 digits"
	case "cvv":
		return "must be 3 or 4 digits"
	case "oneof":
		return "must be one of " + fe.Param()
	}
	return fmt.Sprintf("failed %s check", fe.Tag())
}
