// Package validation runs the client-side form checks that must pass before
// any request leaves the process. Failures are *common.Error values of kind
// common.ErrValidation with a message fit for display.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/dmitrijs2005/getfit/internal/client/models"
	"github.com/dmitrijs2005/getfit/internal/common"
	"github.com/go-playground/validator/v10"
)

// Search limits.
const (
	MinQueryLength = 2
	MaxSearchLimit = 50
)

// SignupForm is the register screen, including the password confirmation
// that never reaches the server.
type SignupForm struct {
	Username        string `validate:"required,min=3"`
	Email           string `validate:"required,email"`
	Password        string `validate:"required,min=6"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
}

// Request converts the form to the wire request.
func (f SignupForm) Request() models.RegisterRequest {
	return models.RegisterRequest{Username: f.Username, Email: f.Email, Password: f.Password}
}

type searchForm struct {
	Query string `validate:"min=2"`
	Limit int    `validate:"min=1,max=50"`
}

var (
	once     sync.Once
	validate *validator.Validate
)

func get() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("mealtype", func(fl validator.FieldLevel) bool {
			return models.MealType(fl.Field().String()).Valid()
		})
	})
	return validate
}

// Struct validates any struct carrying validate tags.
func Struct(v any) error {
	err := get().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return common.NewValidationError(err.Error())
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, message(fe))
	}
	return common.NewValidationError(strings.Join(msgs, "; "))
}

func Login(r models.LoginRequest) error {
	return Struct(r)
}

func Signup(f SignupForm) error {
	return Struct(f)
}

func Register(r models.RegisterRequest) error {
	return Struct(r)
}

func RegisterFull(r models.RegisterFullRequest) error {
	return Struct(r)
}

func LogMeal(r models.LogMealRequest) error {
	return Struct(r)
}

// Search checks the trimmed query and the result limit.
func Search(query string, limit int) error {
	return Struct(searchForm{Query: strings.TrimSpace(query), Limit: limit})
}

func message(fe validator.FieldError) string {
	field := fieldName(fe.Field())

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return "please enter a valid email address"
	case "eqfield":
		return "passwords do not match"
	case "mealtype":
		return "invalid meal type, valid options: BREAKFAST, LUNCH, DINNER, SNACK, OTHER"
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
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

var fieldNames = map[string]string{
	"UserID":          "user id",
	"FoodID":          "food id",
	"QuantityGrams":   "quantity",
	"MealType":        "meal type",
	"ConfirmPassword": "password confirmation",
	"HeightCm":        "height",
	"CurrentWeightKg": "current weight",
	"TargetWeightKg":  "target weight",
	"ActivityLevel":   "activity level",
	"PreferredUnits":  "preferred units",
}

func fieldName(f string) string {
	if n, ok := fieldNames[f]; ok {
		return n
	}
	return strings.ToLower(f)
}
