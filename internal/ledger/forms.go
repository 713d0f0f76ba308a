package ledger

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// RegisterForm creates a mandap and its admin.
type RegisterForm struct {
	MandapName      string `form:"mandap_name" validate:"min=3"`
	Username        string `form:"username" validate:"min=3"`
	Password        string `form:"password" validate:"min=4"`
	ConfirmPassword string `form:"confirm_password" validate:"eqfield=Password"`
}

// StaffForm adds a staff login to a mandap.
type StaffForm struct {
	Username string `form:"username" validate:"min=3"`
	Password string `form:"password" validate:"min=4"`
}

// OfferingForm records a devotee's offering.
type OfferingForm struct {
	Name    string `form:"name" validate:"required,min=2"`
	Gothram string `form:"gothram" validate:"required"`
	Phone   string `form:"phone" validate:"required,len=10,number"`
	Address string `form:"address" validate:"required,min=5"`
	Rupees  int64  `form:"rupees" validate:"gt=0"`
}

// EventForm schedules an event.
type EventForm struct {
	Title       string `form:"title" validate:"min=3"`
	Date        string `form:"date" validate:"required,datetime=2006-01-02"`
	Description string `form:"description"`
}

// ExpenseForm records money spent.
type ExpenseForm struct {
	Description string `form:"description" validate:"required"`
	Amount      int64  `form:"amount" validate:"gt=0"`
	Category    string `form:"category" validate:"required,oneof=Rituals Food Decoration Electricity Maintenance Publicity Other"`
	Date        string `form:"date" validate:"required,datetime=2006-01-02"`
}

// messages overrides the generated text for specific field rules.
var messages = map[string]string{
	"phone.len":                "Enter a valid 10-digit phone number",
	"phone.number":             "Enter a valid 10-digit phone number",
	"phone.required":           "Phone number is required",
	"rupees.gt":                "Amount must be greater than 0",
	"title.min":                "Event title must be at least 3 characters",
	"date.required":            "Please select a date",
	"date.datetime":            "Date must be in YYYY-MM-DD format",
	"confirm_password.eqfield": "Passwords do not match",
	"mandap_name.min":          "Mandap Name must be at least 3 characters",
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("form")
	})
	return v
}

// check validates a form and converts rule failures into a ValidationError.
func check(v *validator.Validate, form any) error {
	err := v.Struct(form)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	verr := &ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		if _, seen := verr.Fields[fe.Field()]; seen {
			continue
		}
		verr.Fields[fe.Field()] = message(fe)
	}
	return verr
}

func message(fe validator.FieldError) string {
	if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	label := humanize(fe.Field())
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s is invalid", label)
	}
}

func humanize(field string) string {
	s := strings.ReplaceAll(field, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func trim(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}
