package auth

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-errors"
	"github.com/nyaruka/phonenumbers"
)

// RegisterMessage is the registration input. Phone is optional and must be
// in international format when present; Role defaults to customer.
type RegisterMessage struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	Password  string `json:"password"`
	// UseHashid derives the account id deterministically from the email
	// instead of generating a random one.
	UseHashid bool `json:"-"`
}

func (e RegisterMessage) Type() string { return "user.register" }

// Validate enforces the registration input rules
func (e RegisterMessage) Validate() error {
	err := validation.ValidateStruct(&e,
		validation.Field(&e.Email, validation.Required, is.Email),
		validation.Field(&e.Password, validation.Required, validation.Length(8, 0)),
		validation.Field(&e.FirstName, validation.Required, validation.Length(1, 200)),
		validation.Field(&e.LastName, validation.Required, validation.Length(1, 200)),
		validation.Field(&e.Role, validation.By(validRole)),
		validation.Field(&e.Phone, validation.By(validPhone)),
	)
	if err != nil {
		return errors.Wrap(err, errors.CategoryValidation, "invalid registration input")
	}

	return nil
}

func validRole(value any) error {
	role, _ := value.(string)
	if role == "" {
		return nil
	}
	if !IsValidRole(role) {
		return errors.New("role must be one of customer, vendor, admin", errors.CategoryValidation)
	}
	return nil
}

func validPhone(value any) error {
	phone, _ := value.(string)
	if phone == "" {
		return nil
	}
	if _, err := NormalizePhone(phone); err != nil {
		return err
	}
	return nil
}

// NormalizePhone parses an international phone number and returns its
// E.164 form.
func NormalizePhone(phone string) (string, error) {
	num, err := phonenumbers.Parse(phone, "")
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryValidation, "phone number must be in international format")
	}

	if !phonenumbers.IsValidNumber(num) {
		return "", errors.New("phone number is not valid", errors.CategoryValidation)
	}

	return phonenumbers.Format(num, phonenumbers.E164), nil
}
