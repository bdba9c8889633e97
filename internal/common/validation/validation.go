package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"workshop_hub/internal/common"

	"github.com/go-playground/validator/v10"
)

// Validate handles the declarative (tag-based) part of request validation.
// Rules that tags cannot express live in the functions below.
var Validate = validator.New(validator.WithRequiredStructEnabled())

// Struct runs tag validation and folds the first failure into the domain
// validation error.
func Struct(s interface{}) error {
	if err := Validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return fmt.Errorf("field %s failed on the %s rule: %w", f.Field(), f.Tag(), common.ErrValidation)
		}
		return fmt.Errorf("%s: %w", err.Error(), common.ErrValidation)
	}
	return nil
}

var (
	emailPattern   = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	upperPattern   = regexp.MustCompile(`[A-Z]`)
	lowerPattern   = regexp.MustCompile(`[a-z]`)
	digitPattern   = regexp.MustCompile(`\d`)
	specialPattern = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{}|;:,.<>?]`)
)

func Email(email string) error {
	if email == "" {
		return fmt.Errorf("email is required: %w", common.ErrValidation)
	}
	if len(email) > 255 {
		return fmt.Errorf("email must be less than 255 characters: %w", common.ErrValidation)
	}
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("invalid email format: %w", common.ErrValidation)
	}
	return nil
}

// Password enforces length 8-128 and one of each character class.
func Password(password string) error {
	switch {
	case password == "":
		return fmt.Errorf("password is required: %w", common.ErrValidation)
	case len(password) < 8:
		return fmt.Errorf("password must be at least 8 characters: %w", common.ErrValidation)
	case len(password) > 128:
		return fmt.Errorf("password must be less than 128 characters: %w", common.ErrValidation)
	case !upperPattern.MatchString(password):
		return fmt.Errorf("password must contain at least one uppercase letter: %w", common.ErrValidation)
	case !lowerPattern.MatchString(password):
		return fmt.Errorf("password must contain at least one lowercase letter: %w", common.ErrValidation)
	case !digitPattern.MatchString(password):
		return fmt.Errorf("password must contain at least one number: %w", common.ErrValidation)
	case !specialPattern.MatchString(password):
		return fmt.Errorf("password must contain at least one special character: %w", common.ErrValidation)
	}
	return nil
}

func UserName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("name is required: %w", common.ErrValidation)
	}
	if len(trimmed) > 100 {
		return fmt.Errorf("name must be less than 100 characters: %w", common.ErrValidation)
	}
	return nil
}

// MaxHTMLContentBytes caps rich content payloads at 50KB.
const MaxHTMLContentBytes = 50 * 1024

func HTMLContent(content string) error {
	if len(content) > MaxHTMLContentBytes {
		return fmt.Errorf("html_content must not exceed %d bytes: %w", MaxHTMLContentBytes, common.ErrValidation)
	}
	return nil
}
