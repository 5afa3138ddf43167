package fieldcodec

import (
	"github.com/getkin/kin-openapi/openapi3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type stringRule struct {
	validation.StringRule
	desc   string
	format string
}

// NewStringRuleWithError returns a string validation rule with a custom error and schema description.
func NewStringRuleWithError(validator func(string) bool, err validation.Error, desc string) Rule {
	return stringRule{
		StringRule: validation.NewStringRuleWithError(validator, err),
		desc:       desc,
	}
}

// NewStringRule returns a string validation rule using desc as both the error message and schema description.
func NewStringRule(validator func(string) bool, desc string) Rule {
	return stringRule{
		StringRule: validation.NewStringRule(validator, desc),
		desc:       desc,
	}
}

func (r stringRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	if r.format != "" {
		ref.Value.Format = r.format
	}
	appendDescription(ref.Value, r.desc)
	return nil
}

// Errors reported by the Is* rules.
var (
	ErrPhone          = validation.NewError("validation_is_phone", "must be a valid phone number")
	ErrEmail          = validation.NewError("validation_is_email", "must be a valid email address")
	ErrURL            = validation.NewError("validation_is_url", "must be a valid URL")
	ErrCreditCard     = validation.NewError("validation_is_credit_card", "must be a valid credit card number")
	ErrPercentEncoded = validation.NewError("validation_is_percent_encoded", "must be a valid percent-encoded string")
)

// Rules checking strings with the same validators the decode transforms use.
// Empty strings pass; combine with Required to reject them.
var (
	IsPhone          = formatRule(accepts(ValidatePhone), ErrPhone, "phone", "phone number")
	IsEmail          = formatRule(accepts(ValidateEmail), ErrEmail, "email", "e-mail address")
	IsURL            = formatRule(accepts(ValidateURL), ErrURL, "uri", "URL")
	IsCreditCard     = formatRule(accepts(ValidateCreditCard), ErrCreditCard, "credit-card", "credit card number")
	IsPercentEncoded = formatRule(accepts(PercentDecode), ErrPercentEncoded, "", "percent-encoded string")
)

func formatRule(validator func(string) bool, err validation.Error, format, desc string) Rule {
	return stringRule{
		StringRule: validation.NewStringRuleWithError(validator, err),
		desc:       desc,
		format:     format,
	}
}

func accepts(fn StringTransformer) func(string) bool {
	return func(s string) bool {
		_, err := fn(s)
		return err == nil
	}
}
