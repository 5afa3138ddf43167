package fieldcodec_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	fc "github.com/Gobd/fieldcodec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cardNumber string

func (cardNumber) ValueRules() []fc.Rule {
	return []fc.Rule{fc.IsCreditCard}
}

type signup struct {
	Name   string     `json:"name"`
	Email  string     `json:"email"`
	Mobile *string    `json:"mobile"`
	Card   cardNumber `json:"card"`
	Site   string     `json:"site"`
}

func (s *signup) Rules() []*fc.FieldRules {
	return []*fc.FieldRules{
		fc.Field(&s.Name, fc.Required),
		fc.Transform(&s.Email, fc.Email, fc.Required),
		fc.Transform(&s.Mobile, fc.Optional(fc.Phone)),
		fc.Field(&s.Card),
		fc.Field(&s.Site, fc.IsURL),
	}
}

func (s *signup) Normalize() {
	s.Name = strings.TrimSpace(s.Name)
}

func TestUnmarshalAndValidate(t *testing.T) {
	doc := `{"name": "  Ada  ", "email": "ADA@example.org", "mobile": "+44 20 7946 0000", "card": "4111 1111 1111 1111"}`

	var got signup
	require.NoError(t, fc.UnmarshalAndValidate(fc.JSON, []byte(doc), &got))
	assert.Equal(t, "Ada", got.Name)
	assert.Equal(t, "ada@example.org", got.Email)
	require.NotNil(t, got.Mobile)
	assert.Equal(t, "+442079460000", *got.Mobile)
}

func TestUnmarshalAndValidate_ValidationErrors(t *testing.T) {
	doc := `{"name": "   ", "email": "ada@example.org", "card": "4111 1111 1111 1112", "site": "not a url"}`

	var got signup
	err := fc.UnmarshalAndValidate(fc.JSON, []byte(doc), &got)
	require.Error(t, err)

	var verrs fc.ValidationErrors
	require.True(t, errors.As(err, &verrs), "not ValidationErrors: %v", err)
	assert.Len(t, verrs, 3)
	assert.EqualError(t, verrs["name"], "cannot be blank")
	assert.EqualError(t, verrs["card"], "must be a valid credit card number")
	assert.EqualError(t, verrs["site"], "must be a valid URL")
}

func TestUnmarshalAndValidate_DecodeErrorStopsEarly(t *testing.T) {
	var got signup
	err := fc.UnmarshalAndValidate(fc.JSON, []byte(`{"name": "", "email": "nope"}`), &got)

	var fe *fc.Error
	require.True(t, errors.As(err, &fe), "not an *Error: %v", err)
	assert.Equal(t, "email", fe.Field)
	assert.Equal(t, fc.InvalidEmail, fe.Kind)
}

func TestDecodeAndValidate(t *testing.T) {
	doc := "name: Grace\nemail: grace@example.org\nmobile: ~\n"

	var got signup
	require.NoError(t, fc.DecodeAndValidate(fc.YAML, strings.NewReader(doc), &got))
	assert.Equal(t, "Grace", got.Name)
	assert.Nil(t, got.Mobile)
}

type requiredMobile struct {
	Mobile *string `json:"mobile"`
}

func (r *requiredMobile) Rules() []*fc.FieldRules {
	return []*fc.FieldRules{
		fc.Transform(&r.Mobile, fc.Optional(fc.Phone), fc.Required),
	}
}

func TestRequired_SeesDecodedValue(t *testing.T) {
	var got requiredMobile
	err := fc.UnmarshalAndValidate(fc.JSON, []byte(`{"mobile": null}`), &got)

	var verrs fc.ValidationErrors
	require.True(t, errors.As(err, &verrs), "not ValidationErrors: %v", err)
	assert.EqualError(t, verrs["mobile"], "cannot be blank")

	require.NoError(t, fc.UnmarshalAndValidate(fc.JSON, []byte(`{"mobile": "0171 2345"}`), &got))
}

func TestValidate_ValueRuler(t *testing.T) {
	assert.NoError(t, fc.Validate(cardNumber("4111111111111111")))
	assert.EqualError(t, fc.Validate(cardNumber("4111111111111112")), "must be a valid credit card number")
	assert.NoError(t, fc.Validate(cardNumber("")))
}

type member struct {
	Email string `json:"email"`
}

func (m *member) Rules() []*fc.FieldRules {
	return []*fc.FieldRules{
		fc.Transform(&m.Email, fc.Email, fc.Required),
	}
}

type team struct {
	Name    string            `json:"name"`
	Members []member          `json:"members"`
	Roles   map[string]member `json:"roles"`
}

func (tm *team) Rules() []*fc.FieldRules {
	return []*fc.FieldRules{
		fc.Field(&tm.Name, fc.Required),
		fc.Field(&tm.Members),
		fc.Field(&tm.Roles),
	}
}

func TestValidate_Collections(t *testing.T) {
	tm := &team{
		Name:    "core",
		Members: []member{{Email: "a@b.c"}, {}},
		Roles:   map[string]member{"lead": {}},
	}
	err := fc.Validate(tm)
	require.Error(t, err)

	verrs, ok := err.(fc.ValidationErrors)
	require.True(t, ok)

	members, ok := verrs["members"].(fc.ValidationErrors)
	require.True(t, ok, "members: %v", verrs["members"])
	assert.Contains(t, members, "1")
	assert.NotContains(t, members, "0")

	roles, ok := verrs["roles"].(fc.ValidationErrors)
	require.True(t, ok, "roles: %v", verrs["roles"])
	assert.Contains(t, roles, "lead")
}

func TestValidate_Nil(t *testing.T) {
	var tm *team
	assert.NoError(t, fc.Validate(tm))
	assert.NoError(t, fc.Validate(nil))
}

func TestCustom(t *testing.T) {
	rule := fc.Custom(func(v any) error {
		if s, _ := v.(string); s == "root" {
			return errors.New("reserved name")
		}
		return nil
	}, "must not be root")

	assert.NoError(t, rule.Validate("ada"))
	assert.EqualError(t, rule.Validate("root"), "reserved name")
}

func TestBy(t *testing.T) {
	rule := fc.By(func(v any) error {
		if n, _ := v.(int); n%2 != 0 {
			return errors.New("must be even")
		}
		return nil
	}, "even number")

	assert.NoError(t, rule.Validate(4))
	assert.EqualError(t, rule.Validate(3), "must be even")
}

func TestStringRules(t *testing.T) {
	tests := []struct {
		name string
		rule fc.Rule
		ok   string
		bad  string
	}{
		{"phone", fc.IsPhone, "+49 171 2345", "12"},
		{"email", fc.IsEmail, "a@b.c", "a@"},
		{"url", fc.IsURL, "https://example.com", "%zz"},
		{"credit card", fc.IsCreditCard, "4012888888881881", "4012888888881882"},
		{"percent encoded", fc.IsPercentEncoded, "a%20b", "a%2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, tt.rule.Validate(tt.ok))
			assert.Error(t, tt.rule.Validate(tt.bad))
			assert.NoError(t, tt.rule.Validate(""), "empty strings are left to Required")
		})
	}
}

type tenantKey struct{}

type tenantRecord struct {
	Tenant string `json:"tenant"`
}

func (r *tenantRecord) Rules(ctx context.Context) []*fc.FieldRules {
	if ctx.Value(tenantKey{}) == nil {
		return []*fc.FieldRules{fc.Field(&r.Tenant)}
	}
	return []*fc.FieldRules{
		fc.Transform(&r.Tenant, fc.String(fc.TrimSpace, fc.ToLower), fc.Required),
	}
}

func TestUnmarshalAndValidateCtx(t *testing.T) {
	doc := []byte(`{"tenant": "  ACME "}`)

	var plain tenantRecord
	require.NoError(t, fc.UnmarshalAndValidate(fc.JSON, doc, &plain))
	assert.Equal(t, "  ACME ", plain.Tenant)

	ctx := context.WithValue(context.Background(), tenantKey{}, true)
	var scoped tenantRecord
	require.NoError(t, fc.UnmarshalAndValidateCtx(ctx, fc.JSON, doc, &scoped))
	assert.Equal(t, "acme", scoped.Tenant)

	err := fc.UnmarshalAndValidateCtx(ctx, fc.JSON, []byte(`{"tenant": "   "}`), &scoped)
	var verrs fc.ValidationErrors
	require.True(t, errors.As(err, &verrs), "not ValidationErrors: %v", err)
	assert.Contains(t, verrs, "tenant")
}
