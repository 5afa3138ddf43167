package fieldcodec_test

import (
	"strconv"
	"testing"

	fc "github.com/Gobd/fieldcodec"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type described struct {
	Email   string     `json:"email"`
	Mobile  *string    `json:"mobile"`
	Enabled uint8      `json:"enabled"`
	Level   *uint8     `json:"level"`
	Count   int        `json:"count"`
	Site    string     `json:"site"`
	Card    cardNumber `json:"card"`
	Inner   inner      `json:"inner"`
	Name    string     `json:"name"`
	Raw     string     `json:"raw"`
}

func (d *described) Rules() []*fc.FieldRules {
	return []*fc.FieldRules{
		fc.Transform(&d.Email, fc.Email, fc.Required),
		fc.Transform(&d.Mobile, fc.Optional(fc.Phone)),
		fc.Transform(&d.Enabled, fc.From(fc.BoolTo[uint8])),
		fc.Transform(&d.Level, fc.TryFromOption(fc.Narrow[int64, uint8])),
		fc.Transform(&d.Count, fc.FromString(strconv.Atoi)),
		fc.Transform(&d.Site, fc.URL),
		fc.Field(&d.Card),
		fc.Transform(&d.Inner, fc.EmbeddedJSON[inner]()),
		fc.Field(&d.Name, fc.Required, fc.Custom(func(any) error { return nil }, "display name")),
		fc.Field(&d.Raw),
	}
}

func describedSchema(t *testing.T) *openapi3.Schema {
	t.Helper()
	ref, err := fc.NewSchemaRefForValue(described{})
	require.NoError(t, err)
	require.NotNil(t, ref.Value)
	return ref.Value
}

func property(t *testing.T, schema *openapi3.Schema, name string) *openapi3.Schema {
	t.Helper()
	ref, ok := schema.Properties[name]
	require.True(t, ok, "missing property %q", name)
	require.NotNil(t, ref.Value)
	return ref.Value
}

func TestSchema_Required(t *testing.T) {
	schema := describedSchema(t)
	assert.ElementsMatch(t, []string{"email", "name"}, schema.Required)
}

func TestSchema_StringFormats(t *testing.T) {
	schema := describedSchema(t)

	email := property(t, schema, "email")
	assert.Equal(t, &openapi3.Types{"string"}, email.Type)
	assert.Equal(t, "email", email.Format)

	site := property(t, schema, "site")
	assert.Equal(t, "uri", site.Format)

	card := property(t, schema, "card")
	assert.Equal(t, "credit-card", card.Format)
	assert.Contains(t, card.Description, "credit card number")

	raw := property(t, schema, "raw")
	assert.Empty(t, raw.Format)
	assert.Empty(t, raw.Description)
}

func TestSchema_Optional(t *testing.T) {
	schema := describedSchema(t)

	mobile := property(t, schema, "mobile")
	assert.Equal(t, "phone", mobile.Format)
	assert.True(t, mobile.Nullable)

	level := property(t, schema, "level")
	assert.Equal(t, &openapi3.Types{"integer"}, level.Type)
	assert.True(t, level.Nullable)
}

func TestSchema_WireTypes(t *testing.T) {
	schema := describedSchema(t)

	enabled := property(t, schema, "enabled")
	assert.Equal(t, &openapi3.Types{"boolean"}, enabled.Type)
	assert.Nil(t, enabled.Min)
	assert.Nil(t, enabled.Max)
	assert.False(t, enabled.Nullable)

	count := property(t, schema, "count")
	assert.Equal(t, &openapi3.Types{"string"}, count.Type)
}

func TestSchema_EmbeddedDocument(t *testing.T) {
	schema := describedSchema(t)

	in := property(t, schema, "inner")
	assert.Equal(t, &openapi3.Types{"string"}, in.Type)
	assert.Empty(t, in.Properties)
	assert.Equal(t, "json document encoded as a string", in.Description)
}

func TestSchema_CustomDescription(t *testing.T) {
	schema := describedSchema(t)
	assert.Equal(t, "display name", property(t, schema, "name").Description)
}

func TestSchema_NestedRecords(t *testing.T) {
	ref, err := fc.NewSchemaRefForValue(team{})
	require.NoError(t, err)

	members := property(t, ref.Value, "members")
	require.NotNil(t, members.Items)
	require.NotNil(t, members.Items.Value)
	email := property(t, members.Items.Value, "email")
	assert.Equal(t, "email", email.Format)
	assert.Contains(t, members.Items.Value.Required, "email")
}
