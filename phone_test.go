package fieldcodec_test

import (
	"errors"
	"testing"

	fc "github.com/Gobd/fieldcodec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var phoneCases = []struct {
	in   string
	want string
}{
	{"+49 1571 231 2312", "+4915712312312"},
	{"+49 175/3323-6724", "+4917533236724"},
	{"0175/3323+67 24", "017533236724"},
	{"++49175//3323+67  24", "+4917533236724"},
	{"+49 221 345 46", "+4922134546"},
	{"+49 11 231 2312 3123", "+491123123123123"},
	{"  +49 (0) 171/23-45", "+4901712345"},
	{"0171 2345678", "01712345678"},
	{"\n+1\t555 0100\n", "+15550100"},
}

func TestNormalizePhone(t *testing.T) {
	for _, tt := range phoneCases {
		t.Run(tt.in, func(t *testing.T) {
			got := fc.NormalizePhone(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, fc.NormalizePhone(got), "not idempotent")
		})
	}
}

func TestNormalizePhone_DropsEverythingElse(t *testing.T) {
	assert.Equal(t, "", fc.NormalizePhone(""))
	assert.Equal(t, "", fc.NormalizePhone("call me"))
	assert.Equal(t, "12", fc.NormalizePhone("1+2"))
	assert.Equal(t, "+", fc.NormalizePhone("+"))
}

func TestValidatePhone(t *testing.T) {
	for _, tt := range phoneCases {
		t.Run(tt.in, func(t *testing.T) {
			got, err := fc.ValidatePhone(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidatePhone_Invalid(t *testing.T) {
	for _, in := range []string{
		"",
		"+",
		"call me",
		"123",
		"+0 171 2345",
		"1234567890123456",
		"+49 1234 5678 9012 34",
	} {
		t.Run(in, func(t *testing.T) {
			got, err := fc.ValidatePhone(in)
			require.Error(t, err)
			assert.Empty(t, got)
			assert.True(t, errors.Is(err, fc.InvalidPhoneNumber))
		})
	}
}
