package fieldcodec_test

import (
	"errors"
	"testing"

	fc "github.com/Gobd/fieldcodec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmail_Valid(t *testing.T) {
	for _, in := range []string{
		"email@here.com",
		"weirder-email@here.and.there.com",
		`!def!xyz%abc@example.com`,
		"email@[127.0.0.1]",
		"email@[2001:dB8::1]",
		"email@[2001:dB8:0:0:0:0:0:1]",
		"email@[::fffF:127.0.0.1]",
		"example@valid-----hyphens.com",
		"example@valid-with-hyphens.com",
		"test@domain.with.idn.tld.उदाहरण.परीक्षा",
		"a@atm.aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		"a@aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa.atm",
		"a@aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa.bbbbbbbbbb.atm",
		"abc@bar",
		"ABC@BAR",
		"       email@127.0.0.1     ",
		"\n\t  a@b.com\n",
		"\na@[127.0.0.1]\n",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := fc.ValidateEmail(in)
			assert.NoError(t, err)
		})
	}
}

func TestValidateEmail_Invalid(t *testing.T) {
	for _, in := range []string{
		`"test@test"@example.com`,
		"a@atm.aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		"",
		"abc",
		"abc@",
		"a @x.cz",
		"abc@.com",
		"something@@somewhere.com",
		"email@[127.0.0.256]",
		"email@[2001:db8::12345]",
		"email@[2001:db8:0:0:0:0:1]",
		"email@[::ffff:127.0.0.256]",
		"example@invalid-.com",
		"example@-invalid.com",
		"example@invalid.com-",
		"example@inv-.alid-.com",
		"example@inv-.-alid.com",
		`test@example.com\n\n<script src="x.js">`,
		`"\\\011"@here.com`,
		`"\\\012"@here.com`,
		"trailingdot@shouldfail.com.",
		"a\n@b.com",
		`"test@test"\n@example.com`,
		"John.Doe@exam_ple.com",
		"a@exam\u00adple.com",
		"a@ｅｘａｍｐｌｅ.com",
	} {
		t.Run(in, func(t *testing.T) {
			got, err := fc.ValidateEmail(in)
			require.Error(t, err)
			assert.Empty(t, got)
			assert.True(t, errors.Is(err, fc.InvalidEmail))
		})
	}
}

func TestValidateEmail_Normalizes(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Test@Test.De", "test@test.de"},
		{"  ABC@BAR  ", "abc@bar"},
		{"email@[2001:dB8::1]", "email@[2001:db8::1]"},
		{"test@Domain.उदाहरण", "test@domain.उदाहरण"},
	}
	for _, tt := range tests {
		got, err := fc.ValidateEmail(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestValidateEmail_LocalPartLength(t *testing.T) {
	local := "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	require.Len(t, local, 64)

	_, err := fc.ValidateEmail(local + "@example.com")
	assert.NoError(t, err)

	_, err = fc.ValidateEmail(local + "a@example.com")
	assert.True(t, errors.Is(err, fc.InvalidEmail))
}
