package fieldcodec_test

import (
	"errors"
	"testing"

	fc "github.com/Gobd/fieldcodec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCreditCard(t *testing.T) {
	for _, in := range []string{
		"3782 8224 631 0005",
		"37144 96353 98431",
		"378734493671000      ",
		" 56105910\n81018250 ",
		"305 69309 025 904",
		"385 20000023237",
		"6011 11111 1111117",
		"6011000990139424",
		"3530111333300000",
		"35660020 20360505",
		"5555555555554444",
		"5105105105105100",
		"41111111\n\n\n11111111",
		"4012888888881881",
		"4222222222222",
		"5019717010103742",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := fc.ValidateCreditCard(in)
			assert.NoError(t, err)
		})
	}
}

func TestValidateCreditCard_StripsSeparators(t *testing.T) {
	got, err := fc.ValidateCreditCard(" 4111-1111 1111\t1111 ")
	require.NoError(t, err)
	assert.Equal(t, "4111111111111111", got)
}

func TestValidateCreditCard_Invalid(t *testing.T) {
	for _, in := range []string{
		"",
		"4111111111111112",
		"4111 1111 1111 111a",
		"0000 0000 000",
		"4111.1111.1111.1111",
		"41111111111111111111",
	} {
		t.Run(in, func(t *testing.T) {
			got, err := fc.ValidateCreditCard(in)
			require.Error(t, err)
			assert.Empty(t, got)
			assert.True(t, errors.Is(err, fc.InvalidCreditCard))
		})
	}
}
