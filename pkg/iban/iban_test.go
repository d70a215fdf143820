package iban

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "BE68539007547034", Normalize("be68 5390 0754 7034"))
	assert.Equal(t, "", Normalize(""))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "BE68 5390 0754 7034", Format("BE68539007547034"))
	assert.Equal(t, "BE68 5390 0754 7034", Format("be68 5390 0754 7034"))
}

func TestIsValid(t *testing.T) {
	valid := []string{
		"BE68 5390 0754 7034",
		"DE89 3704 0044 0532 0130 00",
		"NL91 ABNA 0417 1643 00",
		"FR14 2004 1010 0505 0001 3M02 606",
		"GB29 NWBK 6016 1331 9268 19",
	}
	for _, iban := range valid {
		assert.True(t, IsValid(iban), "expected %s to be valid", iban)
	}

	invalid := []string{
		"",
		"BE68",
		"BE68 5390 0754 7035",
		"XX00 1234 5678 9012",
		"BE68 5390 0754 70!4",
		"DE89370400440532013000EXTRA9999999999",
	}
	for _, iban := range invalid {
		assert.False(t, IsValid(iban), "expected %s to be invalid", iban)
	}
}
