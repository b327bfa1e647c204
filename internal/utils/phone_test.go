package utils

import (
	"testing"

	"github.com/mlima-digital/whatsapp-bridge/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  error
	}{
		{"local 11 digits", "11987654321", "5511987654321", nil},
		{"already prefixed", "5511987654321", "5511987654321", nil},
		{"formatted input", "+55 (11) 98765-4321", "5511987654321", nil},
		{"local 8-digit subscriber", "1133334444", "", models.ErrInvalidPhoneFormat},
		{"letters only", "abc", "", models.ErrInvalidPhoneFormat},
		{"empty", "", "", models.ErrInvalidPhoneFormat},
		{"area code too low", "05987654321", "", models.ErrInvalidAreaCode},
		{"13 digits without 55", "9911987654321", "", models.ErrInvalidPhoneFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePhone(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNormalizePhone_AlwaysBrazilian(t *testing.T) {
	// All valid 11-digit local numbers get the country code prepended
	for _, input := range []string{"11987654321", "21912345678", "99987654321"} {
		got, err := NormalizePhone(input)
		require.NoError(t, err)
		assert.True(t, len(got) == 12 || len(got) == 13)
		assert.Equal(t, "55", got[:2])
	}
}

func TestNormalizePhone_SubscriberLength(t *testing.T) {
	// 7-digit subscriber number inside a 13-digit string
	_, err := NormalizePhone("5511" + "1234567" + "89")
	require.NoError(t, err) // 9-digit subscriber, valid

	_, err = NormalizePhone("551198765432")
	assert.ErrorIs(t, err, models.ErrInvalidPhoneFormat) // 12 digits total
}

func TestFormatE164(t *testing.T) {
	assert.Equal(t, "+5511987654321", FormatE164("5511987654321"))
}

func TestWhatsAppDeepLink(t *testing.T) {
	assert.Equal(t, "https://wa.me/5511987654321", WhatsAppDeepLink("5511987654321"))
}
