package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mlima-digital/whatsapp-bridge/internal/models"
	"github.com/nyaruka/phonenumbers"
)

var nonDigits = regexp.MustCompile(`[^\d]`)

// NormalizePhone normalizes a Brazilian phone number to digits-only
// <55><DDD><number> form. Local 11-digit numbers get the country code
// prepended; 13-digit numbers must already carry it.
func NormalizePhone(raw string) (string, error) {
	digits := nonDigits.ReplaceAllString(raw, "")

	switch {
	case len(digits) == 11:
		digits = "55" + digits
	case len(digits) == 13 && strings.HasPrefix(digits, "55"):
		// already in international form
	default:
		return "", fmt.Errorf("%w: %s", models.ErrInvalidPhoneFormat, raw)
	}

	areaCode := digits[2:4]
	number := digits[4:]

	code, err := strconv.Atoi(areaCode)
	if err != nil || code < 11 || code > 99 {
		return "", fmt.Errorf("%w: %s", models.ErrInvalidAreaCode, areaCode)
	}

	if len(number) < 8 || len(number) > 9 {
		return "", fmt.Errorf("%w: %d digits", models.ErrInvalidPhoneLength, len(number))
	}

	return digits, nil
}

// FormatE164 formats a normalized phone number in E.164. Falls back to a
// plain "+" prefix when libphonenumber cannot parse the input.
func FormatE164(phone string) string {
	num, err := phonenumbers.Parse("+"+phone, "")
	if err != nil {
		return "+" + phone
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}

// WhatsAppDeepLink builds the wa.me link returned to the landing page
func WhatsAppDeepLink(phone string) string {
	return "https://wa.me/" + phone
}
