package util

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const defaultPhoneRegion = "BR"

// NormalizePhone parses raw in the given region (BR when empty) and returns
// it in E.164 form. Unparseable or invalid numbers report false.
func NormalizePhone(raw, region string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if region == "" {
		region = defaultPhoneRegion
	}
	number, err := phonenumbers.Parse(raw, strings.ToUpper(region))
	if err != nil {
		return "", false
	}
	if !phonenumbers.IsPossibleNumber(number) || !phonenumbers.IsValidNumber(number) {
		return "", false
	}
	return phonenumbers.Format(number, phonenumbers.E164), true
}

// IsMobilePhone reports whether an E.164 number is a mobile line, which is
// what WhatsApp contact links need.
func IsMobilePhone(e164 string) bool {
	number, err := phonenumbers.Parse(e164, defaultPhoneRegion)
	if err != nil {
		return false
	}
	switch phonenumbers.GetNumberType(number) {
	case phonenumbers.MOBILE, phonenumbers.FIXED_LINE_OR_MOBILE:
		return true
	}
	return false
}

// WhatsAppLink builds a wa.me link from an E.164 number.
func WhatsAppLink(e164 string) string {
	digits := strings.TrimPrefix(e164, "+")
	if digits == "" {
		return ""
	}
	return "https://wa.me/" + digits
}
