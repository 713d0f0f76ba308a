package notify

import "strings"

// DefaultCountryCode is prefixed to every recipient address.
const DefaultCountryCode = "91"

// Separator returns the address list separator understood by the SMS app on
// platform, a GOOS value.
func Separator(platform string) string {
	switch platform {
	case "ios", "darwin":
		return ","
	default:
		return ";"
	}
}

// Address prefixes phone with the country code.
func Address(countryCode, phone string) string {
	return countryCode + phone
}

// GroupAddress joins every phone, country-code prefixed, with sep.
func GroupAddress(phones []string, countryCode, sep string) string {
	addrs := make([]string, len(phones))
	for i, p := range phones {
		addrs[i] = Address(countryCode, p)
	}
	return strings.Join(addrs, sep)
}
