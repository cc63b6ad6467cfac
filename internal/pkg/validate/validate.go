package validate

import (
	"net/mail"
	"strings"
	"unicode/utf8"
)

func Required(value string) bool {
	return strings.TrimSpace(value) != ""
}

// Email accepts a bare address with a non-empty local part and a dotted or
// single-label domain. Display names are rejected.
func Email(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" || strings.ContainsAny(value, " <>") {
		return false
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return false
	}
	at := strings.LastIndex(value, "@")
	return at > 0 && at < len(value)-1
}

func MinLength(value string, n int) bool {
	return utf8.RuneCountInString(value) >= n
}
