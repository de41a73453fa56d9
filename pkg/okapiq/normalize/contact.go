package normalize

import (
	"regexp"
	"strings"

	"okapiq/pkg/okapiq/model"
)

var (
	digitsRE     = regexp.MustCompile(`\d`)
	emailRE      = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	websiteHostRE = regexp.MustCompile(`^https?://`)
)

// NormalizeContact formats a phone number into a national display
// format and validates the phone/email/website fields independently.
// A field that fails validation is kept as-is but flagged invalid,
// never dropped — downstream scoring treats it as absent.
func NormalizeContact(phoneRaw, emailRaw, websiteRaw string) model.Contact {
	c := model.Contact{
		PhoneRaw: strings.TrimSpace(phoneRaw),
		EmailRaw: strings.TrimSpace(emailRaw),
	}
	digits := digitsRE.FindAllString(c.PhoneRaw, -1)
	joined := strings.Join(digits, "")
	if len(joined) == 11 && strings.HasPrefix(joined, "1") {
		joined = joined[1:]
	}
	if len(joined) == 10 {
		c.PhoneNationalFormat = "(" + joined[0:3] + ") " + joined[3:6] + "-" + joined[6:10]
		c.PhoneValid = true
	}
	if c.EmailRaw != "" {
		c.EmailValid = emailRE.MatchString(c.EmailRaw)
	}
	if websiteRaw != "" {
		c.WebsiteRaw = websiteRaw
		c.WebsiteValid = ValidWebsite(websiteRaw)
	}
	return c
}

// ValidWebsite reports whether raw looks like a well-formed http(s) URL.
func ValidWebsite(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	if !websiteHostRE.MatchString(raw) {
		raw = "https://" + raw
	}
	host := websiteHostRE.ReplaceAllString(raw, "")
	return host != "" && strings.Contains(host, ".")
}
