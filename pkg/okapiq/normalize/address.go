package normalize

import (
	"regexp"
	"strings"

	"okapiq/pkg/okapiq/model"
)

var (
	streetLineRE = regexp.MustCompile(`^\s*(\d+)\s+(.+)$`)
	cityStateZip = regexp.MustCompile(`(?i)^(.+?),\s*([A-Za-z]{2})\s*(\d{5}(?:-\d{4})?)?\s*$`)
)

// ParseAddress splits a free-form address string into its structured
// components. It tolerates missing pieces: any component it cannot
// confidently parse is left blank rather than guessed (spec §4.3
// "address parsing never fabricates fields").
func ParseAddress(raw string) model.Address {
	addr := model.Address{Raw: strings.TrimSpace(raw)}
	if addr.Raw == "" {
		return addr
	}

	parts := strings.Split(addr.Raw, ",")
	if len(parts) == 0 {
		return addr
	}

	street := strings.TrimSpace(parts[0])
	if m := streetLineRE.FindStringSubmatch(street); m != nil {
		addr.StreetNumber = m[1]
		addr.StreetName = strings.TrimSpace(m[2])
	} else {
		addr.StreetName = street
	}

	if len(parts) >= 2 {
		rest := strings.TrimSpace(strings.Join(parts[1:], ","))
		if m := cityStateZip.FindStringSubmatch(rest); m != nil {
			addr.City = strings.TrimSpace(m[1])
			addr.State = strings.ToUpper(m[2])
			addr.Zip = m[3]
		} else if len(parts) >= 2 {
			addr.City = strings.TrimSpace(parts[1])
			if len(parts) >= 3 {
				tail := strings.Fields(strings.TrimSpace(parts[2]))
				if len(tail) >= 1 {
					addr.State = strings.ToUpper(tail[0])
				}
				if len(tail) >= 2 {
					addr.Zip = tail[1]
				}
			}
		}
	}
	return addr
}
