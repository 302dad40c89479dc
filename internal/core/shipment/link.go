package shipment

import (
	"fmt"
	"net/url"
	"strings"
)

// LinkParam is the query parameter that carries the current shipment code.
const LinkParam = "code"

// Link renders the location fragment that reopens a shipment, e.g.
// "/scan?code=SH001".
func Link(base, code string) string {
	q := url.Values{}
	q.Set(LinkParam, code)
	return base + "?" + q.Encode()
}

// ParseLink extracts the shipment code from a link or bare query string.
// Accepted forms: "https://host/scan?code=SH001", "/scan?code=SH001",
// "?code=SH001" and "code=SH001".
func ParseLink(link string) (string, error) {
	raw := strings.TrimSpace(link)
	if raw == "" {
		return "", fmt.Errorf("empty link")
	}

	var query string
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		query = raw[i+1:]
	} else {
		query = raw
	}

	values, err := url.ParseQuery(query)
	if err != nil {
		return "", fmt.Errorf("failed to parse link %q: %w", link, err)
	}
	code := strings.TrimSpace(values.Get(LinkParam))
	if code == "" {
		return "", fmt.Errorf("link %q has no %s parameter", link, LinkParam)
	}
	return code, nil
}
