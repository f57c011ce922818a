package listing

import (
	"net/url"
	"strings"
)

// ApplyKind classifies how an apply link should be opened by the client.
type ApplyKind string

const (
	// ApplyKindWeb opens the link in a new tab.
	ApplyKindWeb ApplyKind = "web"
	// ApplyKindEmail opens the user's mail client.
	ApplyKindEmail ApplyKind = "email"
	// ApplyKindWhatsApp opens a WhatsApp chat.
	ApplyKindWhatsApp ApplyKind = "whatsapp"
)

// ApplyTarget is the resolved destination of an apply action, together with
// the reconciled applied counter for the next render.
type ApplyTarget struct {
	// Kind is the detected link kind.
	Kind ApplyKind
	// URL is the normalized link to open.
	URL string
	// Email is the bare address when Kind is ApplyKindEmail.
	Email string
	// Phone is the phone number when Kind is ApplyKindWhatsApp.
	Phone string
	// AppliedCount is the applied counter including this apply action.
	AppliedCount int
}

// ClassifyApplyLink inspects a raw apply URL and decides whether it is a web
// link, an email address, or a WhatsApp deep link. It never fails: anything
// unrecognized falls back to a web link. Supported shapes: mailto: links,
// bare addresses, wa.me/<number>, and whatsapp.com/send?phone=<number>.
func ClassifyApplyLink(raw string) ApplyTarget {
	link := strings.TrimSpace(raw)
	lower := strings.ToLower(link)

	if strings.HasPrefix(lower, "mailto:") {
		addr := strings.TrimSpace(link[len("mailto:"):])
		return ApplyTarget{Kind: ApplyKindEmail, URL: "mailto:" + addr, Email: addr}
	}
	if !strings.Contains(lower, "://") && strings.Contains(link, "@") {
		return ApplyTarget{Kind: ApplyKindEmail, URL: "mailto:" + link, Email: link}
	}

	if u, err := url.Parse(link); err == nil {
		host := strings.ToLower(u.Hostname())
		switch {
		case strings.Contains(host, "wa.me"):
			return ApplyTarget{Kind: ApplyKindWhatsApp, URL: link, Phone: strings.Trim(u.Path, "/")}
		case strings.Contains(host, "whatsapp.com"):
			phone := u.Query().Get("phone")
			if phone == "" {
				phone = link
			}
			return ApplyTarget{Kind: ApplyKindWhatsApp, URL: link, Phone: phone}
		}
	}

	return ApplyTarget{Kind: ApplyKindWeb, URL: link}
}
