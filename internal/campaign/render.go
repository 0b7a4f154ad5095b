package campaign

import (
	"fmt"
	"regexp"
)

var placeholderRe = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

// MissingFieldError reports a template placeholder with no matching
// record field. Sending an unpersonalized message is worse than sending
// none, so the render fails instead of leaving the placeholder in place.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("template field %q missing from recipient record", e.Field)
}

// Renderer fills a Template from a Record. Fallback, when non-empty, is
// substituted for any missing field instead of failing the render.
type Renderer struct {
	Fallback string
}

// Render personalizes subject and body. The first missing field aborts
// the render with a MissingFieldError unless a fallback is configured.
func (r Renderer) Render(t Template, rec Record) (subject, body string, err error) {
	subject, err = r.expand(t.Subject, rec)
	if err != nil {
		return "", "", err
	}
	body, err = r.expand(t.Body, rec)
	if err != nil {
		return "", "", err
	}
	return subject, body, nil
}

func (r Renderer) expand(text string, rec Record) (string, error) {
	var missing *MissingFieldError
	out := placeholderRe.ReplaceAllStringFunc(text, func(m string) string {
		field := m[1 : len(m)-1]
		v, ok := rec[field]
		if !ok {
			if r.Fallback != "" {
				return r.Fallback
			}
			if missing == nil {
				missing = &MissingFieldError{Field: field}
			}
			return m
		}
		return v
	})
	if missing != nil {
		return "", missing
	}
	return out, nil
}
