// Package i18n provides locale catalogs for user-facing error messages.
package i18n

import (
	"bytes"
	"text/template"
)

// Code mirrors the error code strings from internal/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
type Code = string

// Catalog holds user-facing message templates for one locale.
type Catalog struct {
	locale   string
	messages map[Code]string
}

// Locale returns the catalog's BCP 47 locale tag.
func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders the message for the given code, substituting metadata
// values into {{.Key}} placeholders. Unknown codes fall back to the code
// string itself so callers always get something presentable.
func (c *Catalog) Format(code string, metadata map[string]string) string {
	msg, ok := c.messages[code]
	if !ok {
		return code
	}
	if len(metadata) == 0 {
		return msg
	}

	tmpl, err := template.New("msg").Parse(msg)
	if err != nil {
		return msg
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, metadata); err != nil {
		return msg
	}
	return buf.String()
}

// GetCatalog returns the catalog for the requested locale, defaulting to
// en-US when the locale is unknown.
func GetCatalog(locale string) *Catalog {
	switch locale {
	case "en-US", "en":
		return enUSCatalog
	default:
		return enUSCatalog
	}
}
