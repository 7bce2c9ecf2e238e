package agenda

import (
	"fmt"
	"net/url"
	"path"
	"strings"
	"unicode"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// Slugify lowercases s and collapses every run of non-alphanumeric
// characters into a single dash.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// DeriveID returns a stable session ID: the last segment of the session
// path, else the title slug, else a random ID.
func DeriveID(sessionPath, title string) (string, error) {
	if seg := lastSegment(sessionPath); seg != "" {
		if id := Slugify(seg); id != "" {
			return id, nil
		}
	}
	if id := Slugify(title); id != "" {
		return id, nil
	}

	id, err := gonanoid.Generate(idAlphabet, 12)
	if err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}
	return id, nil
}

func lastSegment(p string) string {
	if p == "" {
		return ""
	}
	if u, err := url.Parse(p); err == nil {
		p = u.Path
	}
	seg := path.Base(strings.TrimRight(p, "/"))
	if seg == "." || seg == "/" {
		return ""
	}
	return seg
}
