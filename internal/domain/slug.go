package domain

import (
	"net/url"
	"strings"
)

const slugMaxLength = 50

// NormalizeSlug turns a title into a URL-safe identifier: lowercased,
// alphanumerics only, spaces collapsed to single dashes, capped at 50 chars.
func NormalizeSlug(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case 'a' <= r && r <= 'z' || '0' <= r && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('-')
		}
	}

	slug := b.String()
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	slug = strings.Trim(slug, "-")

	if len(slug) > slugMaxLength {
		slug = strings.Trim(slug[:slugMaxLength], "-")
	}
	return slug
}

// SlugFromURL extracts the slug segment from a source article URL.
// Sloan Review links carry it after an "article" path segment; Hacker News
// item links yield "hn-<id>". Other URLs yield "" and the caller falls back
// to the title.
func SlugFromURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	host := strings.ToLower(u.Host)
	if strings.Contains(host, "ycombinator") || strings.Contains(host, "hackernews") {
		if id := u.Query().Get("id"); id != "" {
			return "hn-" + id
		}
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, segment := range segments {
		if segment == "article" && i+1 < len(segments) {
			return NormalizeSlug(segments[i+1])
		}
	}
	return ""
}

// MatchesSlug reports whether the article answers to the requested slug,
// allowing a prefix match for slugs that were truncated at the cap.
func (a *Article) MatchesSlug(requested string) bool {
	if requested == "" {
		return false
	}
	slug := a.Slug
	if slug == "" {
		slug = NormalizeSlug(a.Title)
	}
	if slug == requested {
		return true
	}
	// Truncated slugs still address the article they were cut from.
	if len(requested) >= 20 && (strings.HasPrefix(slug, requested) || strings.HasPrefix(requested, slug)) {
		return true
	}
	return false
}
