// Package robots renders the crawler policy served at /robots.txt.
package robots

import (
	"net/http"
	"strings"
)

type Rule struct {
	UserAgent string
	Allow     []string
	Disallow  []string
}

type Policy struct {
	Rules   []Rule
	Sitemap string
}

// Default lets crawlers index the public site but keeps them out of the
// dashboard and the API.
func Default(sitemapURL string) Policy {
	return Policy{
		Rules: []Rule{{
			UserAgent: "*",
			Allow:     []string{"/"},
			Disallow:  []string{"/dashboard", "/api"},
		}},
		Sitemap: sitemapURL,
	}
}

// SitemapURL joins the public site URL with the sitemap path.
func SitemapURL(siteURL string) string {
	return strings.TrimRight(siteURL, "/") + "/sitemap.xml"
}

func (p Policy) String() string {
	var b strings.Builder
	for i, rule := range p.Rules {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("User-Agent: " + rule.UserAgent + "\n")
		for _, path := range rule.Allow {
			b.WriteString("Allow: " + path + "\n")
		}
		for _, path := range rule.Disallow {
			b.WriteString("Disallow: " + path + "\n")
		}
	}
	if p.Sitemap != "" {
		b.WriteString("\nSitemap: " + p.Sitemap + "\n")
	}
	return b.String()
}

// Handler serves the policy. The body is rendered once and does not depend
// on the request.
func Handler(p Policy) http.HandlerFunc {
	body := []byte(p.String())
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}
		_, _ = w.Write(body)
	}
}
