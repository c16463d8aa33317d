package security

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	// Search engines and link previews are welcome.
	allowedBots = regexp.MustCompile(`(?i)(googlebot|bingbot|duckduckbot|yandexbot|applebot|slackbot|twitterbot|facebookexternalhit|linkedinbot|discordbot|whatsapp)`)

	automatedClients = regexp.MustCompile(`(?i)(bot\b|crawler|spider|scraper|curl/|wget/|python-requests|python-urllib|aiohttp|httpx|go-http-client|java/|okhttp|libwww-perl|scrapy|headlesschrome|phantomjs|selenium|puppeteer|playwright)`)

	attackPatterns = regexp.MustCompile(`(?i)(\.\./|\.\.\\|/etc/passwd|<script|javascript:|\bunion\b.+\bselect\b|\bor\b\s+'?1'?\s*=\s*'?1|;\s*drop\s+table|--\s*$|\bsleep\s*\(|benchmark\s*\()`)
)

// IsBot reports whether the User-Agent belongs to an automated client
// that is not on the allow list. An empty User-Agent is not treated as a bot.
func IsBot(userAgent string) bool {
	if userAgent == "" || allowedBots.MatchString(userAgent) {
		return false
	}
	return automatedClients.MatchString(userAgent)
}

// IsAttack reports whether the path or query carries an injection or
// traversal payload. Both the raw and the decoded forms are checked.
func IsAttack(path, rawQuery string) bool {
	for _, candidate := range []string{path, rawQuery} {
		if candidate == "" {
			continue
		}
		if attackPatterns.MatchString(candidate) {
			return true
		}
		if decoded, err := url.QueryUnescape(candidate); err == nil && decoded != candidate {
			if attackPatterns.MatchString(strings.TrimSpace(decoded)) {
				return true
			}
		}
	}
	return false
}
