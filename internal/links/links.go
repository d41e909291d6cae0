package links

import (
	"fmt"
	"net/url"
	"strings"
)

// Platform names a social network a profile link may point to.
type Platform string

const (
	PlatformTelegram  Platform = "telegram"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformVK        Platform = "vk"
	PlatformInstagram Platform = "instagram"
)

// allowedHosts is the fixed allow-list of acceptable hosts per platform.
var allowedHosts = map[Platform][]string{
	PlatformTelegram:  {"t.me", "telegram.me"},
	PlatformLinkedIn:  {"linkedin.com", "www.linkedin.com"},
	PlatformVK:        {"vk.com", "vkontakte.ru", "www.vk.com"},
	PlatformInstagram: {"instagram.com", "www.instagram.com"},
}

// ValidationError reports a link that does not belong to the allow-listed
// hosts of its platform. Its message is safe to show to the client.
type ValidationError struct {
	Platform Platform
	Value    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s link: %q", e.Platform, e.Value)
}

// Validate normalizes a raw profile link for the given platform. Empty or
// whitespace-only input means "no link" and yields an empty string, not an
// error. Input without a scheme gets https:// prepended before parsing.
// Telegram additionally accepts bare usernames (@alice, alice, t.me/alice)
// and rebuilds them as https://t.me/alice.
func Validate(platform Platform, raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", nil
	}

	normalized := trimmed
	if !strings.HasPrefix(normalized, "http://") && !strings.HasPrefix(normalized, "https://") {
		normalized = "https://" + normalized
	}

	hosts, ok := allowedHosts[platform]
	if !ok {
		return "", &ValidationError{Platform: platform, Value: raw}
	}

	parsed, err := url.Parse(normalized)
	if err == nil {
		host := strings.ToLower(parsed.Hostname())
		for _, allowed := range hosts {
			if host == allowed {
				return normalized, nil
			}
		}
	}

	if platform == PlatformTelegram && looksLikeTelegramUsername(trimmed) {
		return formatTelegramLink(trimmed), nil
	}

	return "", &ValidationError{Platform: platform, Value: raw}
}

// ValidateAll validates a batch of links. The batch is all-or-nothing: the
// first failing platform aborts the whole call and nothing is returned.
func ValidateAll(raw map[Platform]string) (map[Platform]string, error) {
	validated := make(map[Platform]string, len(raw))
	for platform, value := range raw {
		normalized, err := Validate(platform, value)
		if err != nil {
			return nil, err
		}
		validated[platform] = normalized
	}
	return validated, nil
}

func looksLikeTelegramUsername(raw string) bool {
	return strings.HasPrefix(raw, "@") || !strings.Contains(raw, ".") || strings.Contains(raw, "t.me/")
}

func formatTelegramLink(raw string) string {
	username := strings.TrimSpace(raw)
	username = strings.TrimPrefix(username, "@")
	if idx := strings.Index(username, "t.me/"); idx >= 0 {
		username = username[idx+len("t.me/"):]
	}
	if idx := strings.Index(username, "telegram.me/"); idx >= 0 {
		username = username[idx+len("telegram.me/"):]
	}
	username = strings.ReplaceAll(username, "/", "")
	return "https://t.me/" + username
}
