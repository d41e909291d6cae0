package links

import (
	"errors"
	"testing"
)

func TestValidateAllowedHosts(t *testing.T) {
	cases := []struct {
		name     string
		platform Platform
		raw      string
		want     string
	}{
		{"telegram t.me", PlatformTelegram, "https://t.me/alice", "https://t.me/alice"},
		{"telegram telegram.me", PlatformTelegram, "https://telegram.me/alice", "https://telegram.me/alice"},
		{"linkedin", PlatformLinkedIn, "https://linkedin.com/in/alice", "https://linkedin.com/in/alice"},
		{"linkedin www", PlatformLinkedIn, "https://www.linkedin.com/in/alice", "https://www.linkedin.com/in/alice"},
		{"vk", PlatformVK, "https://vk.com/alice", "https://vk.com/alice"},
		{"vk legacy", PlatformVK, "https://vkontakte.ru/alice", "https://vkontakte.ru/alice"},
		{"vk www", PlatformVK, "https://www.vk.com/alice", "https://www.vk.com/alice"},
		{"instagram", PlatformInstagram, "https://instagram.com/alice", "https://instagram.com/alice"},
		{"instagram www", PlatformInstagram, "https://www.instagram.com/alice", "https://www.instagram.com/alice"},
		{"scheme added", PlatformInstagram, "instagram.com/alice", "https://instagram.com/alice"},
		{"host case insensitive", PlatformVK, "https://VK.com/alice", "https://VK.com/alice"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Validate(tc.platform, tc.raw)
			if err != nil {
				t.Fatalf("Validate(%s, %q) error: %v", tc.platform, tc.raw, err)
			}
			if got != tc.want {
				t.Fatalf("Validate(%s, %q) = %q, want %q", tc.platform, tc.raw, got, tc.want)
			}
		})
	}
}

func TestValidateEmptyInput(t *testing.T) {
	for _, platform := range []Platform{PlatformTelegram, PlatformLinkedIn, PlatformVK, PlatformInstagram} {
		for _, raw := range []string{"", "   ", "\t"} {
			got, err := Validate(platform, raw)
			if err != nil {
				t.Fatalf("Validate(%s, %q) error: %v", platform, raw, err)
			}
			if got != "" {
				t.Fatalf("Validate(%s, %q) = %q, want empty", platform, raw, got)
			}
		}
	}
}

func TestValidateTelegramUsernames(t *testing.T) {
	cases := []string{"@alice", "alice", "https://t.me/alice", "t.me/alice", "telegram.me/alice"}
	for _, raw := range cases {
		got, err := Validate(PlatformTelegram, raw)
		if err != nil {
			t.Fatalf("Validate(telegram, %q) error: %v", raw, err)
		}
		if got != "https://t.me/alice" {
			t.Fatalf("Validate(telegram, %q) = %q, want https://t.me/alice", raw, got)
		}
	}
}

func TestValidateRejectsWrongDomain(t *testing.T) {
	cases := []struct {
		platform Platform
		raw      string
	}{
		{PlatformLinkedIn, "https://evil.example/in/alice"},
		{PlatformVK, "https://instagram.com/alice"},
		{PlatformInstagram, "https://vk.com/alice"},
		{PlatformTelegram, "https://evil.example/alice"},
	}
	for _, tc := range cases {
		_, err := Validate(tc.platform, tc.raw)
		if err == nil {
			t.Fatalf("Validate(%s, %q) expected error", tc.platform, tc.raw)
		}
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("Validate(%s, %q) returned %T, want *ValidationError", tc.platform, tc.raw, err)
		}
		if verr.Platform != tc.platform {
			t.Fatalf("error names platform %s, want %s", verr.Platform, tc.platform)
		}
		if verr.Value != tc.raw {
			t.Fatalf("error names value %q, want %q", verr.Value, tc.raw)
		}
	}
}

func TestValidateAllIsAllOrNothing(t *testing.T) {
	raw := map[Platform]string{
		PlatformTelegram: "@bob",
		PlatformLinkedIn: "not-a-url-on-wrong-domain.example",
	}
	validated, err := ValidateAll(raw)
	if err == nil {
		t.Fatalf("expected batch failure, got %v", validated)
	}
	if validated != nil {
		t.Fatalf("failed batch must not return partial results, got %v", validated)
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if verr.Platform != PlatformLinkedIn {
		t.Fatalf("batch failure names %s, want linkedin", verr.Platform)
	}
}

func TestValidateAllSuccess(t *testing.T) {
	validated, err := ValidateAll(map[Platform]string{
		PlatformTelegram:  "@alice",
		PlatformInstagram: "instagram.com/alice",
		PlatformVK:        "",
	})
	if err != nil {
		t.Fatalf("ValidateAll error: %v", err)
	}
	if validated[PlatformTelegram] != "https://t.me/alice" {
		t.Fatalf("telegram = %q", validated[PlatformTelegram])
	}
	if validated[PlatformInstagram] != "https://instagram.com/alice" {
		t.Fatalf("instagram = %q", validated[PlatformInstagram])
	}
	if validated[PlatformVK] != "" {
		t.Fatalf("vk = %q, want empty", validated[PlatformVK])
	}
}
