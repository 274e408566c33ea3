package shell

import (
	"net/url"
	"strings"
)

// AppConfig describes the native container.
type AppConfig struct {
	AppID     string `yaml:"appId" json:"appId"`
	AppName   string `yaml:"appName" json:"appName"`
	RemoteURL string `yaml:"remoteUrl" json:"remoteUrl"`
	SiteURL   string `yaml:"siteUrl" json:"siteUrl"`
}

// DefaultAppConfig returns the production container settings.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		AppID:     "app.lovable.37714475ac6f4fec9ee6d56ab14dccf4",
		AppName:   "Wine Locals",
		RemoteURL: "https://37714475-ac6f-4fec-9ee6-d56ab14dccf4.lovableproject.com?forceHideBadge=true",
		SiteURL:   "https://wine-locals.com",
	}
}

const experienceBase = "https://www.wine-locals.com/passeios/"

// ExperienceURL returns the public page of an experience. An empty slug
// yields an empty URL.
func ExperienceURL(slug string) string {
	slug = strings.Trim(strings.TrimSpace(slug), "/")
	if slug == "" {
		return ""
	}
	return experienceBase + url.PathEscape(slug)
}
