package services

import (
	appconfig "contactdeck/internal/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// NewGoogleOauthConfig builds the OAuth2 config for Google sign-in from
// application configuration.
func NewGoogleOauthConfig(cfg appconfig.GoogleConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}
