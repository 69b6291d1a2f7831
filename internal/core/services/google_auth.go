package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"

	"github.com/netbridge-bank/nb_backend/internal/dto"
	"github.com/netbridge-bank/nb_backend/pkg/config"
)

// googleVerifier validates Google sign-in material and extracts the verified
// email address. Supports both the One Tap ID token and the redirect-flow
// authorization code.
type googleVerifier struct {
	cfg          *config.Config
	oauth2Config *oauth2.Config
}

func newGoogleVerifier(cfg *config.Config) *googleVerifier {
	return &googleVerifier{
		cfg: cfg,
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

// VerifiedEmail returns the email claim of a validated sign-in.
func (g *googleVerifier) VerifiedEmail(ctx context.Context, req dto.GoogleSignInRequest) (string, error) {
	if g.cfg.GoogleClientID == "" {
		return "", errors.New("google client ID is not configured")
	}

	idTokenString := req.IDToken
	if idTokenString == "" {
		if req.Code == "" {
			return "", errors.New("neither id token nor authorization code provided")
		}
		token, err := g.oauth2Config.Exchange(ctx, req.Code)
		if err != nil {
			return "", fmt.Errorf("failed to exchange oauth code for token: %w", err)
		}
		raw, ok := token.Extra("id_token").(string)
		if !ok || raw == "" {
			return "", errors.New("token response carried no id token")
		}
		idTokenString = raw
	}

	payload, err := idtoken.Validate(ctx, idTokenString, g.cfg.GoogleClientID)
	if err != nil {
		return "", fmt.Errorf("google ID token validation failed: %w", err)
	}

	email, ok := payload.Claims["email"].(string)
	if !ok || email == "" {
		return "", errors.New("id token carried no email claim")
	}
	if verified, ok := payload.Claims["email_verified"].(bool); ok && !verified {
		return "", errors.New("google account email is not verified")
	}
	return email, nil
}
