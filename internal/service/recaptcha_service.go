package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultRecaptchaVerifyURL is Google's siteverify endpoint
const DefaultRecaptchaVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

// RecaptchaConfig configures the reCAPTCHA verifier
type RecaptchaConfig struct {
	SecretKey string
	VerifyURL string
	Timeout   time.Duration
}

// RecaptchaService handles reCAPTCHA verification
type RecaptchaService struct {
	secretKey string
	verifyURL string
	client    *http.Client
}

// NewRecaptchaService creates a new reCAPTCHA service
func NewRecaptchaService(cfg RecaptchaConfig) *RecaptchaService {
	verifyURL := cfg.VerifyURL
	if verifyURL == "" {
		verifyURL = DefaultRecaptchaVerifyURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RecaptchaService{
		secretKey: cfg.SecretKey,
		verifyURL: verifyURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// recaptchaResponse represents the response from Google's reCAPTCHA API
type recaptchaResponse struct {
	Success     bool     `json:"success"`
	Score       *float64 `json:"score,omitempty"`
	Action      string   `json:"action"`
	ChallengeTS string   `json:"challenge_ts"`
	Hostname    string   `json:"hostname"`
	ErrorCodes  []string `json:"error-codes,omitempty"`
}

// VerifyToken verifies a reCAPTCHA token. Rejections wrap ErrRecaptchaRejected;
// transport failures are returned as is.
func (s *RecaptchaService) VerifyToken(ctx context.Context, token string, minScore float64) error {
	if s.secretKey == "" {
		return ErrRecaptchaNotConfigured
	}
	if token == "" {
		return ErrRecaptchaTokenMissing
	}

	data := url.Values{}
	data.Set("secret", s.secretKey)
	data.Set("response", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.verifyURL, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create reCAPTCHA request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to verify reCAPTCHA: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("reCAPTCHA API returned status %d", resp.StatusCode)
	}

	var result recaptchaResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to parse reCAPTCHA response: %w", err)
	}

	if !result.Success {
		return fmt.Errorf("%w: %v", ErrRecaptchaRejected, result.ErrorCodes)
	}

	// v2 responses carry no score
	if result.Score != nil && *result.Score < minScore {
		return fmt.Errorf("%w: score too low: %.2f < %.2f", ErrRecaptchaRejected, *result.Score, minScore)
	}

	return nil
}
