package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"inkwell/internal/config"
)

// HTTPProvider talks to a real render service. Authentication uses
// short-lived client-credential tokens held in a TokenCache.
type HTTPProvider struct {
	cfg    config.ProviderConfig
	client *http.Client
	tokens *TokenCache
	now    func() time.Time
}

func NewHTTPProvider(cfg config.ProviderConfig) *HTTPProvider {
	return &HTTPProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
		tokens: NewTokenCache(),
		now:    time.Now,
	}
}

func (p *HTTPProvider) Name() string {
	return p.cfg.Name
}

func (p *HTTPProvider) StartRender(ctx context.Context, req StartRequest) (string, error) {
	token, err := p.token(ctx)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal render request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/v1/renders", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		// Token revoked upstream; drop it so the next call re-authenticates.
		p.tokens.Invalidate()
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("render request rejected: %d %s", resp.StatusCode, string(msg))
	}

	var payload struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode render response: %w", err)
	}
	if payload.ID == "" {
		return "", fmt.Errorf("render response missing correlation id")
	}

	return payload.ID, nil
}

func (p *HTTPProvider) token(ctx context.Context) (string, error) {
	if cached, ok := p.tokens.Get(p.now()); ok {
		return cached, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", p.cfg.ClientID)
	form.Set("client_secret", p.cfg.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.TokenURL, bytes.NewBufferString(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token request failed: %d", resp.StatusCode)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("token response missing access_token")
	}

	p.tokens.Set(payload.AccessToken, p.now().Add(time.Duration(payload.ExpiresIn)*time.Second))
	return payload.AccessToken, nil
}
