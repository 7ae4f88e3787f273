package calsync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"

	"github.com/coachly/call-scheduler/internal/models"
)

const graphBaseURL = "https://graph.microsoft.com/v1.0"

// OutlookProvider fala Microsoft Graph REST diretamente; o client
// HTTP sai do oauth2 com refresh automático do token.
type OutlookProvider struct {
	oauth *oauth2.Config
	store CredentialStore
}

func NewOutlookProvider(clientID, clientSecret string, store CredentialStore) *OutlookProvider {
	return &OutlookProvider{
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Scopes:       []string{"Calendars.ReadWrite", "offline_access"},
			Endpoint:     microsoft.AzureADEndpoint("common"),
		},
		store: store,
	}
}

func (p *OutlookProvider) Name() string {
	return models.CalendarProviderOutlook
}

type graphDateTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

type graphEvent struct {
	ID      string         `json:"id,omitempty"`
	Subject string         `json:"subject"`
	Start   *graphDateTime `json:"start"`
	End     *graphDateTime `json:"end"`
}

func (p *OutlookProvider) Push(
	ctx context.Context,
	ev *models.SchedulableEvent,
	cred *models.IntegrationCredential,
	externalID string,
) (string, error) {

	client := oauth2.NewClient(ctx, tokenSource(ctx, p.oauth, cred, p.store))

	payload := graphEvent{
		Subject: ev.Title,
		Start: &graphDateTime{
			DateTime: ev.StartDateTime.UTC().Format("2006-01-02T15:04:05"),
			TimeZone: "UTC",
		},
		End: &graphDateTime{
			DateTime: ev.EndDateTime.UTC().Format("2006-01-02T15:04:05"),
			TimeZone: "UTC",
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	method := http.MethodPost
	url := graphBaseURL + "/me/events"
	if externalID != "" {
		method = http.MethodPatch
		url = fmt.Sprintf("%s/me/events/%s", graphBaseURL, externalID)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("graph %s %s: status %d: %s", method, url, resp.StatusCode, string(raw))
	}

	var out graphEvent
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return externalID, nil
	}
	return out.ID, nil
}

func (p *OutlookProvider) Retract(
	ctx context.Context,
	ev *models.SchedulableEvent,
	cred *models.IntegrationCredential,
	externalID string,
) error {

	client := oauth2.NewClient(ctx, tokenSource(ctx, p.oauth, cred, p.store))
	client.Timeout = 30 * time.Second

	url := fmt.Sprintf("%s/me/events/%s", graphBaseURL, externalID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// espelho já removido no provedor conta como sucesso
	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("graph DELETE %s: status %d: %s", url, resp.StatusCode, string(raw))
	}
	return nil
}

var _ Provider = (*OutlookProvider)(nil)
