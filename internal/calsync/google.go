package calsync

import (
	"context"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/coachly/call-scheduler/internal/models"
)

type GoogleProvider struct {
	oauth *oauth2.Config
	store CredentialStore
}

func NewGoogleProvider(clientID, clientSecret string, store CredentialStore) *GoogleProvider {
	return &GoogleProvider{
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Scopes:       []string{calendar.CalendarEventsScope},
			Endpoint:     google.Endpoint,
		},
		store: store,
	}
}

func (p *GoogleProvider) Name() string {
	return models.CalendarProviderGoogle
}

func (p *GoogleProvider) service(ctx context.Context, cred *models.IntegrationCredential) (*calendar.Service, error) {
	ts := tokenSource(ctx, p.oauth, cred, p.store)
	return calendar.NewService(ctx, option.WithTokenSource(ts))
}

func (p *GoogleProvider) Push(
	ctx context.Context,
	ev *models.SchedulableEvent,
	cred *models.IntegrationCredential,
	externalID string,
) (string, error) {

	srv, err := p.service(ctx, cred)
	if err != nil {
		return "", err
	}

	item := &calendar.Event{
		Summary:     ev.Title,
		Description: "Agendado via Coachly",
		Start: &calendar.EventDateTime{
			DateTime: ev.StartDateTime.UTC().Format(time.RFC3339),
			TimeZone: "UTC",
		},
		End: &calendar.EventDateTime{
			DateTime: ev.EndDateTime.UTC().Format(time.RFC3339),
			TimeZone: "UTC",
		},
	}

	calendarID := cred.CalendarID
	if calendarID == "" {
		calendarID = "primary"
	}

	if externalID != "" {
		updated, err := srv.Events.Update(calendarID, externalID, item).Context(ctx).Do()
		if err != nil {
			return "", err
		}
		return updated.Id, nil
	}

	created, err := srv.Events.Insert(calendarID, item).Context(ctx).Do()
	if err != nil {
		return "", err
	}
	return created.Id, nil
}

func (p *GoogleProvider) Retract(
	ctx context.Context,
	ev *models.SchedulableEvent,
	cred *models.IntegrationCredential,
	externalID string,
) error {

	srv, err := p.service(ctx, cred)
	if err != nil {
		return err
	}

	calendarID := cred.CalendarID
	if calendarID == "" {
		calendarID = "primary"
	}

	return srv.Events.Delete(calendarID, externalID).Context(ctx).Do()
}

var _ Provider = (*GoogleProvider)(nil)
