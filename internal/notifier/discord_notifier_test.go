package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleister1102/futwatch/internal/config"
	"github.com/aleister1102/futwatch/internal/models"
)

type webhookRecorder struct {
	mu       sync.Mutex
	payloads []models.DiscordMessagePayload
}

func (wr *webhookRecorder) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload models.DiscordMessagePayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		wr.mu.Lock()
		wr.payloads = append(wr.payloads, payload)
		wr.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}
}

func (wr *webhookRecorder) all() []models.DiscordMessagePayload {
	wr.mu.Lock()
	defer wr.mu.Unlock()
	return append([]models.DiscordMessagePayload(nil), wr.payloads...)
}

func liveEvent() models.ChangeEvent {
	return models.ChangeEvent{
		Timestamp: time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC),
		Target:    "remoteconfig",
		Kind:      models.EventChange,
		Topic:     models.TopicFlags,
		Severity:  models.SeverityLive,
		Headline:  "Flags: enable flip detected",
		Lines:     []string{"flags.isEnabled: false -> true"},
		Summary:   "**Flags update**\n- flags.isEnabled: false -> true",
	}
}

func TestNotify_SendsEmbed(t *testing.T) {
	recorder := &webhookRecorder{}
	server := httptest.NewServer(recorder.handler())
	defer server.Close()

	dn := NewDiscordNotifier(config.NotificationConfig{
		DiscordWebhookURL: server.URL,
		MentionRoleID:     "1234",
	}, zerolog.Nop())

	require.NoError(t, dn.Notify(context.Background(), liveEvent()))

	payloads := recorder.all()
	require.Len(t, payloads, 1)

	payload := payloads[0]
	require.Len(t, payload.Embeds, 1)
	embed := payload.Embeds[0]
	assert.Equal(t, "Flags: enable flip detected", embed.Title)
	assert.Equal(t, colorLive, embed.Color)
	assert.Contains(t, embed.Description, "isEnabled: false -> true")
	assert.Equal(t, "<@&1234>", payload.Content)

	var fieldNames []string
	for _, field := range embed.Fields {
		fieldNames = append(fieldNames, field.Name)
	}
	assert.ElementsMatch(t, []string{"Target", "Topic", "Severity"}, fieldNames)
}

func TestNotify_NoMentionBelowLive(t *testing.T) {
	recorder := &webhookRecorder{}
	server := httptest.NewServer(recorder.handler())
	defer server.Close()

	dn := NewDiscordNotifier(config.NotificationConfig{
		DiscordWebhookURL: server.URL,
		MentionRoleID:     "1234",
	}, zerolog.Nop())

	event := liveEvent()
	event.Severity = models.SeverityEdit
	require.NoError(t, dn.Notify(context.Background(), event))

	payloads := recorder.all()
	require.Len(t, payloads, 1)
	assert.Empty(t, payloads[0].Content)
	assert.Equal(t, colorEdit, payloads[0].Embeds[0].Color)
}

func TestNotify_DisabledWithoutWebhook(t *testing.T) {
	dn := NewDiscordNotifier(config.NotificationConfig{}, zerolog.Nop())
	assert.NoError(t, dn.Notify(context.Background(), liveEvent()))
}

func TestNotify_SkipsBaselineByDefault(t *testing.T) {
	recorder := &webhookRecorder{}
	server := httptest.NewServer(recorder.handler())
	defer server.Close()

	event := liveEvent()
	event.Kind = models.EventBaseline
	event.Severity = models.SeverityBaseline

	dn := NewDiscordNotifier(config.NotificationConfig{DiscordWebhookURL: server.URL}, zerolog.Nop())
	require.NoError(t, dn.Notify(context.Background(), event))
	assert.Empty(t, recorder.all())

	optIn := NewDiscordNotifier(config.NotificationConfig{
		DiscordWebhookURL: server.URL,
		NotifyOnBaseline:  true,
	}, zerolog.Nop())
	require.NoError(t, optIn.Notify(context.Background(), event))
	assert.Len(t, recorder.all(), 1)
}

func TestNotify_WebhookFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	dn := NewDiscordNotifier(config.NotificationConfig{DiscordWebhookURL: server.URL}, zerolog.Nop())
	assert.Error(t, dn.Notify(context.Background(), liveEvent()))
}

func TestNotify_FallsBackToLinesWithoutSummary(t *testing.T) {
	recorder := &webhookRecorder{}
	server := httptest.NewServer(recorder.handler())
	defer server.Close()

	event := liveEvent()
	event.Summary = ""

	dn := NewDiscordNotifier(config.NotificationConfig{DiscordWebhookURL: server.URL}, zerolog.Nop())
	require.NoError(t, dn.Notify(context.Background(), event))

	payloads := recorder.all()
	require.Len(t, payloads, 1)
	assert.Equal(t, "flags.isEnabled: false -> true", payloads[0].Embeds[0].Description)
}
