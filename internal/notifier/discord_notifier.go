package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aleister1102/futwatch/internal/common"
	"github.com/aleister1102/futwatch/internal/config"
	"github.com/aleister1102/futwatch/internal/models"
)

// Embed colors per severity tier.
const (
	colorLive     = 0xE74C3C // red, something went live
	colorNew      = 0x2ECC71 // green, new content added
	colorEdit     = 0xF1C40F // yellow, existing content edited
	colorBaseline = 0x95A5A6 // grey
	colorError    = 0x992D22 // dark red
)

const (
	webhookUsername       = "futwatch"
	maxEmbedDescription   = 3500
	webhookRequestTimeout = 15 * time.Second
)

// DiscordNotifier delivers change events to a Discord webhook as colored
// embeds. An empty webhook URL makes every Notify call a no-op.
type DiscordNotifier struct {
	cfg    config.NotificationConfig
	client *http.Client
	logger zerolog.Logger
}

// NewDiscordNotifier creates a Discord webhook notifier.
func NewDiscordNotifier(cfg config.NotificationConfig, logger zerolog.Logger) *DiscordNotifier {
	return &DiscordNotifier{
		cfg:    cfg,
		client: &http.Client{Timeout: webhookRequestTimeout},
		logger: logger.With().Str("module", "DiscordNotifier").Logger(),
	}
}

// Notify sends one event to the configured webhook.
func (dn *DiscordNotifier) Notify(ctx context.Context, event models.ChangeEvent) error {
	if dn.cfg.DiscordWebhookURL == "" {
		return nil
	}
	if event.Kind == models.EventBaseline && !dn.cfg.NotifyOnBaseline {
		dn.logger.Debug().Str("target", event.Target).Msg("Skipping baseline notification")
		return nil
	}

	payload := dn.buildPayload(event)
	body, err := json.Marshal(payload)
	if err != nil {
		return common.WrapError(err, "failed to marshal Discord payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, dn.cfg.DiscordWebhookURL, bytes.NewReader(body))
	if err != nil {
		return common.WrapError(err, "failed to create webhook request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := dn.client.Do(req)
	if err != nil {
		return common.WrapError(err, "failed to send Discord notification")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return common.NewError("discord notification failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	dn.logger.Debug().
		Str("target", event.Target).
		Str("severity", string(event.Severity)).
		Msg("Discord notification sent")
	return nil
}

// buildPayload converts an event into a webhook payload. Live events carry a
// role mention in the message content since embeds never ping.
func (dn *DiscordNotifier) buildPayload(event models.ChangeEvent) models.DiscordMessagePayload {
	builder := NewDiscordEmbedBuilder().
		WithTitle(event.Headline).
		WithDescription(dn.describe(event)).
		WithColor(severityColor(event.Severity)).
		WithTimestamp(event.Timestamp).
		WithFooter(webhookUsername).
		WithField("Target", event.Target, true).
		WithField("Topic", string(event.Topic), true).
		WithField("Severity", string(event.Severity), true)

	payload := models.DiscordMessagePayload{
		Username: webhookUsername,
		Embeds:   []models.DiscordEmbed{builder.Build()},
	}
	if event.Severity == models.SeverityLive {
		payload.Content = dn.mention()
	}
	return payload
}

// describe prefers the generated post body, falling back to raw diff lines
func (dn *DiscordNotifier) describe(event models.ChangeEvent) string {
	text := event.Summary
	if text == "" {
		text = strings.Join(event.Lines, "\n")
	}
	if len(text) > maxEmbedDescription {
		text = text[:maxEmbedDescription] + "\n..."
	}
	return text
}

func (dn *DiscordNotifier) mention() string {
	switch id := dn.cfg.MentionRoleID; id {
	case "":
		return ""
	case "@everyone", "@here":
		return id
	default:
		return fmt.Sprintf("<@&%s>", id)
	}
}

func severityColor(severity models.Severity) int {
	switch severity {
	case models.SeverityLive:
		return colorLive
	case models.SeverityNew:
		return colorNew
	case models.SeverityBaseline:
		return colorBaseline
	case models.SeverityError:
		return colorError
	default:
		return colorEdit
	}
}
