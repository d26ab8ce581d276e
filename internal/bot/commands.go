package bot

import (
	"context"
	"fmt"
	"html"
	"strings"

	tele "gopkg.in/telebot.v3"

	"flood-watch/internal/logger"
)

func (b *Bot) handleStart(c tele.Context) error {
	logger.Infof(context.Background(), "bot: /start from user %d (@%s)", c.Sender().ID, c.Sender().Username)
	return c.Send(msgStart, htmlOpts)
}

func (b *Bot) handleHelp(c tele.Context) error {
	return c.Send(msgHelp, htmlOpts)
}

func (b *Bot) handleDistricts(c tele.Context) error {
	return c.Send(b.districtsText(), htmlOpts)
}

func (b *Bot) handleLocalities(c tele.Context) error {
	return c.Send(b.localitiesText(c.Message().Payload), htmlOpts)
}

func (b *Bot) handleBroadcasts(c tele.Context) error {
	text, err := b.broadcastsText(context.Background())
	if err != nil {
		logger.Errorf(context.Background(), "bot: list broadcasts: %v", err)
		return c.Send(msgError)
	}
	return c.Send(text, htmlOpts)
}

// ── Renderers ────────────────────────────────────────────────────────

func (b *Bot) districtsText() string {
	names := b.regions.RegionNames()
	var sb strings.Builder
	fmt.Fprintf(&sb, msgDistrictsHeader, len(names))
	sb.WriteString(html.EscapeString(strings.Join(names, ", ")))
	return sb.String()
}

func (b *Bot) localitiesText(district string) string {
	district = strings.TrimSpace(district)
	if district == "" {
		return msgLocalitiesHelp
	}
	localities := b.regions.LocalitiesOf(district)
	if len(localities) == 0 {
		return fmt.Sprintf(msgUnknownRegion, html.EscapeString(district))
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, msgLocalitiesHeader, html.EscapeString(district))
	for _, l := range localities {
		sb.WriteString("• " + html.EscapeString(l) + "\n")
	}
	return sb.String()
}

func (b *Bot) broadcastsText(ctx context.Context) (string, error) {
	if b.log == nil {
		return msgNoBroadcasts, nil
	}
	list, err := b.log.ListBroadcasts(ctx, 10)
	if err != nil {
		return "", err
	}
	if len(list) == 0 {
		return msgNoBroadcasts, nil
	}
	var sb strings.Builder
	for _, br := range list {
		fmt.Fprintf(&sb, msgBroadcastLine,
			br.SentAt.Format("02 Jan 15:04"),
			html.EscapeString(districtLabel(br.District)),
			html.EscapeString(br.Message))
	}
	return sb.String(), nil
}
