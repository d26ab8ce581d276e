package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"sort"

	tele "gopkg.in/telebot.v3"

	"flood-watch/internal/gazetteer"
	"flood-watch/internal/logger"
	"flood-watch/internal/models"
)

// AllDistrictsChannel is the channel key that receives every broadcast.
const AllDistrictsChannel = "*"

type sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Delivery is the outcome of one broadcast.
type Delivery struct {
	Sent   []int64
	Failed map[int64]error
}

// TelegramDeliverer posts broadcasts to the channels subscribed to their district.
type TelegramDeliverer struct {
	bot      sender
	channels map[string]int64
}

func NewDeliverer(b *tele.Bot, channels map[string]int64) *TelegramDeliverer {
	return &TelegramDeliverer{bot: b, channels: channels}
}

// Targets returns the chat IDs a broadcast for district goes to, deduplicated and sorted.
func (d *TelegramDeliverer) Targets(district string) []int64 {
	seen := map[int64]struct{}{}
	add := func(id int64) {
		if id != 0 {
			seen[id] = struct{}{}
		}
	}

	if gazetteer.IsAll(district) {
		for _, id := range d.channels {
			add(id)
		}
	} else {
		add(d.channels[district])
		add(d.channels[AllDistrictsChannel])
	}

	out := make([]int64, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Deliver sends b to every target channel. It returns an error only when no
// channel received the message.
func (d *TelegramDeliverer) Deliver(ctx context.Context, b models.Broadcast) (Delivery, error) {
	res := Delivery{Failed: map[int64]error{}}
	targets := d.Targets(b.District)
	if len(targets) == 0 {
		logger.Warnf(ctx, "bot: no channel subscribed to %q, broadcast %s dropped", b.District, b.ID)
		return res, nil
	}

	text := formatBroadcast(b)
	for _, id := range targets {
		if _, err := d.bot.Send(&tele.Chat{ID: id}, text, htmlOpts); err != nil {
			if isChannelError(err) {
				logger.Errorf(ctx, "bot: channel access lost for %d: %v", id, err)
			} else {
				logger.Warnf(ctx, "bot: failed to send broadcast %s to %d: %v", b.ID, id, err)
			}
			res.Failed[id] = err
			continue
		}
		res.Sent = append(res.Sent, id)
	}

	if len(res.Sent) == 0 {
		return res, fmt.Errorf("broadcast %s: delivery failed on all %d channels", b.ID, len(targets))
	}
	return res, nil
}

func formatBroadcast(b models.Broadcast) string {
	return fmt.Sprintf(msgBroadcast,
		html.EscapeString(districtLabel(b.District)),
		html.EscapeString(b.Message),
		b.SentAt.Format("02 Jan 2006 15:04 MST"))
}

func districtLabel(district string) string {
	if gazetteer.IsAll(district) {
		return msgAllDistrictsLabel
	}
	return district
}

// ── Channel error helpers ─────────────────────────────────────────────

// isChannelError reports whether a Telegram API error means the bot lost access to a channel.
func isChannelError(err error) bool {
	return errors.Is(err, tele.ErrChatNotFound) ||
		errors.Is(err, tele.ErrKickedFromGroup) ||
		errors.Is(err, tele.ErrKickedFromSuperGroup) ||
		errors.Is(err, tele.ErrKickedFromChannel) ||
		errors.Is(err, tele.ErrNotChannelMember) ||
		errors.Is(err, tele.ErrNoRightsToSend)
}
