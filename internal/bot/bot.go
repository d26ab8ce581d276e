package bot

import (
	"context"
	"fmt"
	"time"

	tele "gopkg.in/telebot.v3"

	"flood-watch/internal/gazetteer"
	"flood-watch/internal/logger"
	"flood-watch/internal/models"
)

// BroadcastLog lists recorded broadcasts. *database.DB implements it.
type BroadcastLog interface {
	ListBroadcasts(ctx context.Context, limit int) ([]models.Broadcast, error)
}

// Bot wraps the Telegram bot and its read-only commands.
type Bot struct {
	bot     *tele.Bot
	regions *gazetteer.Gazetteer
	log     BroadcastLog
}

var htmlOpts = &tele.SendOptions{ParseMode: tele.ModeHTML}

// New creates and configures the Telegram bot. log may be nil.
func New(token string, regions *gazetteer.Gazetteer, log BroadcastLog) (*Bot, error) {
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	bot := &Bot{bot: b, regions: regions, log: log}
	bot.registerHandlers()

	if err := b.SetCommands([]tele.Command{
		{Text: "districts", Description: "Districts covered"},
		{Text: "localities", Description: "Localities of a district"},
		{Text: "broadcasts", Description: "Recent broadcasts"},
		{Text: "help", Description: "How it works"},
	}); err != nil {
		logger.Warnf(context.Background(), "bot: failed to set commands: %v", err)
	}

	return bot, nil
}

// Start begins polling for Telegram updates. Call as a goroutine.
func (b *Bot) Start() {
	logger.Infof(context.Background(), "bot: starting Telegram bot polling...")
	b.bot.Start()
}

// Stop gracefully stops the bot.
func (b *Bot) Stop() {
	b.bot.Stop()
}

// TeleBot returns the underlying telebot instance (used by the deliverer).
func (b *Bot) TeleBot() *tele.Bot {
	return b.bot
}

func (b *Bot) registerHandlers() {
	b.bot.Handle("/start", b.handleStart)
	b.bot.Handle("/help", b.handleHelp)
	b.bot.Handle("/districts", b.handleDistricts)
	b.bot.Handle("/localities", b.handleLocalities)
	b.bot.Handle("/broadcasts", b.handleBroadcasts)
}
