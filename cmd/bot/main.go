package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"flood-watch/internal/bot"
	"flood-watch/internal/config"
	"flood-watch/internal/database"
	"flood-watch/internal/gazetteer"
	"flood-watch/internal/logger"
	"flood-watch/internal/mq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := logger.Init(cfg.LogLevel, cfg.Development); err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.BotToken == "" {
		logger.Fatalf(ctx, "BOT_TOKEN is required. Get one from @BotFather on Telegram.")
	}
	if len(cfg.BroadcastChannels) == 0 {
		logger.Warnf(ctx, "BROADCAST_CHANNELS is empty, broadcasts will be dropped")
	}

	regions := gazetteer.TamilNadu()

	// --- Database ---
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf(ctx, "database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		logger.Fatalf(ctx, "migrate: %v", err)
	}
	logger.Infof(ctx, "database connected and migrated")

	// --- RabbitMQ ---
	mqConsumer, err := mq.NewConsumer(ctx, cfg.RabbitMQURL)
	if err != nil {
		logger.Fatalf(ctx, "rabbitmq consumer: %v", err)
	}
	defer mqConsumer.Close()
	logger.Infof(ctx, "rabbitmq connected")

	// --- Telegram Bot ---
	tgBot, err := bot.New(cfg.BotToken, regions, db)
	if err != nil {
		logger.Fatalf(ctx, "bot: %v", err)
	}

	go tgBot.Start()
	defer tgBot.Stop()
	logger.Infof(ctx, "telegram bot started")

	// --- Start RabbitMQ listener ---
	tgDeliverer := bot.NewDeliverer(tgBot.TeleBot(), cfg.BroadcastChannels)
	if err := newListener(mqConsumer, tgDeliverer).start(ctx); err != nil {
		logger.Errorf(ctx, "listener: %v", err)
	}
	logger.Infof(ctx, "shutting down bot service...")
}
