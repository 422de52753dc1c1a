package main

import (
	"context"
	"time"

	"educenter/internal/config"
	"educenter/internal/database"
	"educenter/internal/logger"
	"educenter/internal/modules/billing"
	"educenter/internal/notify"
	"educenter/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("db connect failed", "error", err)
	}

	var reminders billing.ReminderSender = notify.LogSender{}
	if cfg.Twilio.Enabled() {
		reminders = notify.NewSMSSender(cfg.Twilio)
	}
	svc := billing.NewService(repository.NewInvoiceRepository(db), reminders, cfg.Location())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	ctx = logger.ContextWithRequestID(ctx, "sweep-"+logger.NewRequestID())

	res, err := svc.MarkOverdue(ctx)
	if err != nil {
		logger.Fatal("overdue sweep failed", "error", err)
	}
	if res.Failed > 0 {
		logger.Fatal("overdue sweep finished with failures", "failed", res.Failed)
	}
}
