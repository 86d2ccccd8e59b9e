package bot

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"lambdaf-dashboard/internal/service"
	"lambdaf-dashboard/internal/view"

	tele "gopkg.in/telebot.v3"
)

const commandTimeout = 15 * time.Second

type LambdaReader interface {
	Snapshot(ctx context.Context) service.Snapshot
	Refresh(ctx context.Context) error
}

var newBot = tele.NewBot

// StartTelegramBot serves pull-only λF commands. It returns nil without
// starting anything when token is empty or the bot cannot be created.
func StartTelegramBot(token string, reader LambdaReader) *tele.Bot {
	if strings.TrimSpace(token) == "" {
		log.Println("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return nil
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := newBot(pref)
	if err != nil {
		log.Printf("failed to create Telegram bot: %v", err)
		return nil
	}

	registerCommands(b, reader)

	log.Println("Telegram bot started")
	go b.Start()
	return b
}

func registerCommands(b *tele.Bot, reader LambdaReader) {
	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	b.Handle("/start", func(c tele.Context) error {
		return c.Send(helpText())
	})
	b.Handle("/help", func(c tele.Context) error {
		return c.Send(helpText())
	})

	b.Handle("/lambda", func(c tele.Context) error {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		return c.Send(lambdaReply(ctx, reader))
	})

	b.Handle("/refresh", func(c tele.Context) error {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		return c.Send(refreshReply(ctx, reader))
	})
}

func helpText() string {
	return view.Icon + " " + view.Title + "\n" +
		"/lambda - current λF reading\n" +
		"/refresh - clear the cache and fetch fresh data\n" +
		"/ping - health check"
}

func lambdaReply(ctx context.Context, reader LambdaReader) string {
	return view.Summary(view.Build(reader.Snapshot(ctx)))
}

func refreshReply(ctx context.Context, reader LambdaReader) string {
	if err := reader.Refresh(ctx); err != nil {
		return fmt.Sprintf("Error refreshing λF data: %v", err)
	}
	return "Cache cleared.\n\n" + lambdaReply(ctx, reader)
}
