package bot

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"lambdaf-dashboard/internal/domain"
	"lambdaf-dashboard/internal/lambdaf"
	"lambdaf-dashboard/internal/service"

	tele "gopkg.in/telebot.v3"
)

type readerStub struct {
	snap       service.Snapshot
	refreshErr error
	refreshed  int
}

func (r *readerStub) Snapshot(context.Context) service.Snapshot { return r.snap }

func (r *readerStub) Refresh(context.Context) error {
	r.refreshed++
	return r.refreshErr
}

func critical() service.Snapshot {
	return service.Snapshot{
		Evaluation: lambdaf.Evaluate([]domain.RawRecord{
			{Timestamp: "2026-02-12T10:05:00Z", LambdaF: 0.65},
			{Timestamp: "2026-02-13T10:05:00Z", LambdaF: 0.81},
		}, domain.VariantBreakdown),
		GeneratedAt: time.Date(2026, 2, 13, 11, 0, 0, 0, time.UTC),
	}
}

func TestStartTelegramBotSkipsWithoutToken(t *testing.T) {
	if b := StartTelegramBot("", &readerStub{}); b != nil {
		t.Fatal("expected no bot without a token")
	}
}

func TestStartTelegramBotCreateError(t *testing.T) {
	orig := newBot
	t.Cleanup(func() { newBot = orig })
	newBot = func(tele.Settings) (*tele.Bot, error) {
		return nil, errors.New("unauthorized")
	}

	if b := StartTelegramBot("token", &readerStub{}); b != nil {
		t.Fatal("expected nil bot on create error")
	}
}

func TestLambdaReply(t *testing.T) {
	got := lambdaReply(context.Background(), &readerStub{snap: critical()})
	for _, want := range []string{"Current λF Score: 0.810", "0.160 vs. previous day", "Status: Critical 🚨"} {
		if !strings.Contains(got, want) {
			t.Fatalf("reply missing %q:\n%s", want, got)
		}
	}
}

func TestLambdaReplyNoData(t *testing.T) {
	snap := service.Snapshot{Evaluation: lambdaf.Evaluate(nil, domain.VariantBreakdown)}
	got := lambdaReply(context.Background(), &readerStub{snap: snap})
	if !strings.Contains(got, "No historical data available") {
		t.Fatalf("expected empty-state copy, got:\n%s", got)
	}
}

func TestRefreshReply(t *testing.T) {
	reader := &readerStub{snap: critical()}
	got := refreshReply(context.Background(), reader)
	if reader.refreshed != 1 {
		t.Fatalf("expected one refresh, got %d", reader.refreshed)
	}
	if !strings.HasPrefix(got, "Cache cleared.") {
		t.Fatalf("unexpected reply:\n%s", got)
	}

	reader = &readerStub{refreshErr: errors.New("redis down")}
	got = refreshReply(context.Background(), reader)
	if !strings.Contains(got, "redis down") {
		t.Fatalf("expected error in reply, got:\n%s", got)
	}
}

func TestHelpTextListsCommands(t *testing.T) {
	got := helpText()
	for _, cmd := range []string{"/lambda", "/refresh"} {
		if !strings.Contains(got, cmd) {
			t.Fatalf("help text missing %s", cmd)
		}
	}
}
