// Package notify delivers review reminders over Telegram.
package notify

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/kapp/internal/logger"
)

// Telegram sends reminder messages to a single configured chat
type Telegram struct {
	api    *tgbotapi.BotAPI
	chatID int64
	log    *logger.Logger
}

// NewTelegram authorizes against the Bot API with the given token
func NewTelegram(token string, chatID int64, log *logger.Logger) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("unable to create bot: %v", err)
	}
	t := &Telegram{
		api:    api,
		chatID: chatID,
		log:    log.With("component", "notify"),
	}
	t.log.Info("telegram notifier authorized", "account", api.Self.UserName)
	return t, nil
}

// SendDueReminder tells the learner how many items are waiting
func (t *Telegram) SendDueReminder(vocabularyDue, exercisesDue int) error {
	parts := make([]string, 0, 2)
	if vocabularyDue > 0 {
		parts = append(parts, fmt.Sprintf("%d vocabulary %s", vocabularyDue, plural(vocabularyDue, "word", "words")))
	}
	if exercisesDue > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", exercisesDue, plural(exercisesDue, "exercise", "exercises")))
	}
	if len(parts) == 0 {
		return nil
	}

	text := fmt.Sprintf("복습 시간! You have %s due for review.", strings.Join(parts, " and "))
	msg := tgbotapi.NewMessage(t.chatID, text)
	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send reminder: %v", err)
	}
	return nil
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}
