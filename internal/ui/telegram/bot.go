// Package telegram provides the one-by-one approval surface used in
// interactive mode: each proposal is sent with an inline keyboard and the
// operator's choice is routed back to the waiting caller.
package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/epavlenko/openclaw-youtube/internal/core/ports"
)

type UI struct {
	Bot    *tgbotapi.BotAPI
	ChatID int64

	mu      sync.Mutex
	pending map[int]chan ports.UserAction
}

func NewUI(token, chatIDStr string) (*UI, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	chatID, err := strconv.ParseInt(chatIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid telegram chat id: %w", err)
	}

	ui := &UI{
		Bot:     bot,
		ChatID:  chatID,
		pending: make(map[int]chan ports.UserAction),
	}
	go ui.listen()
	return ui, nil
}

var _ ports.Interaction = (*UI)(nil)

func (ui *UI) listen() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := ui.Bot.GetUpdatesChan(u)

	for update := range updates {
		if update.CallbackQuery == nil || update.CallbackQuery.Message == nil {
			continue
		}

		callback := update.CallbackQuery
		action := ports.UserAction(callback.Data)
		msgID := callback.Message.MessageID

		ui.mu.Lock()
		ch, ok := ui.pending[msgID]
		if ok {
			delete(ui.pending, msgID)
		}
		ui.mu.Unlock()
		if !ok {
			continue
		}

		ch <- action

		ui.Bot.Request(tgbotapi.NewCallback(callback.ID, "Got it: "+string(action)))
		// Remove the keyboard so a stale button cannot be pressed twice.
		edit := tgbotapi.NewEditMessageReplyMarkup(ui.ChatID, msgID,
			tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}})
		ui.Bot.Send(edit)
	}
}

// Confirm sends the proposal and blocks until the operator picks an action
// or ctx is cancelled (cancellation counts as skip).
func (ui *UI) Confirm(ctx context.Context, title, body string) (ports.UserAction, error) {
	msgText := fmt.Sprintf("*[%s]*\n\n%s", escapeMarkdown(title), escapeMarkdown(body))
	msg := tgbotapi.NewMessage(ui.ChatID, msgText)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Post", string(ports.ActionApprove)),
			tgbotapi.NewInlineKeyboardButtonData("🔄 Redo", string(ports.ActionRegenerate)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Skip", string(ports.ActionSkip)),
		),
	)

	sent, err := ui.Bot.Send(msg)
	if err != nil {
		return ports.ActionSkip, err
	}

	respCh := make(chan ports.UserAction, 1)
	ui.mu.Lock()
	ui.pending[sent.MessageID] = respCh
	ui.mu.Unlock()

	select {
	case action := <-respCh:
		return action, nil
	case <-ctx.Done():
		ui.mu.Lock()
		delete(ui.pending, sent.MessageID)
		ui.mu.Unlock()
		return ports.ActionSkip, ctx.Err()
	}
}

func escapeMarkdown(text string) string {
	replacer := strings.NewReplacer(
		"_", "\\_",
		"*", "\\*",
		"[", "\\[",
		"`", "\\`",
	)
	return replacer.Replace(text)
}
