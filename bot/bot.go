package bot

import (
	"context"
	"log"
	"time"

	"main/config"
	"main/usecase"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot wires the Telegram long-polling transport to the router. All
// conversation logic lives behind Router; this type only moves updates
// in and replies out.
type Bot struct {
	api    *tgbotapi.BotAPI
	router *Router
}

func NewBot(cfg config.BotConfig, router *Router) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}
	api.Debug = cfg.Debug

	log.Printf("Authorized on account %s", api.Self.UserName)
	return &Bot{api: api, router: router}, nil
}

// Run polls for updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context, updateTimeout int) {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = updateTimeout

	updates := b.api.GetUpdatesChan(updateConfig)
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update := <-updates:
			if update.Message == nil || update.Message.From == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	stepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	in := Inbound{
		ChatID: message.Chat.ID,
		Text:   message.Text,
		Profile: usecase.Profile{
			TelegramID:   message.From.ID,
			Username:     message.From.UserName,
			FirstName:    message.From.FirstName,
			LastName:     message.From.LastName,
			LanguageCode: message.From.LanguageCode,
		},
	}
	if message.IsCommand() {
		in.Command = message.Command()
		in.Args = message.CommandArguments()
	}

	reply := b.router.Handle(stepCtx, in)
	if reply.Text == "" {
		return
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, reply.Text)
	if len(reply.QuickReplies) > 0 {
		msg.ReplyMarkup = buildKeyboard(reply.QuickReplies)
	}

	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Failed to send reply to chat %d: %v", message.Chat.ID, err)
	}
}

func buildKeyboard(rows [][]string) tgbotapi.ReplyKeyboardMarkup {
	keyboardRows := make([][]tgbotapi.KeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.KeyboardButton, 0, len(row))
		for _, label := range row {
			buttons = append(buttons, tgbotapi.NewKeyboardButton(label))
		}
		keyboardRows = append(keyboardRows, buttons)
	}
	keyboard := tgbotapi.NewReplyKeyboard(keyboardRows...)
	keyboard.ResizeKeyboard = true
	return keyboard
}
