package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync/atomic"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/turbekoff/amountpad/pkg/calculator"
	"github.com/turbekoff/amountpad/pkg/locale"
)

var (
	ErrClosed         = errors.New("bot has closed")
	ErrSessionExpired = errors.New("session has expired")
	ErrAlreadyStarted = errors.New("bot already started")
)

// keyboard renders the calculator keypad as an inline keyboard.
func keyboard(symbols locale.Symbols, state calculator.State) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, keys := range calculator.Layout(symbols, state) {
		row := make([]tgbotapi.InlineKeyboardButton, 0, len(keys))
		for _, k := range keys {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(k.Label, k.Data))
		}
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func sessionKey(chatID, userID int64) string {
	return fmt.Sprintf("%d_%d", chatID, userID)
}

type Bot struct {
	sessions   *SessionCache
	api        *tgbotapi.BotAPI
	config     *BotConfig
	symbols    locale.Symbols
	limits     calculator.Limits
	welcome    string
	help       string
	isStarted  atomic.Bool
	inShutdown atomic.Bool
	isDone     chan struct{}
	logger     *log.Logger
}

func LoadBot(config *BotConfig, logger *log.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(config.BotToken)
	if err != nil {
		return nil, err
	}

	return &Bot{
		api:     api,
		config:  config,
		logger:  logger,
		symbols: config.Symbols(),
		limits:  config.Limits(),
		isDone:  make(chan struct{}),
		sessions: NewSessionCache(
			config.SessionTTLTimeout,
			config.SessionCleanupTimeout,
		),
		welcome: fmt.Sprintf(
			"%s%s %s of inactivity.",
			"Welcome! Type /open to enter an amount.\n",
			"Note: the keypad expires after",
			config.SessionTTLTimeout,
		),
		help: strings.Join([]string{
			"Help:",
			"/start - welcome message.",
			"/open - open a new amount keypad.",
			"/help - send this message.",
			"Press Done when the amount is ready.",
		}, "\n"),
	}, nil
}

func (b *Bot) Run() error {
	if b.isStarted.Load() {
		return ErrAlreadyStarted
	}
	b.isStarted.Store(true)
	defer close(b.isDone)

	updateConfig := tgbotapi.NewUpdate(b.config.BotOffset)
	updateConfig.Timeout = b.config.BotTimeout
	updates := b.api.GetUpdatesChan(updateConfig)

	for update := range updates {
		if b.inShutdown.Load() && b.sessions.IsEmpty() {
			continue
		}

		if update.CallbackQuery != nil {
			if err := b.handleCallback(update.CallbackQuery); err != nil {
				b.logger.Printf("failed to handle key press, error: %v", err)
				continue
			}
		}

		if update.Message == nil {
			continue
		}

		if err := b.handleCommand(update.Message); err != nil {
			b.logger.Printf("failed to send message, error: %v", err)
		}
	}

	return ErrClosed
}

func (b *Bot) createMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		return err
	}
	return nil
}

func (b *Bot) createKeyboard(chatID int64, s *session) error {
	msg := tgbotapi.NewMessage(chatID, s.display)
	msg.ReplyMarkup = keyboard(b.symbols, s.calc.State())

	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) updateKeyboard(callback *tgbotapi.CallbackQuery, s *session) error {
	if s.display == callback.Message.Text {
		return nil
	}

	markup := keyboard(b.symbols, s.calc.State())
	edit := tgbotapi.NewEditMessageText(
		callback.Message.Chat.ID,
		callback.Message.MessageID,
		s.display,
	)
	edit.ReplyMarkup = &markup

	_, err := b.api.Send(edit)
	return err
}

// finishKeyboard replaces the keypad message with the entered amount.
func (b *Bot) finishKeyboard(callback *tgbotapi.CallbackQuery, s *session) error {
	edit := tgbotapi.NewEditMessageText(
		callback.Message.Chat.ID,
		callback.Message.MessageID,
		fmt.Sprintf("Amount: %s", s.display),
	)

	_, err := b.api.Send(edit)
	return err
}

func (b *Bot) handleCommand(command *tgbotapi.Message) error {
	switch command.Text {
	case "/start":
		return b.createMessage(command.Chat.ID, b.welcome)
	case "/help":
		return b.createMessage(command.Chat.ID, b.help)
	case "/open":
		if command.From == nil {
			return b.createMessage(command.Chat.ID, "Cannot open a keypad here.")
		}
		key := sessionKey(command.Chat.ID, command.From.ID)

		if s := b.sessions.Get(key); s != nil {
			return b.createMessage(
				command.Chat.ID,
				"Your keypad is still open!",
			)
		}

		s := newSession(b.symbols, b.limits)
		err := b.createKeyboard(command.Chat.ID, s)
		if err == nil {
			b.sessions.Set(key, s)
			b.logger.Printf("opened session %s for %s", s.id, key)
		}
		return err
	default:
		return b.createMessage(command.Chat.ID, "Unknown command. Try /help")
	}
}

// keyOutcome is what a key press did to a session.
type keyOutcome int

const (
	keyExpired keyOutcome = iota
	keyRejected
	keyEdited
	keyDone
)

// pressKey applies data to the session stored under key. A rejected edit
// still refreshes the session TTL. A finished session is removed.
func pressKey(sessions *SessionCache, key, data string) (*session, keyOutcome, error) {
	s := sessions.Get(key)
	if s == nil {
		return nil, keyExpired, ErrSessionExpired
	}

	err := s.calc.Press(data)
	switch {
	case errors.Is(err, calculator.ErrUnsupportedKey):
		return s, keyRejected, fmt.Errorf("session %s: key %q: %w", s.id, data, err)
	case err != nil:
		sessions.Set(key, s)
		return s, keyRejected, nil
	case s.done:
		sessions.Delete(key)
		return s, keyDone, nil
	}
	return s, keyEdited, nil
}

func (b *Bot) handleCallback(callback *tgbotapi.CallbackQuery) error {
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		return err
	}
	if callback.Message == nil {
		return nil
	}

	key := sessionKey(callback.Message.Chat.ID, callback.From.ID)

	s, outcome, err := pressKey(b.sessions, key, callback.Data)
	switch outcome {
	case keyExpired:
		edit := tgbotapi.NewEditMessageText(
			callback.Message.Chat.ID,
			callback.Message.MessageID,
			"Your keypad has expired, please /open a new one.",
		)
		if _, sendErr := b.api.Send(edit); sendErr != nil {
			return sendErr
		}
		return err
	case keyRejected:
		return err
	case keyDone:
		b.logger.Printf("session %s entered amount %s", s.id, s.calc.Amount())
		return b.finishKeyboard(callback, s)
	}

	err = b.updateKeyboard(callback, s)
	if err == nil {
		b.sessions.Set(key, s)
	}
	return err
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.inShutdown.Store(true)
	err := b.sessions.Shutdown(ctx)
	b.api.StopReceivingUpdates()

	select {
	case <-b.isDone:
		if errors.Is(err, ErrSessionsClosed) {
			return ErrClosed
		}
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Bot) Close() error {
	b.inShutdown.Store(true)
	err := b.sessions.Close()
	b.api.StopReceivingUpdates()
	<-b.isDone

	if errors.Is(err, ErrSessionsClosed) {
		return ErrClosed
	}
	return err
}
