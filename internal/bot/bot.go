// Package bot is the Telegram front end. It renders quiz questions as inline keyboards and
// reports the selected options back to the quiz engine.
package bot

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/example/ydsbot/internal/excel"
	"github.com/example/ydsbot/internal/quiz"
	"github.com/example/ydsbot/pkg/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// Engine is the part of the quiz engine the bot drives
type Engine interface {
	NextVocabulary(testType string) (*quiz.Question, error)
	NextParagraph(testType string) (*quiz.Question, error)
	NextSynonym() (*quiz.Question, error)
	Submit(q *quiz.Question, selected []string) (*quiz.Outcome, error)
	Summary(days int) models.Summary
	AddWord(english, turkish string) (*models.Word, error)
	ImportWords(path string) (*excel.ImportResult, error)
	ParagraphTestTypes() []string
}

// HistoryReader reads aggregated answer history. *database.AnswerRepository implements it.
type HistoryReader interface {
	GetStatsByPeriod(startDate, endDate string) (*models.HistoryStats, error)
}

// botAPI is the subset of *tgbotapi.BotAPI used by the handlers
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

// session is the question currently shown in a chat
type session struct {
	question  *quiz.Question
	selected  map[int]bool
	messageID int
	mode      string
}

// Bot represents the Telegram bot application
type Bot struct {
	tg         *tgbotapi.BotAPI
	api        botAPI
	config     *BotConfig
	engine     Engine
	history    HistoryReader
	log        *logrus.Logger
	httpClient *http.Client

	mu                 sync.Mutex
	sessions           map[int64]*session
	lastMode           map[int64]string
	awaitingFileUpload map[int64]bool
}

// NewBot connects to Telegram with config.Token. history may be nil.
func NewBot(config *BotConfig, engine Engine, history HistoryReader, log *logrus.Logger) (*Bot, error) {
	if config.Token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable is not set")
	}
	tg, err := tgbotapi.NewBotAPI(config.Token)
	if err != nil {
		return nil, fmt.Errorf("unable to create bot: %w", err)
	}
	log.Infof("Authorized on account %s", tg.Self.UserName)

	b := newBot(tg, config, engine, history, log)
	b.tg = tg
	return b, nil
}

func newBot(api botAPI, config *BotConfig, engine Engine, history HistoryReader, log *logrus.Logger) *Bot {
	if config == nil {
		config = DefaultConfig()
	}
	return &Bot{
		api:                api,
		config:             config,
		engine:             engine,
		history:            history,
		log:                log,
		httpClient:         &http.Client{Timeout: 30 * time.Second},
		sessions:           make(map[int64]*session),
		lastMode:           make(map[int64]string),
		awaitingFileUpload: make(map[int64]bool),
	}
}

// Start polls Telegram for updates until ctx is cancelled. Updates are handled one at a time.
func (b *Bot) Start(ctx context.Context) error {
	if b.tg == nil {
		return fmt.Errorf("bot is not connected")
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = b.config.UpdateTimeout
	updates := b.tg.GetUpdatesChan(updateConfig)

	b.log.Info("Bot started")
	for {
		select {
		case <-ctx.Done():
			b.tg.StopReceivingUpdates()
			b.log.Info("Bot stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(update)
		}
	}
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		if update.Message.Chat == nil {
			return
		}
		if !b.allowed(update.Message.Chat) {
			b.reject(update.Message.Chat.ID)
			return
		}
		if err := b.handleMessage(update.Message); err != nil {
			b.log.WithField("chat", update.Message.Chat.ID).Errorf("Failed to handle message: %v", err)
		}
	case update.CallbackQuery != nil:
		cb := update.CallbackQuery
		// Always answer the callback query to remove the loading state
		if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
			b.log.Warnf("Failed to answer callback: %v", err)
		}
		if cb.Message == nil || cb.Message.Chat == nil {
			return
		}
		if !b.allowed(cb.Message.Chat) {
			b.reject(cb.Message.Chat.ID)
			return
		}
		if err := b.handleCallback(cb); err != nil {
			b.log.WithFields(logrus.Fields{
				"chat": cb.Message.Chat.ID,
				"data": cb.Data,
			}).Errorf("Failed to handle callback: %v", err)
			b.send(tgbotapi.NewMessage(cb.Message.Chat.ID, "❌ Something went wrong. Please try again."))
		}
	}
}

func (b *Bot) allowed(chat *tgbotapi.Chat) bool {
	return b.config.OwnerChatID == 0 || chat.ID == b.config.OwnerChatID
}

func (b *Bot) reject(chatID int64) {
	b.log.WithField("chat", chatID).Warn("Rejected message from unknown chat")
	b.send(tgbotapi.NewMessage(chatID, "This bot is private."))
}

// send delivers c and logs failures. It returns the sent message, which is empty on failure.
func (b *Bot) send(c tgbotapi.Chattable) tgbotapi.Message {
	msg, err := b.api.Send(c)
	if err != nil {
		b.log.Warnf("Failed to send message: %v", err)
	}
	return msg
}

func (b *Bot) sendWithMenu(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = createKeyboard(MainMenuButtons())
	b.send(msg)
}
