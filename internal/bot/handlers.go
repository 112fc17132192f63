package bot

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/example/ydsbot/internal/apperr"
	"github.com/example/ydsbot/internal/ledger"
	"github.com/example/ydsbot/internal/quiz"
	"github.com/example/ydsbot/pkg/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const helpText = `YDS vocabulary and reading practice 🎓

Available commands:
/menu - Show main menu
/vocab [en_to_tr|tr_to_en] - Word question
/paragraph [type] - Reading question
/synonym - Synonym question
/add english - turkish - Add words, one pair per line
/import - Send an .xlsx or .csv word file
/stats - Show your statistics`

func (b *Bot) handleMessage(message *tgbotapi.Message) error {
	chatID := message.Chat.ID

	if message.IsCommand() {
		args := strings.TrimSpace(message.CommandArguments())
		switch message.Command() {
		case "start", "help":
			b.sendWithMenu(chatID, helpText)
		case "menu":
			b.sendWithMenu(chatID, "Choose a practice mode:")
		case "vocab":
			if args == "" {
				args = quiz.TestEnToTr
			}
			return b.ask(chatID, "vocab:"+args)
		case "paragraph":
			if args == "" {
				return b.showParagraphMenu(chatID)
			}
			return b.ask(chatID, callbackParagraphType+args)
		case "synonym":
			return b.ask(chatID, callbackSynonym)
		case "stats":
			return b.showStats(chatID)
		case "add":
			return b.addWords(chatID, args)
		case "import":
			b.startUpload(chatID)
		default:
			b.sendWithMenu(chatID, "Unknown command. Use /menu to show the main menu.")
		}
		return nil
	}

	b.mu.Lock()
	awaiting := b.awaitingFileUpload[chatID]
	delete(b.awaitingFileUpload, chatID)
	b.mu.Unlock()

	switch {
	case message.Document != nil:
		return b.processWordFile(chatID, message.Document)
	case awaiting && message.Text != "":
		return b.addWords(chatID, message.Text)
	default:
		b.sendWithMenu(chatID, "I don't understand. Use /menu to show the main menu.")
	}
	return nil
}

func (b *Bot) handleCallback(cb *tgbotapi.CallbackQuery) error {
	chatID := cb.Message.Chat.ID
	data := cb.Data

	switch {
	case data == callbackMenu:
		b.sendWithMenu(chatID, "Choose a practice mode:")
	case data == callbackStats:
		return b.showStats(chatID)
	case data == callbackParagraphMenu:
		return b.showParagraphMenu(chatID)
	case data == callbackLoadWords:
		b.startUpload(chatID)
	case data == callbackNext:
		b.mu.Lock()
		mode := b.lastMode[chatID]
		b.mu.Unlock()
		if mode == "" {
			b.sendWithMenu(chatID, "Choose a practice mode:")
			return nil
		}
		return b.ask(chatID, mode)
	case data == callbackSynonym, strings.HasPrefix(data, "vocab:"), strings.HasPrefix(data, callbackParagraphType):
		return b.ask(chatID, data)
	case strings.HasPrefix(data, callbackAnswer):
		return b.answer(cb)
	case strings.HasPrefix(data, callbackToggle):
		return b.toggle(cb)
	case data == callbackSubmit:
		return b.submitSelection(cb)
	default:
		b.send(tgbotapi.NewMessage(chatID, "⚠️ Unknown action"))
	}
	return nil
}

// nextQuestion maps a mode (the callback data of a menu button) to an engine call
func (b *Bot) nextQuestion(mode string) (*quiz.Question, error) {
	switch {
	case mode == callbackSynonym:
		return b.engine.NextSynonym()
	case strings.HasPrefix(mode, "vocab:"):
		return b.engine.NextVocabulary(strings.TrimPrefix(mode, "vocab:"))
	case strings.HasPrefix(mode, callbackParagraphType):
		return b.engine.NextParagraph(strings.TrimPrefix(mode, callbackParagraphType))
	}
	return nil, fmt.Errorf("unknown mode %q: %w", mode, apperr.ErrNotFound)
}

func (b *Bot) ask(chatID int64, mode string) error {
	q, err := b.nextQuestion(mode)
	if errors.Is(err, apperr.ErrNotFound) {
		b.sendWithMenu(chatID, "No questions available for this mode. Please pick another one.")
		return nil
	}
	if err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(chatID, questionText(q))
	msg.ReplyMarkup = questionKeyboard(q, nil)
	sent := b.send(msg)

	b.mu.Lock()
	b.sessions[chatID] = &session{
		question:  q,
		selected:  make(map[int]bool),
		messageID: sent.MessageID,
		mode:      mode,
	}
	b.lastMode[chatID] = mode
	b.mu.Unlock()
	return nil
}

// activeSession returns the session the callback belongs to, or nil when the keyboard is stale
func (b *Bot) activeSession(cb *tgbotapi.CallbackQuery) *session {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := b.sessions[cb.Message.Chat.ID]
	if s == nil || s.messageID != cb.Message.MessageID {
		return nil
	}
	return s
}

func (b *Bot) answer(cb *tgbotapi.CallbackQuery) error {
	s := b.activeSession(cb)
	if s == nil {
		b.send(tgbotapi.NewMessage(cb.Message.Chat.ID, "This question has expired."))
		return nil
	}
	i, err := parseOptionIndex(cb.Data, callbackAnswer, len(s.question.Options))
	if err != nil {
		return err
	}
	return b.grade(cb.Message, s, []string{s.question.Options[i]})
}

func (b *Bot) toggle(cb *tgbotapi.CallbackQuery) error {
	s := b.activeSession(cb)
	if s == nil {
		b.send(tgbotapi.NewMessage(cb.Message.Chat.ID, "This question has expired."))
		return nil
	}
	i, err := parseOptionIndex(cb.Data, callbackToggle, len(s.question.Options))
	if err != nil {
		return err
	}

	b.mu.Lock()
	s.selected[i] = !s.selected[i]
	markup := questionKeyboard(s.question, s.selected)
	b.mu.Unlock()

	edit := tgbotapi.NewEditMessageReplyMarkup(cb.Message.Chat.ID, cb.Message.MessageID, markup)
	if _, err := b.api.Request(edit); err != nil {
		b.log.Warnf("Failed to update selection: %v", err)
	}
	return nil
}

func (b *Bot) submitSelection(cb *tgbotapi.CallbackQuery) error {
	s := b.activeSession(cb)
	if s == nil {
		b.send(tgbotapi.NewMessage(cb.Message.Chat.ID, "This question has expired."))
		return nil
	}

	b.mu.Lock()
	indexes := make([]int, 0, len(s.selected))
	for i, on := range s.selected {
		if on {
			indexes = append(indexes, i)
		}
	}
	b.mu.Unlock()
	sort.Ints(indexes)

	selected := make([]string, 0, len(indexes))
	for _, i := range indexes {
		selected = append(selected, s.question.Options[i])
	}
	return b.grade(cb.Message, s, selected)
}

// grade submits the selection, closes the question and reports the outcome
func (b *Bot) grade(message *tgbotapi.Message, s *session, selected []string) error {
	chatID := message.Chat.ID

	out, err := b.engine.Submit(s.question, selected)
	if out == nil {
		return err
	}

	b.mu.Lock()
	delete(b.sessions, chatID)
	b.mu.Unlock()

	closed := tgbotapi.NewEditMessageReplyMarkup(chatID, message.MessageID,
		tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}})
	if _, err := b.api.Request(closed); err != nil {
		b.log.Warnf("Failed to close question keyboard: %v", err)
	}

	text := outcomeText(out)
	if err != nil {
		b.log.Warnf("Answer recorded but not saved: %v", err)
		text += "\n\n⚠️ Progress could not be saved. It will be retried automatically."
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = createKeyboard([][]MenuButton{{
		{Text: "➡️ Next", CallbackData: callbackNext},
		{Text: "🏠 Menu", CallbackData: callbackMenu},
	}})
	b.send(msg)
	return nil
}

func (b *Bot) showParagraphMenu(chatID int64) error {
	types := b.engine.ParagraphTestTypes()
	if len(types) == 0 {
		b.sendWithMenu(chatID, "There are no paragraphs yet.")
		return nil
	}
	msg := tgbotapi.NewMessage(chatID, "Choose a reading question type:")
	msg.ReplyMarkup = createKeyboard(paragraphMenuButtons(types))
	b.send(msg)
	return nil
}

func (b *Bot) showStats(chatID int64) error {
	summary := b.engine.Summary(b.config.StatsDays)

	var history *models.HistoryStats
	if b.history != nil {
		// The engine's clock decides what today is.
		end, err := time.Parse(ledger.DateLayout, summary.Today)
		if err != nil {
			return fmt.Errorf("invalid summary date %q: %w", summary.Today, err)
		}
		start := end.Add(-b.config.HistoryPeriod)
		stats, err := b.history.GetStatsByPeriod(start.Format(ledger.DateLayout), summary.Today)
		if err != nil {
			b.log.Warnf("Failed to read answer history: %v", err)
		} else {
			history = stats
		}
	}

	b.sendWithMenu(chatID, statsText(summary, history))
	return nil
}

func (b *Bot) startUpload(chatID int64) {
	b.mu.Lock()
	b.awaitingFileUpload[chatID] = true
	b.mu.Unlock()

	b.send(tgbotapi.NewMessage(chatID, "Send an .xlsx or .csv file (English, Turkish, optional date columns) "+
		"or words in text format:\nword - translation\n\nExample:\nabundance - bolluk\nscarce - kıt"))
}

func (b *Bot) addWords(chatID int64, text string) error {
	pairs, invalid := parseWordLines(text)
	if len(pairs) == 0 {
		b.sendWithMenu(chatID, "No words found. Use the format:\nword - translation")
		return nil
	}

	var added, skipped []string
	for _, p := range pairs {
		w, err := b.engine.AddWord(p[0], p[1])
		switch {
		case errors.Is(err, apperr.ErrValidation):
			skipped = append(skipped, p[0])
		case w != nil:
			added = append(added, w.English)
			if err != nil {
				b.log.Warnf("Word added but not saved: %v", err)
			}
		case err != nil:
			return err
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📝 Added %d word(s)", len(added))
	if len(added) > 0 {
		fmt.Fprintf(&sb, ": %s", strings.Join(added, ", "))
	}
	if len(skipped) > 0 {
		fmt.Fprintf(&sb, "\nSkipped (duplicate or invalid): %s", strings.Join(skipped, ", "))
	}
	if len(invalid) > 0 {
		fmt.Fprintf(&sb, "\nUnreadable lines: %d", len(invalid))
	}
	b.sendWithMenu(chatID, sb.String())
	return nil
}

func (b *Bot) processWordFile(chatID int64, doc *tgbotapi.Document) error {
	ext := strings.ToLower(filepath.Ext(doc.FileName))
	if ext != ".xlsx" && ext != ".csv" {
		b.sendWithMenu(chatID, "Please send an .xlsx or .csv file.")
		return nil
	}
	if doc.FileSize > b.config.MaxUploadSize {
		b.sendWithMenu(chatID, "The file is too large.")
		return nil
	}

	path, err := b.download(doc.FileID, ext)
	if err != nil {
		return err
	}
	defer os.Remove(path)

	res, err := b.engine.ImportWords(path)
	if errors.Is(err, apperr.ErrValidation) {
		b.sendWithMenu(chatID, "❌ The file was rejected, nothing was imported.\n"+err.Error())
		return nil
	}
	if res == nil {
		return err
	}
	if err != nil {
		b.log.Warnf("Words imported but not saved: %v", err)
	}
	b.sendWithMenu(chatID, importText(res))
	return nil
}

// download fetches a Telegram file into a temporary file and returns its path
func (b *Bot) download(fileID, ext string) (string, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return "", fmt.Errorf("failed to get file URL: %w", err)
	}
	resp, err := b.httpClient.Get(url)
	if err != nil {
		return "", fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download file: status %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp("", "words-*"+ext)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer tmp.Close()
	if _, err := io.Copy(tmp, io.LimitReader(resp.Body, int64(b.config.MaxUploadSize)+1)); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	return tmp.Name(), nil
}
