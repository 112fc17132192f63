package bot

import (
	"io"
	"strings"
	"testing"

	"github.com/example/ydsbot/internal/apperr"
	"github.com/example/ydsbot/internal/excel"
	"github.com/example/ydsbot/internal/quiz"
	"github.com/example/ydsbot/pkg/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

const ownerChat int64 = 42

type fakeAPI struct {
	sent     []tgbotapi.MessageConfig
	requests []tgbotapi.Chattable
	nextID   int
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.nextID++
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{MessageID: f.nextID}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) GetFileDirectURL(fileID string) (string, error) {
	return "", apperr.ErrNotFound
}

func (f *fakeAPI) lastText() string {
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1].Text
}

type fakeEngine struct {
	question  *quiz.Question
	submitted [][]string
	words     [][2]string
}

func (f *fakeEngine) NextVocabulary(testType string) (*quiz.Question, error) {
	if f.question == nil {
		return nil, apperr.ErrNotFound
	}
	return f.question, nil
}

func (f *fakeEngine) NextParagraph(testType string) (*quiz.Question, error) {
	return f.NextVocabulary(testType)
}

func (f *fakeEngine) NextSynonym() (*quiz.Question, error) {
	return f.NextVocabulary(quiz.TestSynonym)
}

func (f *fakeEngine) Submit(q *quiz.Question, selected []string) (*quiz.Outcome, error) {
	f.submitted = append(f.submitted, selected)
	out := &quiz.Outcome{CorrectAnswers: q.CorrectAnswers}
	out.IsCorrect = len(selected) == len(q.CorrectAnswers) && selected[0] == q.CorrectAnswers[0]
	return out, nil
}

func (f *fakeEngine) Summary(days int) models.Summary {
	return models.Summary{TotalScore: 12, Today: "2026-10-15"}
}

func (f *fakeEngine) AddWord(english, turkish string) (*models.Word, error) {
	if english == "abundance" {
		return nil, apperr.NewValidationError(map[string]string{"en": "already exists"})
	}
	f.words = append(f.words, [2]string{english, turkish})
	return &models.Word{English: english, Turkish: turkish}, nil
}

func (f *fakeEngine) ImportWords(path string) (*excel.ImportResult, error) {
	return &excel.ImportResult{}, nil
}

func (f *fakeEngine) ParagraphTestTypes() []string {
	return []string{"detail", "main_idea"}
}

func newTestBot(engine *fakeEngine) (*Bot, *fakeAPI) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	api := &fakeAPI{}
	cfg := DefaultConfig()
	cfg.OwnerChatID = ownerChat
	return newBot(api, cfg, engine, nil, log), api
}

func command(chatID int64, text string) tgbotapi.Update {
	cmd, _, _ := strings.Cut(text, " ")
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: chatID},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}},
	}}
}

func callback(chatID int64, messageID int, data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:   "cb",
		Data: data,
		Message: &tgbotapi.Message{
			MessageID: messageID,
			Chat:      &tgbotapi.Chat{ID: chatID},
		},
	}}
}

func vocabQuestion() *quiz.Question {
	return &quiz.Question{
		Kind:           quiz.KindVocabulary,
		TestType:       quiz.TestEnToTr,
		ItemID:         "abundance",
		Prompt:         "abundance",
		Options:        []string{"kıtlık", "bolluk", "düşüş"},
		CorrectAnswers: []string{"bolluk"},
	}
}

func TestSingleSelectAnswerFlow(t *testing.T) {
	engine := &fakeEngine{question: vocabQuestion()}
	b, api := newTestBot(engine)

	b.handleUpdate(command(ownerChat, "/vocab"))
	if !strings.Contains(api.lastText(), `"abundance"`) {
		t.Fatalf("question not sent: %q", api.lastText())
	}
	questionID := api.nextID

	// A keyboard from an older message is ignored.
	b.handleUpdate(callback(ownerChat, questionID-1, "ans:1"))
	if len(engine.submitted) != 0 {
		t.Fatal("stale keyboard reached the engine")
	}

	b.handleUpdate(callback(ownerChat, questionID, "ans:1"))
	if len(engine.submitted) != 1 || engine.submitted[0][0] != "bolluk" {
		t.Fatalf("submitted = %v", engine.submitted)
	}
	if !strings.HasPrefix(api.lastText(), "✅ Correct!") {
		t.Errorf("outcome = %q", api.lastText())
	}

	// The question is closed after grading.
	b.handleUpdate(callback(ownerChat, questionID, "ans:0"))
	if len(engine.submitted) != 1 {
		t.Error("a graded question was submitted twice")
	}
}

func TestMultiSelectFlow(t *testing.T) {
	q := &quiz.Question{
		Kind:           quiz.KindSynonym,
		TestType:       quiz.TestSynonym,
		Prompt:         "Select synonyms",
		Options:        []string{"plentiful", "scarce", "ample"},
		CorrectAnswers: []string{"ample", "plentiful"},
		MultiSelect:    true,
	}
	engine := &fakeEngine{question: q}
	b, api := newTestBot(engine)

	b.handleUpdate(callback(ownerChat, 0, callbackSynonym))
	id := api.nextID
	for _, data := range []string{"tog:2", "tog:1", "tog:0", "tog:1"} {
		b.handleUpdate(callback(ownerChat, id, data))
	}
	b.handleUpdate(callback(ownerChat, id, callbackSubmit))

	if len(engine.submitted) != 1 {
		t.Fatalf("submitted = %v", engine.submitted)
	}
	got := strings.Join(engine.submitted[0], ",")
	if got != "plentiful,ample" {
		t.Errorf("selection = %s", got)
	}
}

func TestOwnerRestriction(t *testing.T) {
	engine := &fakeEngine{question: vocabQuestion()}
	b, api := newTestBot(engine)

	b.handleUpdate(command(7, "/vocab"))
	if api.lastText() != "This bot is private." {
		t.Errorf("reply = %q", api.lastText())
	}
	if _, ok := b.sessions[7]; ok {
		t.Error("a stranger got a question")
	}
}

func TestNoQuestionsAvailable(t *testing.T) {
	b, api := newTestBot(&fakeEngine{})

	b.handleUpdate(command(ownerChat, "/synonym"))
	if !strings.Contains(api.lastText(), "No questions available") {
		t.Errorf("reply = %q", api.lastText())
	}
}

func TestAddWordsCommand(t *testing.T) {
	engine := &fakeEngine{}
	b, api := newTestBot(engine)

	b.handleUpdate(command(ownerChat, "/add vivid - canlı\nabundance - bolluk\nnonsense"))
	if len(engine.words) != 1 || engine.words[0][0] != "vivid" {
		t.Fatalf("words = %v", engine.words)
	}
	reply := api.lastText()
	for _, want := range []string{"Added 1 word(s): vivid", "Skipped (duplicate or invalid): abundance", "Unreadable lines: 1"} {
		if !strings.Contains(reply, want) {
			t.Errorf("reply %q missing %q", reply, want)
		}
	}
}

func TestQuestionKeyboard(t *testing.T) {
	q := &quiz.Question{Options: []string{"a", "b"}, MultiSelect: true}
	kb := questionKeyboard(q, map[int]bool{1: true})

	if len(kb.InlineKeyboard) != 3 {
		t.Fatalf("rows = %d, want 2 options plus submit", len(kb.InlineKeyboard))
	}
	if kb.InlineKeyboard[0][0].Text != "a" || kb.InlineKeyboard[1][0].Text != "✅ b" {
		t.Errorf("labels = %q, %q", kb.InlineKeyboard[0][0].Text, kb.InlineKeyboard[1][0].Text)
	}
	if data := *kb.InlineKeyboard[2][0].CallbackData; data != callbackSubmit {
		t.Errorf("submit data = %q", data)
	}
}

func TestParseWordLines(t *testing.T) {
	pairs, invalid := parseWordLines("abundance - bolluk\n\n  scarce -  kıt \nbroken line\n - nothing")
	if len(pairs) != 2 || pairs[1] != [2]string{"scarce", "kıt"} {
		t.Errorf("pairs = %v", pairs)
	}
	if len(invalid) != 2 {
		t.Errorf("invalid = %v", invalid)
	}
}

func TestParseOptionIndex(t *testing.T) {
	tests := []struct {
		data    string
		want    int
		wantErr bool
	}{
		{"ans:0", 0, false},
		{"ans:3", 3, false},
		{"ans:4", 0, true},
		{"ans:-1", 0, true},
		{"ans:x", 0, true},
	}
	for _, tt := range tests {
		got, err := parseOptionIndex(tt.data, callbackAnswer, 4)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("parseOptionIndex(%q) = %d, %v", tt.data, got, err)
		}
	}
}

func TestStatsTextIncludesHistory(t *testing.T) {
	s := models.Summary{
		TotalScore: 30,
		Today:      "2026-10-15",
		RecentDays: []models.DaySummary{{Date: "2026-10-15", Record: models.DailyRecord{Score: 5, QuestionsAnswered: 9}}},
	}
	text := statsText(s, &models.HistoryStats{TotalAnswers: 4, TotalCorrect: 3, TotalPoints: 6})
	for _, want := range []string{"Total score: 30", "2026-10-15: 5 points, 9 answered", "75.0% correct"} {
		if !strings.Contains(text, want) {
			t.Errorf("stats text missing %q:\n%s", want, text)
		}
	}
}

type fakeHistory struct {
	start, end string
}

func (f *fakeHistory) GetStatsByPeriod(startDate, endDate string) (*models.HistoryStats, error) {
	f.start, f.end = startDate, endDate
	return &models.HistoryStats{TotalAnswers: 2, TotalCorrect: 1, TotalPoints: 3}, nil
}

func TestStatsHistoryWindowFollowsEngineDate(t *testing.T) {
	b, api := newTestBot(&fakeEngine{})
	history := &fakeHistory{}
	b.history = history

	b.handleUpdate(command(ownerChat, "/stats"))
	if history.start != "2026-09-15" || history.end != "2026-10-15" {
		t.Errorf("history window = %s..%s, want 2026-09-15..2026-10-15", history.start, history.end)
	}
	for _, want := range []string{"Total score: 12", "50.0% correct"} {
		if !strings.Contains(api.lastText(), want) {
			t.Errorf("reply missing %q:\n%s", want, api.lastText())
		}
	}
}
