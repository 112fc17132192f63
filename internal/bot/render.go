package bot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/example/ydsbot/internal/excel"
	"github.com/example/ydsbot/internal/quiz"
	"github.com/example/ydsbot/pkg/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Callback data
const (
	callbackMenu          = "menu"
	callbackStats         = "stats"
	callbackVocabEnTr     = "vocab:" + quiz.TestEnToTr
	callbackVocabTrEn     = "vocab:" + quiz.TestTrToEn
	callbackParagraphMenu = "para_menu"
	callbackParagraphType = "para:"
	callbackSynonym       = "synonym"
	callbackLoadWords     = "load_words"
	callbackNext          = "next"
	callbackAnswer        = "ans:"
	callbackToggle        = "tog:"
	callbackSubmit        = "sub"
)

// telegram limits a button label to a short string; long options are cut
const maxButtonText = 60

// MenuButton represents a button in the menu
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard creates a keyboard from menu buttons
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// MainMenuButtons is the keyboard shown after /start and after every answer
func MainMenuButtons() [][]MenuButton {
	return [][]MenuButton{
		{
			{Text: "🇬🇧→🇹🇷 Words", CallbackData: callbackVocabEnTr},
			{Text: "🇹🇷→🇬🇧 Words", CallbackData: callbackVocabTrEn},
		},
		{
			{Text: "📖 Paragraphs", CallbackData: callbackParagraphMenu},
			{Text: "🔁 Synonyms", CallbackData: callbackSynonym},
		},
		{
			{Text: "📊 Statistics", CallbackData: callbackStats},
			{Text: "📝 Load Words", CallbackData: callbackLoadWords},
		},
	}
}

// paragraphMenuButtons offers one button per paragraph test type, two per row
func paragraphMenuButtons(testTypes []string) [][]MenuButton {
	var rows [][]MenuButton
	var row []MenuButton
	for _, t := range testTypes {
		row = append(row, MenuButton{Text: testTypeLabel(t), CallbackData: callbackParagraphType + t})
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return append(rows, []MenuButton{{Text: "⬅️ Back", CallbackData: callbackMenu}})
}

func testTypeLabel(testType string) string {
	label := strings.ReplaceAll(testType, "_", " ")
	if label == "" {
		return testType
	}
	return strings.ToUpper(label[:1]) + label[1:]
}

// questionText renders the message body of a question
func questionText(q *quiz.Question) string {
	var sb strings.Builder
	if q.Title != "" {
		fmt.Fprintf(&sb, "📖 %s\n\n", q.Title)
	}
	if q.Context != "" {
		sb.WriteString(q.Context)
		sb.WriteString("\n\n")
	}
	switch q.TestType {
	case quiz.TestEnToTr:
		fmt.Fprintf(&sb, "What is the Turkish meaning of \"%s\"?", q.Prompt)
	case quiz.TestTrToEn:
		fmt.Fprintf(&sb, "What is the English word for \"%s\"?", q.Prompt)
	default:
		sb.WriteString(q.Prompt)
	}
	if q.MultiSelect {
		sb.WriteString("\n\nSelect every correct option, then press Submit.")
	}
	return sb.String()
}

// questionKeyboard renders one button per option. Multi-select questions get toggle buttons
// with a check mark on selected options and a submit row.
func questionKeyboard(q *quiz.Question, selected map[int]bool) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]MenuButton, 0, len(q.Options)+1)
	for i, option := range q.Options {
		text := truncate(option, maxButtonText)
		data := callbackAnswer + strconv.Itoa(i)
		if q.MultiSelect {
			data = callbackToggle + strconv.Itoa(i)
			if selected[i] {
				text = "✅ " + text
			}
		}
		rows = append(rows, []MenuButton{{Text: text, CallbackData: data}})
	}
	if q.MultiSelect {
		rows = append(rows, []MenuButton{{Text: "📨 Submit", CallbackData: callbackSubmit}})
	}
	return createKeyboard(rows)
}

// outcomeText renders the result of a submission
func outcomeText(out *quiz.Outcome) string {
	var sb strings.Builder
	if out.IsCorrect {
		sb.WriteString("✅ Correct!")
	} else {
		fmt.Fprintf(&sb, "❌ Wrong. Correct answer: %s", strings.Join(out.CorrectAnswers, ", "))
	}
	fmt.Fprintf(&sb, "\nPoints: %+d", out.Points)
	if out.CorrectStreak > 1 {
		fmt.Fprintf(&sb, " | Streak: %d (x%d)", out.CorrectStreak, out.ComboMultiplier)
	}
	if out.WrongStreak > 1 {
		fmt.Fprintf(&sb, " | Wrong streak: %d", out.WrongStreak)
	}
	fmt.Fprintf(&sb, "\nAnswered today: %d", out.AnsweredToday)
	if out.Solution != "" {
		fmt.Fprintf(&sb, "\n\n💡 %s", out.Solution)
	}
	return sb.String()
}

// statsText renders the ledger summary and, when available, the answer history
func statsText(s models.Summary, history *models.HistoryStats) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 Statistics (%s)\n\n", s.Today)
	fmt.Fprintf(&sb, "Total score: %d\n", s.TotalScore)
	fmt.Fprintf(&sb, "Today: %d points, %d answered (%d correct, %d wrong), %d words added\n",
		s.TodayRecord.Score, s.AnsweredToday, s.TodayRecord.Correct, s.TodayRecord.Wrong, s.TodayRecord.WordsAdded)
	fmt.Fprintf(&sb, "Streak: %d correct, %d wrong, multiplier x%d\n", s.CorrectStreak, s.WrongStreak, s.ComboMultiplier)

	if len(s.RecentDays) > 0 {
		sb.WriteString("\nRecent days:\n")
		for _, d := range s.RecentDays {
			fmt.Fprintf(&sb, "%s: %d points, %d answered\n", d.Date, d.Record.Score, d.Record.QuestionsAnswered)
		}
	}

	if history != nil && history.TotalAnswers > 0 {
		accuracy := float64(history.TotalCorrect) / float64(history.TotalAnswers) * 100
		fmt.Fprintf(&sb, "\nHistory: %d answers, %.1f%% correct, %d points\n",
			history.TotalAnswers, accuracy, history.TotalPoints)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func importText(res *excel.ImportResult) string {
	return fmt.Sprintf("📥 Import finished\nProcessed: %d\nAdded: %d\nSkipped (already known): %d",
		res.TotalProcessed, res.Created, res.Skipped)
}

// parseOptionIndex reads the option index from an ans:/tog: callback
func parseOptionIndex(data, prefix string, options int) (int, error) {
	i, err := strconv.Atoi(strings.TrimPrefix(data, prefix))
	if err != nil {
		return 0, fmt.Errorf("invalid option in callback data %q: %w", data, err)
	}
	if i < 0 || i >= options {
		return 0, fmt.Errorf("option %d out of range", i)
	}
	return i, nil
}

// parseWordLines reads "english - turkish" pairs, one per line. Lines that do not match are
// returned separately.
func parseWordLines(text string) (pairs [][2]string, invalid []string) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		english, turkish, ok := strings.Cut(line, " - ")
		english, turkish = strings.TrimSpace(english), strings.TrimSpace(turkish)
		if !ok || english == "" || turkish == "" {
			invalid = append(invalid, line)
			continue
		}
		pairs = append(pairs, [2]string{english, turkish})
	}
	return pairs, invalid
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
