package telegram

import (
	"errors"
	"testing"

	"go-linkedin-jobhunter/internal/models"
	"go-linkedin-jobhunter/internal/scraper"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	sent []tgbotapi.Chattable
	err  error
}

func (r *recorder) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	r.sent = append(r.sent, c)
	return tgbotapi.Message{}, r.err
}

func TestSendJob(t *testing.T) {
	rec := &recorder{}
	bot := &Bot{api: rec, chatID: 42}
	score := 9
	reason := "Remote. Strong Go match!"

	err := bot.SendJob(models.Job{
		ID:             "1",
		Title:          "Go Engineer (Remote)",
		Company:        "Acme",
		Tags:           []string{"Remote"},
		LinkedInURL:    "https://www.linkedin.com/jobs/search/?currentJobId=1",
		ApplyURL:       "https://acme.example/apply",
		MatchScore:     &score,
		MatchReasoning: &reason,
	})
	require.NoError(t, err)
	require.Len(t, rec.sent, 1)

	msg, ok := rec.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Equal(t, "MarkdownV2", msg.ParseMode)
	assert.Contains(t, msg.Text, `Go Engineer \(Remote\)`)
	assert.Contains(t, msg.Text, "Match Score: 9/10")
	assert.Contains(t, msg.Text, `Strong Go match\!`)

	kb, ok := msg.ReplyMarkup.(*tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, kb.InlineKeyboard[0], 2)
}

func TestSendJob_NoLinks(t *testing.T) {
	rec := &recorder{}
	bot := &Bot{api: rec, chatID: 1}
	require.NoError(t, bot.SendJob(models.Job{ID: "1", Title: "T", Company: "C"}))

	msg := rec.sent[0].(tgbotapi.MessageConfig)
	assert.Nil(t, msg.ReplyMarkup)
	assert.NotContains(t, msg.Text, "Match Score")
}

func TestFormatRunSummary(t *testing.T) {
	text := formatRunSummary(&scraper.Result{
		Jobs:       []scraper.Job{{ID: "1"}, {ID: "2"}},
		Pages:      3,
		Stop:       scraper.StopPageError,
		OutputPath: ".scrapped_data/jobs.csv",
		PageErr:    errors.New("detached frame"),
	}, nil)

	assert.Contains(t, text, "Jobs: 2")
	assert.Contains(t, text, "Pages: 3")
	assert.Contains(t, text, "Stop: page_error")
	assert.Contains(t, text, "detached frame")
	assert.NotContains(t, text, "❌")

	assert.Contains(t, formatRunSummary(nil, errors.New("login rejected")), "❌ Error: login rejected")
}

func TestSendError_PropagatesSendFailure(t *testing.T) {
	bot := &Bot{api: &recorder{err: errors.New("unauthorized")}, chatID: 1}
	assert.Error(t, bot.SendError(errors.New("boom")))
}
