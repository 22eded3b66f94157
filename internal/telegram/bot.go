package telegram

import (
	"fmt"
	"strings"

	"go-linkedin-jobhunter/internal/models"
	"go-linkedin-jobhunter/internal/scraper"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// sender is the part of tgbotapi.BotAPI the bot uses
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Bot struct {
	api    sender
	chatID int64
}

func NewBot(token string, chatID int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}
	return &Bot{
		api:    api,
		chatID: chatID,
	}, nil
}

var markdownEscaper = strings.NewReplacer(
	"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(",
	")", "\\)", "~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#",
	"+", "\\+", "-", "\\-", "=", "\\=", "|", "\\|", "{", "\\{",
	"}", "\\}", ".", "\\.", "!", "\\!",
)

func escapeMarkdown(text string) string {
	return markdownEscaper.Replace(text)
}

func formatJob(job models.Job) string {
	msgText := fmt.Sprintf("💼 *%s*\n", escapeMarkdown(job.Title))
	msgText += fmt.Sprintf("🏢 %s\n", escapeMarkdown(job.Company))
	if job.JobInfo != "" {
		msgText += fmt.Sprintf("📍 %s\n", escapeMarkdown(job.JobInfo))
	}
	if len(job.Tags) > 0 {
		msgText += fmt.Sprintf("🏷 %s\n", escapeMarkdown(strings.Join(job.Tags, ", ")))
	}
	if job.MatchScore != nil {
		msgText += fmt.Sprintf("🤖 Match Score: %d/10\n", *job.MatchScore)
	}
	if job.MatchReasoning != nil && *job.MatchReasoning != "" {
		reason := *job.MatchReasoning
		if r := []rune(reason); len(r) > 500 {
			reason = string(r[:500]) + "..."
		}
		msgText += fmt.Sprintf("📝 %s\n", escapeMarkdown(reason))
	}
	return msgText
}

func jobKeyboard(job models.Job) *tgbotapi.InlineKeyboardMarkup {
	var row []tgbotapi.InlineKeyboardButton
	if job.ApplyURL != "" {
		row = append(row, tgbotapi.NewInlineKeyboardButtonURL("🚀 Apply", job.ApplyURL))
	}
	if job.LinkedInURL != "" {
		row = append(row, tgbotapi.NewInlineKeyboardButtonURL("🔗 View Job", job.LinkedInURL))
	}
	if len(row) == 0 {
		return nil
	}
	keyboard := tgbotapi.NewInlineKeyboardMarkup(row)
	return &keyboard
}

// SendJob posts one high scoring job with apply and view buttons
func (b *Bot) SendJob(job models.Job) error {
	msg := tgbotapi.NewMessage(b.chatID, formatJob(job))
	msg.ParseMode = "MarkdownV2"
	if kb := jobKeyboard(job); kb != nil {
		msg.ReplyMarkup = kb
	}

	_, err := b.api.Send(msg)
	return err
}

func formatRunSummary(res *scraper.Result, runErr error) string {
	if res == nil {
		res = &scraper.Result{}
	}
	text := fmt.Sprintf("📊 LinkedIn scrape finished\nJobs: %d\nPages: %d\nStop: %s\n", len(res.Jobs), res.Pages, res.Stop)
	if res.OutputPath != "" {
		text += fmt.Sprintf("File: %s\n", res.OutputPath)
	}
	if res.PageErr != nil {
		text += fmt.Sprintf("⚠️ Page error: %v\n", res.PageErr)
	}
	if runErr != nil {
		text += fmt.Sprintf("❌ Error: %v\n", runErr)
	}
	return text
}

// SendRunSummary reports the outcome of one scraper run
func (b *Bot) SendRunSummary(res *scraper.Result, runErr error) error {
	msg := tgbotapi.NewMessage(b.chatID, formatRunSummary(res, runErr))
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) SendError(err error) error {
	msg := tgbotapi.NewMessage(b.chatID, fmt.Sprintf("❌ Error: %v", err))
	_, sendErr := b.api.Send(msg)
	return sendErr
}

func (b *Bot) SendStatus(message string) error {
	msg := tgbotapi.NewMessage(b.chatID, "ℹ️ "+message)
	_, err := b.api.Send(msg)
	return err
}
