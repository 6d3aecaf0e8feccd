package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"mathclass-bot/internal/config"
	"mathclass-bot/internal/registration"
	"mathclass-bot/internal/session"
	"mathclass-bot/internal/storage"
	"mathclass-bot/internal/validation"
)

type Bot struct {
	bot      *tgbotapi.BotAPI
	logger   *zap.Logger
	machine  *registration.Machine
	sessions session.Store
	storage  *storage.FileStorage
	cfg      *config.Config
}

func New(
	cfg *config.Config,
	machine *registration.Machine,
	sessions session.Store,
	fileStorage *storage.FileStorage,
	logger *zap.Logger,
) (*Bot, error) {
	botAPI, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}
	botAPI.Debug = cfg.Debug

	logger.Info("Bot authorized",
		zap.String("username", botAPI.Self.UserName),
		zap.Int64("id", botAPI.Self.ID))

	return &Bot{
		bot:      botAPI,
		logger:   logger,
		machine:  machine,
		sessions: sessions,
		storage:  fileStorage,
		cfg:      cfg,
	}, nil
}

func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("Starting bot")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Shutting down bot")
			return nil

		case update := <-updates:
			// Updates are handled one at a time on this goroutine.
			if update.Message != nil {
				b.processMessage(ctx, update.Message)
			} else if update.CallbackQuery != nil {
				b.processCallback(ctx, update.CallbackQuery)
			}
		}
	}
}

func (b *Bot) processMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	b.logger.Debug("Processing message",
		zap.Int64("chat_id", chatID),
		zap.String("text", msg.Text))

	if msg.IsCommand() {
		b.handleCommand(ctx, chatID, msg.Command(), msg.CommandArguments())
		return
	}

	// A shared contact is just another way to supply the phone number; the
	// validator treats it like typed input.
	if msg.Contact != nil {
		b.handleUserInput(ctx, chatID, msg.Contact.PhoneNumber)
		return
	}

	b.handleUserInput(ctx, chatID, msg.Text)
}

func (b *Bot) processCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	// Callbacks from messages too old for Telegram to reference carry no
	// Message; there is no chat to act on.
	if callback.Message == nil {
		b.logger.Warn("Callback without message",
			zap.String("data", callback.Data))
		return
	}

	chatID := callback.Message.Chat.ID
	data := callback.Data

	b.logger.Debug("Processing callback",
		zap.Int64("chat_id", chatID),
		zap.String("data", data))

	if _, err := b.bot.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		b.logger.Warn("Failed to answer callback",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}

	switch {
	case data == callbackConfirm:
		b.handleUserInput(ctx, chatID, registration.InputConfirm)
	case data == callbackRestart:
		b.handleUserInput(ctx, chatID, registration.InputRestart)
	case strings.HasPrefix(data, "edit:"):
		b.handleEditSelection(ctx, chatID, validation.Field(strings.TrimPrefix(data, "edit:")))
	default:
		// Selection buttons carry "prefix:value"; the value is the input.
		if _, value, ok := strings.Cut(data, ":"); ok {
			b.handleUserInput(ctx, chatID, value)
			return
		}
		b.logger.Warn("Unknown callback data",
			zap.Int64("chat_id", chatID),
			zap.String("data", data))
	}
}

func (b *Bot) handleUserInput(ctx context.Context, chatID int64, text string) {
	rc, err := b.sessions.Get(ctx, chatID)
	if errors.Is(err, session.ErrNoSession) {
		b.sendError(chatID, "گفتگوی فعالی وجود ندارد. برای شروع از /start استفاده کنید.")
		return
	}
	if err != nil {
		b.logger.Error("Failed to get session",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "خطایی رخ داد. لطفاً دوباره تلاش کنید.")
		return
	}

	res := b.machine.Advance(ctx, rc, text)
	b.renderResult(ctx, chatID, rc, res)
}

func (b *Bot) renderResult(ctx context.Context, chatID int64, rc *registration.Context, res registration.Result) {
	switch {
	case res.Throttled:
		// Deliberately no session write: the throttled input never happened.
		b.sendMessage(tgbotapi.NewMessage(chatID, "⏳ لطفاً کمی آهسته‌تر پیام بفرستید."))
		return

	case res.Failure != nil:
		b.sendError(chatID, res.Failure.Message)
		b.promptStep(ctx, chatID, rc)

	case res.CommitErr != nil:
		b.sendError(chatID, "ثبت اطلاعات انجام نشد. لطفاً کمی بعد دوباره تلاش کنید.")

	case res.Completed:
		b.sendRegistrationSummary(ctx, chatID)
		b.notifyAdminsNewRegistration(rc)

	case res.EditedField != "":
		b.sendMessage(tgbotapi.NewMessage(chatID, "✅ اطلاعات شما به‌روزرسانی شد."))
		b.sendRegistrationSummary(ctx, chatID)

	case res.Restarted:
		b.sendMessage(tgbotapi.NewMessage(chatID, "ثبت‌نام از ابتدا شروع شد."))
		b.promptStep(ctx, chatID, rc)

	default:
		b.promptStep(ctx, chatID, rc)
	}

	if err := b.sessions.Save(ctx, chatID, rc); err != nil {
		b.logger.Error("Failed to save session",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
}

func (b *Bot) isAdmin(chatID int64) bool {
	for _, id := range b.cfg.AdminIDs {
		if id == chatID {
			return true
		}
	}
	return false
}

func (b *Bot) sendMessage(msg tgbotapi.MessageConfig) {
	if _, err := b.bot.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Int64("chat_id", msg.ChatID),
			zap.Error(err))
	}
}

func (b *Bot) sendError(chatID int64, text string) {
	b.sendMessage(tgbotapi.NewMessage(chatID, "❌ "+text))
}
