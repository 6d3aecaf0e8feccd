package bot

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"mathclass-bot/internal/registration"
	"mathclass-bot/internal/storage"
)

func (b *Bot) handleCommand(ctx context.Context, chatID int64, cmd, args string) {
	switch cmd {
	case "start":
		b.handleStart(ctx, chatID)
	case "help":
		b.handleHelp(chatID)
	case "cancel":
		b.handleCancel(ctx, chatID)
	case "myinfo":
		b.handleMyInfo(ctx, chatID)
	case "edit":
		b.handleEdit(ctx, chatID)
	case "broadcast", "approve", "reject", "export", "stats":
		b.handleAdminCommand(ctx, chatID, cmd, args)
	default:
		b.sendError(chatID, "دستور ناشناخته است. برای راهنما از /help استفاده کنید.")
	}
}

func (b *Bot) handleStart(ctx context.Context, chatID int64) {
	record, err := b.storage.Get(ctx, chatID)
	switch {
	case err == nil:
		// Already registered: show the profile and offer edits instead of
		// walking the whole flow again.
		rc := registration.NewContext(chatID)
		rc.Step = registration.StepCompleted
		if err := b.sessions.Save(ctx, chatID, rc); err != nil {
			b.logger.Error("Failed to save session",
				zap.Int64("chat_id", chatID),
				zap.Error(err))
		}

		msg := tgbotapi.NewMessage(chatID,
			"شما قبلاً ثبت‌نام کرده‌اید:\n\n"+formatRecord(record)+
				"\n\nبرای ویرایش یکی از موارد زیر را انتخاب کنید:")
		msg.ReplyMarkup = b.createEditFieldKeyboard()
		b.sendMessage(msg)
		return

	case errors.Is(err, storage.ErrCorrupt):
		b.logger.Error("Stored record corrupt",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "اطلاعات ذخیره‌شده شما قابل خواندن نیست. لطفاً با پشتیبانی تماس بگیرید.")
		return

	case !errors.Is(err, storage.ErrNotFound):
		b.logger.Error("Failed to check existing record",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "خطایی رخ داد. لطفاً کمی بعد دوباره تلاش کنید.")
		return
	}

	rc := registration.NewContext(chatID)
	if err := b.sessions.Save(ctx, chatID, rc); err != nil {
		b.logger.Error("Failed to save session",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "خطایی رخ داد. لطفاً کمی بعد دوباره تلاش کنید.")
		return
	}

	b.sendMessage(tgbotapi.NewMessage(chatID,
		"سلام! 👋\nبه ربات ثبت‌نام کلاس‌های ریاضی خوش آمدید.\nبرای شروع، اطلاعات خود را وارد کنید."))
	b.promptStep(ctx, chatID, rc)
}

func (b *Bot) handleHelp(chatID int64) {
	helpText := `دستورهای موجود:
/start - شروع یا ادامه ثبت‌نام
/myinfo - مشاهده اطلاعات ثبت‌شده
/edit - ویرایش اطلاعات
/cancel - لغو گفتگوی جاری
/help - نمایش این راهنما`

	b.sendMessage(tgbotapi.NewMessage(chatID, helpText))
}

func (b *Bot) handleCancel(ctx context.Context, chatID int64) {
	if err := b.sessions.Clear(ctx, chatID); err != nil {
		b.logger.Error("Failed to clear session",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
	b.sendMessage(tgbotapi.NewMessage(chatID,
		"گفتگو لغو شد. برای شروع دوباره از /start استفاده کنید."))
}

func (b *Bot) handleMyInfo(ctx context.Context, chatID int64) {
	record, err := b.storage.Get(ctx, chatID)
	if errors.Is(err, storage.ErrNotFound) {
		b.sendError(chatID, "هنوز ثبت‌نام نکرده‌اید. برای شروع از /start استفاده کنید.")
		return
	}
	if err != nil {
		b.logger.Error("Failed to load record",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "خطایی رخ داد. لطفاً کمی بعد دوباره تلاش کنید.")
		return
	}

	b.sendMessage(tgbotapi.NewMessage(chatID, "اطلاعات ثبت‌شده شما:\n\n"+formatRecord(record)))
}

func (b *Bot) handleEdit(ctx context.Context, chatID int64) {
	if _, err := b.storage.Get(ctx, chatID); err != nil {
		b.sendError(chatID, "هنوز ثبت‌نام نکرده‌اید. برای شروع از /start استفاده کنید.")
		return
	}

	msg := tgbotapi.NewMessage(chatID, "کدام بخش را می‌خواهید ویرایش کنید؟")
	msg.ReplyMarkup = b.createEditFieldKeyboard()
	b.sendMessage(msg)
}
