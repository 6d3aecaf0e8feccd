package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"mathclass-bot/internal/registration"
	"mathclass-bot/internal/storage"
)

// notifyAdminsNewRegistration tells every admin about a fresh registration.
// Delivery failures are logged only; the user's flow already completed.
func (b *Bot) notifyAdminsNewRegistration(rc *registration.Context) {
	text := fmt.Sprintf(
		"🆕 ثبت‌نام جدید\n\nشناسه کاربر: %d\n%s\n\nتایید پرداخت: /approve %d\nرد پرداخت: /reject %d",
		rc.UserID,
		formatFields(rc.Fields),
		rc.UserID,
		rc.UserID,
	)

	for _, adminID := range b.cfg.AdminIDs {
		if _, err := b.bot.Send(tgbotapi.NewMessage(adminID, text)); err != nil {
			b.logger.Warn("Failed to notify admin",
				zap.Int64("admin_id", adminID),
				zap.Error(err))
		}
	}
}

func (b *Bot) notifyUserPaymentDecision(userID int64, status storage.PaymentStatus) {
	var text string
	switch status {
	case storage.PaymentApproved:
		text = "✅ پرداخت شما تایید شد. به کلاس‌های ریاضی خوش آمدید!"
	case storage.PaymentRejected:
		text = "❌ پرداخت شما تایید نشد. لطفاً با پشتیبانی تماس بگیرید."
	default:
		return
	}

	if _, err := b.bot.Send(tgbotapi.NewMessage(userID, text)); err != nil {
		b.logger.Warn("Failed to notify user about payment decision",
			zap.Int64("user_id", userID),
			zap.Error(err))
	}
}
