package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"mathclass-bot/internal/registration"
	"mathclass-bot/internal/storage"
	"mathclass-bot/internal/validation"
)

// promptStep asks for whatever the conversation needs next, with the matching
// keyboard for selection steps.
func (b *Bot) promptStep(ctx context.Context, chatID int64, rc *registration.Context) {
	switch rc.Step {
	case registration.StepFirstName:
		b.sendMessage(tgbotapi.NewMessage(chatID, "نام خود را وارد کنید:"))

	case registration.StepLastName:
		b.sendMessage(tgbotapi.NewMessage(chatID, "نام خانوادگی خود را وارد کنید:"))

	case registration.StepGrade:
		msg := tgbotapi.NewMessage(chatID, "پایه تحصیلی خود را انتخاب کنید:")
		msg.ReplyMarkup = b.createGradeKeyboard()
		b.sendMessage(msg)

	case registration.StepMajor:
		msg := tgbotapi.NewMessage(chatID, "رشته تحصیلی خود را انتخاب کنید:")
		msg.ReplyMarkup = b.createMajorKeyboard()
		b.sendMessage(msg)

	case registration.StepProvince:
		msg := tgbotapi.NewMessage(chatID, "استان محل سکونت خود را انتخاب کنید:")
		msg.ReplyMarkup = b.createProvinceKeyboard()
		b.sendMessage(msg)

	case registration.StepCity:
		msg := tgbotapi.NewMessage(chatID, "شهر خود را انتخاب کنید:")
		msg.ReplyMarkup = b.createCityKeyboard(rc.Fields[validation.FieldProvince])
		b.sendMessage(msg)

	case registration.StepPhone:
		msg := tgbotapi.NewMessage(chatID,
			"شماره تلفن خود را وارد کنید (مثال: 09121234567) یا با دکمه زیر ارسال کنید:")
		msg.ReplyMarkup = b.createContactRequestKeyboard()
		b.sendMessage(msg)

	case registration.StepConfirmation:
		msg := tgbotapi.NewMessage(chatID,
			"لطفاً اطلاعات زیر را بررسی کنید:\n\n"+formatFields(rc.Fields))
		msg.ReplyMarkup = b.createConfirmationKeyboard()
		b.sendMessage(msg)

	case registration.StepEditValue:
		b.promptEditValue(chatID, rc)

	case registration.StepCompleted:
		b.sendRegistrationSummary(ctx, chatID)
	}
}

func (b *Bot) promptEditValue(chatID int64, rc *registration.Context) {
	title := fieldTitles[rc.EditField]

	switch rc.EditField {
	case validation.FieldGrade:
		msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("%s جدید را انتخاب کنید:", title))
		msg.ReplyMarkup = b.createGradeKeyboard()
		b.sendMessage(msg)
	case validation.FieldMajor:
		msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("%s جدید را انتخاب کنید:", title))
		msg.ReplyMarkup = b.createMajorKeyboard()
		b.sendMessage(msg)
	case validation.FieldProvince:
		msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("%s جدید را انتخاب کنید:", title))
		msg.ReplyMarkup = b.createProvinceKeyboard()
		b.sendMessage(msg)
	case validation.FieldCity:
		msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("%s جدید را انتخاب کنید:", title))
		msg.ReplyMarkup = b.createCityKeyboard(rc.Fields[validation.FieldProvince])
		b.sendMessage(msg)
	case validation.FieldPhone:
		msg := tgbotapi.NewMessage(chatID, "شماره تلفن جدید را وارد کنید:")
		msg.ReplyMarkup = b.createContactRequestKeyboard()
		b.sendMessage(msg)
	default:
		b.sendMessage(tgbotapi.NewMessage(chatID, fmt.Sprintf("%s جدید را وارد کنید:", title)))
	}
}

func (b *Bot) handleEditSelection(ctx context.Context, chatID int64, field validation.Field) {
	rc, err := b.sessions.Get(ctx, chatID)
	if err != nil {
		// Editing needs no prior conversation, only a stored record.
		rc = registration.NewContext(chatID)
	}

	if err := b.machine.BeginEdit(ctx, rc, field); err != nil {
		b.logger.Warn("Cannot begin edit",
			zap.Int64("chat_id", chatID),
			zap.String("field", string(field)),
			zap.Error(err))
		b.sendError(chatID, "ویرایش ممکن نیست. ابتدا با /start ثبت‌نام کنید.")
		return
	}

	if err := b.sessions.Save(ctx, chatID, rc); err != nil {
		b.logger.Error("Failed to save session",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
	b.promptEditValue(chatID, rc)
}

func (b *Bot) sendRegistrationSummary(ctx context.Context, chatID int64) {
	record, err := b.storage.Get(ctx, chatID)
	if err != nil {
		b.logger.Error("Failed to load record for summary",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		return
	}

	msg := tgbotapi.NewMessage(chatID,
		"🎉 ثبت‌نام شما تکمیل شد!\n\n"+formatRecord(record)+
			"\n\nبرای ویرایش هر بخش از /edit استفاده کنید.")
	b.sendMessage(msg)
}

func formatFields(fields map[validation.Field]string) string {
	return fmt.Sprintf(
		"👤 نام: %s %s\n"+
			"🎓 پایه: %s\n"+
			"📚 رشته: %s\n"+
			"🗺 استان: %s\n"+
			"🏙 شهر: %s\n"+
			"📱 تلفن: %s",
		fields[validation.FieldFirstName],
		fields[validation.FieldLastName],
		fields[validation.FieldGrade],
		fields[validation.FieldMajor],
		fields[validation.FieldProvince],
		fields[validation.FieldCity],
		fields[validation.FieldPhone],
	)
}

func formatRecord(record *storage.StudentRecord) string {
	return fmt.Sprintf(
		"👤 نام: %s %s\n"+
			"🎓 پایه: %s\n"+
			"📚 رشته: %s\n"+
			"🗺 استان: %s\n"+
			"🏙 شهر: %s\n"+
			"📱 تلفن: %s\n"+
			"💳 وضعیت پرداخت: %s",
		record.FirstName,
		record.LastName,
		record.Grade,
		record.Major,
		record.Province,
		record.City,
		record.Phone,
		paymentStatusTitle(record.PaymentStatus),
	)
}

func paymentStatusTitle(status storage.PaymentStatus) string {
	switch status {
	case storage.PaymentPending:
		return "در انتظار تایید"
	case storage.PaymentApproved:
		return "تایید شده ✅"
	case storage.PaymentRejected:
		return "رد شده ❌"
	default:
		return "نامشخص"
	}
}
