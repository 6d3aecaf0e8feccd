package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"mathclass-bot/internal/storage"
	"mathclass-bot/internal/validation"
)

func (b *Bot) handleAdminCommand(ctx context.Context, chatID int64, cmd, args string) {
	if !b.isAdmin(chatID) {
		return
	}

	switch cmd {
	case "broadcast":
		b.handleBroadcast(ctx, chatID, args)
	case "approve":
		b.handlePaymentDecision(ctx, chatID, args, storage.PaymentApproved)
	case "reject":
		b.handlePaymentDecision(ctx, chatID, args, storage.PaymentRejected)
	case "export":
		b.handleExport(ctx, chatID)
	case "stats":
		b.handleStats(ctx, chatID)
	}
}

func (b *Bot) handleBroadcast(ctx context.Context, chatID int64, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		b.sendError(chatID, "استفاده: /broadcast <متن پیام>")
		return
	}

	records, err := b.storage.List(ctx)
	if err != nil {
		b.logger.Error("Failed to list records for broadcast", zap.Error(err))
		b.sendError(chatID, "خطا در خواندن فهرست کاربران")
		return
	}

	sent, failed := 0, 0
	for _, record := range records {
		msg := tgbotapi.NewMessage(record.UserID, "📢 "+text)
		if _, err := b.bot.Send(msg); err != nil {
			failed++
			b.logger.Warn("Broadcast delivery failed",
				zap.Int64("user_id", record.UserID),
				zap.Error(err))
			continue
		}
		sent++
	}

	b.sendMessage(tgbotapi.NewMessage(chatID, fmt.Sprintf(
		"📢 پیام همگانی ارسال شد.\nموفق: %d\nناموفق: %d", sent, failed)))
}

func (b *Bot) handlePaymentDecision(ctx context.Context, chatID int64, args string, status storage.PaymentStatus) {
	userID, err := strconv.ParseInt(strings.TrimSpace(args), 10, 64)
	if err != nil {
		b.sendError(chatID, fmt.Sprintf("استفاده: /%s <شناسه کاربر>", commandFor(status)))
		return
	}

	err = b.storage.UpdateField(ctx, userID, validation.FieldPaymentStatus, string(status))
	if errors.Is(err, storage.ErrNotFound) {
		b.sendError(chatID, "کاربری با این شناسه ثبت‌نام نکرده است.")
		return
	}
	if err != nil {
		b.logger.Error("Failed to update payment status",
			zap.Int64("user_id", userID),
			zap.String("status", string(status)),
			zap.Error(err))
		b.sendError(chatID, "خطا در به‌روزرسانی وضعیت پرداخت")
		return
	}

	b.sendMessage(tgbotapi.NewMessage(chatID, fmt.Sprintf(
		"✅ وضعیت پرداخت کاربر %d به «%s» تغییر کرد.", userID, paymentStatusTitle(status))))

	b.notifyUserPaymentDecision(userID, status)
}

func commandFor(status storage.PaymentStatus) string {
	if status == storage.PaymentApproved {
		return "approve"
	}
	return "reject"
}

func (b *Bot) handleExport(ctx context.Context, chatID int64) {
	path, err := b.storage.ExportAllStudentsToExcel(ctx)
	if err != nil {
		b.logger.Error("Failed to export students", zap.Error(err))
		b.sendError(chatID, "خطا در تهیه فایل خروجی")
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))
	doc.Caption = "📊 خروجی ثبت‌نام‌ها"
	if _, err := b.bot.Send(doc); err != nil {
		b.logger.Error("Failed to send Excel file", zap.Error(err))
		b.sendError(chatID, "خطا در ارسال فایل خروجی")
	}
}

func (b *Bot) handleStats(ctx context.Context, chatID int64) {
	records, err := b.storage.List(ctx)
	if err != nil {
		b.logger.Error("Failed to list records for stats", zap.Error(err))
		b.sendError(chatID, "خطا در خواندن آمار")
		return
	}

	gradeCounts := make(map[string]int)
	statusCounts := make(map[storage.PaymentStatus]int)
	for _, record := range records {
		gradeCounts[record.Grade]++
		statusCounts[record.PaymentStatus]++
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 آمار ثبت‌نام\n\n📌 کل ثبت‌نام‌ها: %d\n\n🎓 بر اساس پایه:\n", len(records))
	for _, grade := range validation.Grades {
		fmt.Fprintf(&sb, "- %s: %d\n", grade, gradeCounts[grade])
	}
	fmt.Fprintf(&sb, "\n💳 وضعیت پرداخت:\n")
	for _, status := range []storage.PaymentStatus{
		storage.PaymentPending, storage.PaymentApproved, storage.PaymentRejected,
	} {
		fmt.Fprintf(&sb, "- %s: %d\n", paymentStatusTitle(status), statusCounts[status])
	}

	b.sendMessage(tgbotapi.NewMessage(chatID, sb.String()))
}
