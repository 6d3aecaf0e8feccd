package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"mathclass-bot/internal/registration"
	"mathclass-bot/internal/validation"
)

const (
	callbackConfirm = "confirm_registration"
	callbackRestart = "restart_registration"
)

var fieldTitles = map[validation.Field]string{
	validation.FieldFirstName: "نام",
	validation.FieldLastName:  "نام خانوادگی",
	validation.FieldGrade:     "پایه تحصیلی",
	validation.FieldMajor:     "رشته تحصیلی",
	validation.FieldProvince:  "استان",
	validation.FieldCity:      "شهر",
	validation.FieldPhone:     "شماره تلفن",
}

func selectionKeyboard(prefix string, options []string, perRow int) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, option := range options {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(option, prefix+":"+option))
		if len(row) == perRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) createGradeKeyboard() tgbotapi.InlineKeyboardMarkup {
	return selectionKeyboard("grade", validation.Grades, 1)
}

func (b *Bot) createMajorKeyboard() tgbotapi.InlineKeyboardMarkup {
	return selectionKeyboard("major", validation.Majors, 2)
}

func (b *Bot) createProvinceKeyboard() tgbotapi.InlineKeyboardMarkup {
	return selectionKeyboard("province", validation.Provinces, 2)
}

func (b *Bot) createCityKeyboard(province string) tgbotapi.InlineKeyboardMarkup {
	cities := validation.CitiesByProvince[province]
	if len(cities) == 0 {
		cities = []string{"سایر"}
	}
	return selectionKeyboard("city", cities, 2)
}

func (b *Bot) createConfirmationKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("تایید نهایی ✅", callbackConfirm),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("شروع مجدد 🔁", callbackRestart),
		),
	)
}

func (b *Bot) createEditFieldKeyboard() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, field := range registration.EditableFields {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				"✏️ "+fieldTitles[field],
				"edit:"+string(field),
			),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) createContactRequestKeyboard() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButtonContact("📱 ارسال شماره تلفن"),
		),
	)
	keyboard.OneTimeKeyboard = true
	keyboard.ResizeKeyboard = true
	return keyboard
}
