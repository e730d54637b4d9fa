package telegram

import (
	"strconv"
	"time"

	"github.com/go-telegram/bot/models"
)

var weekdayHeader = []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

// CalendarKeyboard renders an inline month calendar for date selection.
// The first row navigates between months, the second names the weekdays,
// and the grid carries one button per day. Decorative cells answer with a
// noop payload so taps on them never reach the dialogue.
func CalendarKeyboard(month time.Time) *models.InlineKeyboardMarkup {
	firstDay := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	nextMonth := firstDay.AddDate(0, 1, 0)
	prevMonth := firstDay.AddDate(0, -1, 0)
	daysInMonth := nextMonth.Add(-time.Hour).Day()

	rows := [][]models.InlineKeyboardButton{
		{
			{Text: "«", CallbackData: encodeNavPayload(prevMonth)},
			{Text: firstDay.Format("January 2006"), CallbackData: encodeNoopPayload()},
			{Text: "»", CallbackData: encodeNavPayload(nextMonth)},
		},
	}

	header := make([]models.InlineKeyboardButton, 0, len(weekdayHeader))
	for _, wd := range weekdayHeader {
		header = append(header, models.InlineKeyboardButton{Text: wd, CallbackData: encodeNoopPayload()})
	}
	rows = append(rows, header)

	// Monday-first offset of the month's first day.
	offset := (int(firstDay.Weekday()) + 6) % 7

	week := make([]models.InlineKeyboardButton, 0, 7)
	for i := 0; i < offset; i++ {
		week = append(week, models.InlineKeyboardButton{Text: " ", CallbackData: encodeNoopPayload()})
	}
	for day := 1; day <= daysInMonth; day++ {
		date := time.Date(month.Year(), month.Month(), day, 0, 0, 0, 0, month.Location())
		week = append(week, models.InlineKeyboardButton{
			Text:         strconv.Itoa(day),
			CallbackData: encodeDayPayload(date),
		})
		if len(week) == 7 {
			rows = append(rows, week)
			week = make([]models.InlineKeyboardButton, 0, 7)
		}
	}
	if len(week) > 0 {
		for len(week) < 7 {
			week = append(week, models.InlineKeyboardButton{Text: " ", CallbackData: encodeNoopPayload()})
		}
		rows = append(rows, week)
	}

	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// TimeOptionsKeyboard renders the preset time buttons plus a free-text entry
// button, two presets per row.
func TimeOptionsKeyboard(presets []string, customLabel string) *models.InlineKeyboardMarkup {
	var rows [][]models.InlineKeyboardButton

	row := make([]models.InlineKeyboardButton, 0, 2)
	for _, preset := range presets {
		row = append(row, models.InlineKeyboardButton{
			Text:         preset,
			CallbackData: EncodeTimePayload(preset),
		})
		if len(row) == 2 {
			rows = append(rows, row)
			row = make([]models.InlineKeyboardButton, 0, 2)
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	rows = append(rows, []models.InlineKeyboardButton{
		{Text: customLabel, CallbackData: EncodeCustomTimePayload()},
	})

	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}
