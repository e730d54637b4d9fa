package telegram

import (
	"github.com/go-telegram/bot/models"

	"github.com/GRIBbI/telegram-assistant-bot/internal/config"
)

// MainMenuKeyboard renders the persistent action menu.
func MainMenuKeyboard(buttons config.ButtonsConfig) *models.ReplyKeyboardMarkup {
	return &models.ReplyKeyboardMarkup{
		Keyboard: [][]models.KeyboardButton{
			{{Text: buttons.AddTask}, {Text: buttons.ListTasks}},
			{{Text: buttons.DeleteTask}, {Text: buttons.ClearAll}},
			{{Text: buttons.Assistant}},
		},
		ResizeKeyboard: true,
	}
}

// SkipKeyboard renders the single skip button shown during the description step.
func SkipKeyboard(buttons config.ButtonsConfig) *models.ReplyKeyboardMarkup {
	return &models.ReplyKeyboardMarkup{
		Keyboard: [][]models.KeyboardButton{
			{{Text: buttons.Skip}},
		},
		ResizeKeyboard:  true,
		OneTimeKeyboard: true,
	}
}

// ConfirmKeyboard renders the yes/no deletion confirmation buttons.
func ConfirmKeyboard(buttons config.ButtonsConfig) *models.ReplyKeyboardMarkup {
	return &models.ReplyKeyboardMarkup{
		Keyboard: [][]models.KeyboardButton{
			{{Text: buttons.Yes}, {Text: buttons.No}},
		},
		ResizeKeyboard:  true,
		OneTimeKeyboard: true,
	}
}
