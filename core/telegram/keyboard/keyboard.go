// Package keyboard builds telebot markup from plain label and data pairs.
package keyboard

import tele "gopkg.in/telebot.v4"

// Reply builds a persistent reply keyboard from rows of button labels.
func Reply(rows [][]string) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{ResizeKeyboard: true}
	keyboard := make([][]tele.ReplyButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tele.ReplyButton, 0, len(row))
		for _, label := range row {
			buttons = append(buttons, tele.ReplyButton{Text: label})
		}
		keyboard = append(keyboard, buttons)
	}
	markup.ReplyKeyboard = keyboard
	return markup
}

// InlineButton is a label with the callback data it carries.
type InlineButton struct {
	Label string
	Data  string
}

// Inline builds an inline keyboard, one button per row. Callback data is
// attached verbatim so incoming callbacks can be matched by exact value or
// prefix.
func Inline(buttons []InlineButton) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	keyboard := make([][]tele.InlineButton, 0, len(buttons))
	for _, b := range buttons {
		keyboard = append(keyboard, []tele.InlineButton{{Text: b.Label, Data: b.Data}})
	}
	markup.InlineKeyboard = keyboard
	return markup
}
