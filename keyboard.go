package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-telegram/bot/models"

	"github.com/ad/telegram-uz-translit/store"
)

// callbackDataLimit is the Bot API limit for callback_data, in bytes.
const callbackDataLimit = 64

const (
	callbackSet = "set"

	legacyLatinToCyrillic = "set_lc"
	legacyCyrillicToLatin = "set_cl"
)

var errInvalidCallback = errors.New("invalid callback data")

type callbackPayload struct {
	Command string `json:"c"`
	Mode    string `json:"m,omitempty"`
}

func modeLabel(mode store.Mode) string {
	switch mode {
	case store.LatinToCyrillic:
		return "Lotin → Kirill"
	case store.CyrillicToLatin:
		return "Kirill → Lotin"
	}

	return "Tanlanmagan"
}

func shortMode(mode store.Mode) string {
	if mode == store.CyrillicToLatin {
		return "cl"
	}

	return "lc"
}

func callbackData(mode store.Mode) string {
	data, err := json.Marshal(callbackPayload{Command: callbackSet, Mode: shortMode(mode)})
	if err != nil {
		return legacyCallbackData(mode)
	}

	if !checkStringLimit(string(data), callbackDataLimit) {
		return legacyCallbackData(mode)
	}

	return string(data)
}

func legacyCallbackData(mode store.Mode) string {
	if mode == store.CyrillicToLatin {
		return legacyCyrillicToLatin
	}

	return legacyLatinToCyrillic
}

// parseCallback accepts the JSON payload and the plain set_lc / set_cl data
// of keyboards sent by earlier versions.
func parseCallback(data string) (store.Mode, error) {
	switch data {
	case legacyLatinToCyrillic:
		return store.LatinToCyrillic, nil
	case legacyCyrillicToLatin:
		return store.CyrillicToLatin, nil
	}

	payload := callbackPayload{}
	if err := json.Unmarshal([]byte(data), &payload); err != nil {
		return store.ModeUnset, fmt.Errorf("%w: %s", errInvalidCallback, err)
	}

	if payload.Command != callbackSet {
		return store.ModeUnset, fmt.Errorf("%w: command %q", errInvalidCallback, payload.Command)
	}

	mode, err := store.ParseMode(payload.Mode)
	if err != nil {
		return store.ModeUnset, fmt.Errorf("%w: %s", errInvalidCallback, err)
	}

	return mode, nil
}

func modeKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: modeLabel(store.LatinToCyrillic), CallbackData: callbackData(store.LatinToCyrillic)},
				{Text: modeLabel(store.CyrillicToLatin), CallbackData: callbackData(store.CyrillicToLatin)},
			},
		},
	}
}

const (
	toggleToLatinText    = "Lotincha yozishga o'tish ⇄"
	toggleToCyrillicText = "Kirillcha yozishga o'tish ⇄"
)

func toggleLabel(mode store.Mode) string {
	if mode == store.CyrillicToLatin {
		return toggleToCyrillicText
	}

	return toggleToLatinText
}

func isToggle(text string) bool {
	return text == toggleToLatinText || text == toggleToCyrillicText
}

func toggleKeyboard(mode store.Mode) *models.ReplyKeyboardMarkup {
	return &models.ReplyKeyboardMarkup{
		Keyboard:       [][]models.KeyboardButton{{{Text: toggleLabel(mode)}}},
		ResizeKeyboard: true,
	}
}

// againKeyboard reopens inline mode with the same query.
func againKeyboard(text, query string) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: text, SwitchInlineQuery: query}},
		},
	}
}

func checkStringLimit(input string, limit int) bool {
	return len(input) <= limit
}

// splitMessage cuts text into chunks of at most limit runes, preferring to
// break after a newline or a space.
func splitMessage(text string, limit int) []string {
	runes := []rune(text)
	if len(runes) <= limit {
		return []string{text}
	}

	var parts []string
	for len(runes) > limit {
		cut := limit
		if i := lastBreak(runes[:limit]); i > 0 {
			cut = i + 1
		}

		parts = append(parts, string(runes[:cut]))
		runes = runes[cut:]
	}

	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}

	return parts
}

func lastBreak(runes []rune) int {
	space := -1
	for i := len(runes) - 1; i >= 0; i-- {
		switch runes[i] {
		case '\n':
			return i
		case ' ':
			if space < 0 {
				space = i
			}
		}
	}

	return space
}
