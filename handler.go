package main

import (
	"context"
	"log"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/ad/telegram-uz-translit/store"
	"github.com/ad/telegram-uz-translit/translit"
)

// maxMessageLength is the Bot API limit for message text, in characters.
const maxMessageLength = 4096

const (
	noUserText      = "Kechirasiz, foydalanuvchi ID raqamingizni aniqlay olmadim."
	welcomeText     = "Assalomu alaykum! 👋 Konvertatsiya rejimini tanlang:"
	chooseAgainText = "Yangi rejimni tanlang:"
	chooseFirstText = "Iltimos, avval konvertatsiya rejimini tanlang:"
	needStartText   = "Iltimos, rejimni tanlash uchun /start buyrug'ini yuboring!"
	readyText       = "Endi menga istalgan matnni yuborishingiz mumkin!"
	errorText       = "Kechirasiz, xatolik yuz berdi. Iltimos, qaytadan urinib ko'ring."
	convertErrText  = "Kechirasiz, matningizni konvertatsiya qilishda xatolik yuz berdi. Iltimos, qaytadan urinib ko'ring."
	modeErrText     = "Rejimni saqlashda xatolik. Iltimos, qaytadan urinib ko'ring."
	helpText        = "Buyruqlar:\n/start - botni ishga tushirish\n/mode - joriy rejim va uni o'zgartirish\n/help - yordam\n\nInline rejim: istalgan chatda bot nomini va matnni yozing."
	inlineHelpTitle = "So'zni kiriting"
	inlineHelpText  = "Lotin ↔️ Кирилл o'girish uchun so'z yozing"
)

type handler struct {
	store store.Store
	opts  []translit.Option
}

func (h *handler) handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	switch {
	case update.InlineQuery != nil:
		h.inlineQuery(ctx, b, update.InlineQuery)
	case update.CallbackQuery != nil:
		h.callbackQuery(ctx, b, update.CallbackQuery)
	case update.Message != nil && update.Message.Text != "":
		h.message(ctx, b, update.Message)
	}
}

func (h *handler) message(ctx context.Context, b *bot.Bot, msg *models.Message) {
	text := strings.TrimSpace(msg.Text)

	switch command(text) {
	case "/start":
		h.start(ctx, b, msg)
	case "/mode":
		h.mode(ctx, b, msg)
	case "/help":
		h.send(ctx, b, msg.Chat.ID, helpText, nil)
	case "":
		if isToggle(text) {
			h.toggle(ctx, b, msg)

			return
		}

		h.convert(ctx, b, msg)
	}
}

// command returns the command at the start of text without a @botname
// suffix, or "" when text is not a command.
func command(text string) string {
	if !strings.HasPrefix(text, "/") {
		return ""
	}

	cmd, _, _ := strings.Cut(text, " ")
	cmd, _, _ = strings.Cut(cmd, "\n")
	cmd, _, _ = strings.Cut(cmd, "@")

	return strings.ToLower(cmd)
}

func userID(msg *models.Message) int64 {
	if msg.From == nil {
		return 0
	}

	return msg.From.ID
}

func (h *handler) start(ctx context.Context, b *bot.Bot, msg *models.Message) {
	id := userID(msg)
	if id == 0 {
		h.send(ctx, b, msg.Chat.ID, noUserText, nil)

		return
	}

	mode, err := h.store.Get(ctx, id)
	if err != nil {
		log.Printf("error on get mode for %d: %s\n", id, err.Error())
		h.send(ctx, b, msg.Chat.ID, errorText, nil)

		return
	}

	text := welcomeText
	if mode.Valid() {
		text = chooseAgainText
	}

	h.send(ctx, b, msg.Chat.ID, text, modeKeyboard())
}

func (h *handler) mode(ctx context.Context, b *bot.Bot, msg *models.Message) {
	mode, err := h.store.Get(ctx, userID(msg))
	if err != nil {
		log.Printf("error on get mode for %d: %s\n", userID(msg), err.Error())
		h.send(ctx, b, msg.Chat.ID, errorText, nil)

		return
	}

	h.send(ctx, b, msg.Chat.ID, "Joriy rejim: "+modeLabel(mode)+"\nO'zgartirish uchun tanlang:", modeKeyboard())
}

func (h *handler) toggle(ctx context.Context, b *bot.Bot, msg *models.Message) {
	id := userID(msg)
	if id == 0 {
		h.send(ctx, b, msg.Chat.ID, noUserText, nil)

		return
	}

	mode, err := h.store.Get(ctx, id)
	if err != nil {
		log.Printf("error on get mode for %d: %s\n", id, err.Error())
		h.send(ctx, b, msg.Chat.ID, errorText, nil)

		return
	}

	if !mode.Valid() {
		h.send(ctx, b, msg.Chat.ID, needStartText, nil)

		return
	}

	mode = mode.Toggle()
	if err := h.store.Set(ctx, id, mode); err != nil {
		log.Printf("error on set mode for %d: %s\n", id, err.Error())
		h.send(ctx, b, msg.Chat.ID, modeErrText, nil)

		return
	}

	h.send(ctx, b, msg.Chat.ID, "Rejim o'zgartirildi: "+modeLabel(mode)+" ✅\n"+readyText, toggleKeyboard(mode))
}

func (h *handler) convert(ctx context.Context, b *bot.Bot, msg *models.Message) {
	mode, err := h.store.Get(ctx, userID(msg))
	if err != nil {
		log.Printf("error on get mode for %d: %s\n", userID(msg), err.Error())
		h.send(ctx, b, msg.Chat.ID, convertErrText, nil)

		return
	}

	if !mode.Valid() {
		h.send(ctx, b, msg.Chat.ID, chooseFirstText, modeKeyboard())

		return
	}

	converted := translit.Convert(mode.Direction(), msg.Text, h.opts...)
	for _, part := range splitMessage(converted, maxMessageLength) {
		h.send(ctx, b, msg.Chat.ID, part, nil)
	}
}

func (h *handler) callbackQuery(ctx context.Context, b *bot.Bot, query *models.CallbackQuery) {
	mode, err := parseCallback(query.Data)
	if err != nil {
		log.Printf("callback %q from %d: %s\n", query.Data, query.From.ID, err.Error())
		h.answer(ctx, b, query.ID, errorText)

		return
	}

	if err := h.store.Set(ctx, query.From.ID, mode); err != nil {
		log.Printf("error on set mode for %d: %s\n", query.From.ID, err.Error())
		h.answer(ctx, b, query.ID, modeErrText)

		return
	}

	h.answer(ctx, b, query.ID, "")
	h.send(ctx, b, query.From.ID, modeLabel(mode)+" rejimi tanlandi ✅\n"+readyText, toggleKeyboard(mode))
}

func (h *handler) inlineQuery(ctx context.Context, b *bot.Bot, query *models.InlineQuery) {
	text := strings.TrimSpace(query.Query)

	var results []models.InlineQueryResult
	if text == "" {
		results = []models.InlineQueryResult{
			&models.InlineQueryResultArticle{
				ID:                  "help",
				Title:               inlineHelpTitle,
				Description:         inlineHelpText,
				InputMessageContent: &models.InputTextMessageContent{MessageText: inlineHelpText},
			},
		}
	} else {
		latin := translit.Convert(translit.CyrillicToLatin, text, h.opts...)
		cyrillic := translit.Convert(translit.LatinToCyrillic, text, h.opts...)

		results = []models.InlineQueryResult{
			&models.InlineQueryResultArticle{
				ID:                  "latin",
				Title:               "Lotin 🔄",
				Description:         latin,
				InputMessageContent: &models.InputTextMessageContent{MessageText: latin},
				ReplyMarkup:         againKeyboard("Yana o'girish", text),
			},
			&models.InlineQueryResultArticle{
				ID:                  "cyrillic",
				Title:               "Кирилл 🔄",
				Description:         cyrillic,
				InputMessageContent: &models.InputTextMessageContent{MessageText: cyrillic},
				ReplyMarkup:         againKeyboard("Яна ўгириш", text),
			},
		}
	}

	if _, err := b.AnswerInlineQuery(ctx, &bot.AnswerInlineQueryParams{
		InlineQueryID: query.ID,
		Results:       results,
	}); err != nil {
		log.Printf("error on answer inline query %s\n", err.Error())
	}
}

func (h *handler) send(ctx context.Context, b *bot.Bot, chatID int64, text string, markup models.ReplyMarkup) {
	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}
	if markup != nil {
		params.ReplyMarkup = markup
	}

	if _, err := b.SendMessage(ctx, params); err != nil {
		log.Printf("error on send message to %d: %s\n", chatID, err.Error())
	}
}

func (h *handler) answer(ctx context.Context, b *bot.Bot, id, text string) {
	if _, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: id,
		Text:            text,
	}); err != nil {
		log.Printf("error on answer callback query %s\n", err.Error())
	}
}
