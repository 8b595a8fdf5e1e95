package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/sony/gobreaker"
	"github.com/tdewolff/minify/v2"
	mjson "github.com/tdewolff/minify/v2/json"
)

// maxMessageLength is the Bot API limit for message text, in characters.
const maxMessageLength = 4096

// ChannelAPI is the part of *bot.Bot the channel store talks to.
type ChannelAPI interface {
	GetChat(ctx context.Context, params *bot.GetChatParams) (*models.ChatFullInfo, error)
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	EditMessageText(ctx context.Context, params *bot.EditMessageTextParams) (*models.Message, error)
	PinChatMessage(ctx context.Context, params *bot.PinChatMessageParams) (bool, error)
}

// Channel keeps all modes as JSON in the pinned message of a Telegram
// channel the bot administers. Reads are served from memory.
type Channel struct {
	api     ChannelAPI
	chatID  int64
	breaker *gobreaker.CircuitBreaker
	min     *minify.M

	mu        sync.Mutex
	modes     map[int64]Mode
	messageID int
	text      string
}

func OpenChannel(ctx context.Context, api ChannelAPI, chatID int64) (*Channel, error) {
	if api == nil {
		return nil, errors.New("nil channel api")
	}
	if chatID == 0 {
		return nil, errors.New("empty channel id")
	}

	m := minify.New()
	m.AddFunc("application/json", mjson.Minify)

	c := &Channel{
		api:    api,
		chatID: chatID,
		min:    m,
		modes:  map[int64]Mode{},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    fmt.Sprintf("channel %d", chatID),
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Printf("%s: circuit %s -> %s\n", name, from, to)
			},
		}),
	}

	if err := c.load(ctx); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Channel) load(ctx context.Context) error {
	res, err := c.breaker.Execute(func() (interface{}, error) {
		return c.api.GetChat(ctx, &bot.GetChatParams{ChatID: c.chatID})
	})
	if err != nil {
		return fmt.Errorf("get channel %d: %w", c.chatID, err)
	}

	chat, _ := res.(*models.ChatFullInfo)
	if chat == nil || chat.PinnedMessage == nil {
		return nil
	}

	modes, err := decodeModes([]byte(chat.PinnedMessage.Text))
	if err != nil {
		log.Printf("pinned message %d in channel %d is not a mode list: %s\n", chat.PinnedMessage.ID, c.chatID, err)

		return nil
	}

	c.modes = modes
	c.messageID = chat.PinnedMessage.ID
	c.text = chat.PinnedMessage.Text

	return nil
}

func (c *Channel) Get(_ context.Context, userID int64) (Mode, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.modes[userID], nil
}

func (c *Channel) Set(ctx context.Context, userID int64, mode Mode) error {
	if err := checkMode(mode); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	prev, had := c.modes[userID]
	c.modes[userID] = mode

	if err := c.save(ctx); err != nil {
		if had {
			c.modes[userID] = prev
		} else {
			delete(c.modes, userID)
		}

		return err
	}

	return nil
}

func (c *Channel) Close() error {
	return nil
}

// render returns the indented JSON when it fits in one message and the
// minified form otherwise.
func (c *Channel) render() (string, error) {
	data, err := json.MarshalIndent(encodeModes(c.modes), "", "  ")
	if err != nil {
		return "", err
	}

	if utf8.RuneCount(data) <= maxMessageLength {
		return string(data), nil
	}

	data, err = c.min.Bytes("application/json", data)
	if err != nil {
		return "", err
	}

	if utf8.RuneCount(data) > maxMessageLength {
		return "", fmt.Errorf("%w: %d users", ErrTooLarge, len(c.modes))
	}

	return string(data), nil
}

func (c *Channel) save(ctx context.Context) error {
	text, err := c.render()
	if err != nil {
		return err
	}

	if text == c.text && c.messageID != 0 {
		return nil
	}

	if c.messageID != 0 {
		_, err = c.breaker.Execute(func() (interface{}, error) {
			return c.api.EditMessageText(ctx, &bot.EditMessageTextParams{
				ChatID:    c.chatID,
				MessageID: c.messageID,
				Text:      text,
			})
		})
		if err != nil {
			return fmt.Errorf("edit message %d in channel %d: %w", c.messageID, c.chatID, err)
		}

		c.text = text

		return nil
	}

	res, err := c.breaker.Execute(func() (interface{}, error) {
		return c.api.SendMessage(ctx, &bot.SendMessageParams{ChatID: c.chatID, Text: text})
	})
	if err != nil {
		return fmt.Errorf("send message to channel %d: %w", c.chatID, err)
	}

	msg, _ := res.(*models.Message)
	if msg == nil {
		return fmt.Errorf("send message to channel %d: empty result", c.chatID)
	}

	c.messageID = msg.ID
	c.text = text

	_, err = c.breaker.Execute(func() (interface{}, error) {
		return c.api.PinChatMessage(ctx, &bot.PinChatMessageParams{
			ChatID:              c.chatID,
			MessageID:           msg.ID,
			DisableNotification: true,
		})
	})
	if err != nil {
		log.Printf("failed to pin message %d in channel %d: %s\n", msg.ID, c.chatID, err)
	}

	return nil
}
