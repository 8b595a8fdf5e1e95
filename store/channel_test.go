package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	pinned  *models.Message
	nextID  int
	sent    int
	edits   int
	pins    int
	failAll error
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{nextID: 10}
}

func (f *fakeChannel) GetChat(_ context.Context, params *bot.GetChatParams) (*models.ChatFullInfo, error) {
	if f.failAll != nil {
		return nil, f.failAll
	}

	return &models.ChatFullInfo{ID: params.ChatID.(int64), PinnedMessage: f.pinned}, nil
}

func (f *fakeChannel) SendMessage(_ context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	if f.failAll != nil {
		return nil, f.failAll
	}

	f.sent++
	f.nextID++

	return &models.Message{ID: f.nextID, Text: params.Text}, nil
}

func (f *fakeChannel) EditMessageText(_ context.Context, params *bot.EditMessageTextParams) (*models.Message, error) {
	if f.failAll != nil {
		return nil, f.failAll
	}

	f.edits++
	f.pinned = &models.Message{ID: params.MessageID, Text: params.Text}

	return f.pinned, nil
}

func (f *fakeChannel) PinChatMessage(_ context.Context, params *bot.PinChatMessageParams) (bool, error) {
	if f.failAll != nil {
		return false, f.failAll
	}

	f.pins++
	f.pinned = &models.Message{ID: params.MessageID}

	return true, nil
}

func Test_Channel(t *testing.T) {
	api := newFakeChannel()

	c, err := OpenChannel(context.Background(), api, -1001)
	require.NoError(t, err)
	exercise(t, c)

	assert.Equal(t, 1, api.sent, "first write sends a new message")
	assert.Equal(t, 1, api.pins)
	assert.Equal(t, 2, api.edits, "later writes edit it")
}

func Test_Channel_loadsPinned(t *testing.T) {
	api := newFakeChannel()
	api.pinned = &models.Message{ID: 5, Text: `{"42":"CYRILLIC_TO_LATIN"}`}

	c, err := OpenChannel(context.Background(), api, -1001)
	require.NoError(t, err)

	mode, err := c.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, CyrillicToLatin, mode)

	require.NoError(t, c.Set(context.Background(), 42, CyrillicToLatin))
	require.NoError(t, c.Set(context.Background(), 43, LatinToCyrillic))
	assert.Equal(t, 0, api.sent)
	assert.Equal(t, 2, api.edits)
	assert.Contains(t, api.pinned.Text, `"43": "LATIN_TO_CYRILLIC"`)
}

func Test_Channel_foreignPinned(t *testing.T) {
	api := newFakeChannel()
	api.pinned = &models.Message{ID: 5, Text: "Welcome to the channel"}

	c, err := OpenChannel(context.Background(), api, -1001)
	require.NoError(t, err)

	require.NoError(t, c.Set(context.Background(), 1, LatinToCyrillic))
	assert.Equal(t, 1, api.sent, "a pinned message that is not a mode list is left alone")
}

func Test_Channel_errors(t *testing.T) {
	_, err := OpenChannel(context.Background(), nil, -1001)
	assert.Error(t, err)

	_, err = OpenChannel(context.Background(), newFakeChannel(), 0)
	assert.Error(t, err)

	api := newFakeChannel()
	api.failAll = errors.New("bad gateway")
	_, err = OpenChannel(context.Background(), api, -1001)
	assert.ErrorContains(t, err, "bad gateway")

	api = newFakeChannel()
	c, err := OpenChannel(context.Background(), api, -1001)
	require.NoError(t, err)

	api.failAll = errors.New("bad gateway")
	assert.Error(t, c.Set(context.Background(), 9, LatinToCyrillic))

	mode, err := c.Get(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, ModeUnset, mode, "failed write is rolled back")
}

func Test_Channel_render(t *testing.T) {
	c := &Channel{modes: map[int64]Mode{}}

	c.modes[1] = LatinToCyrillic
	text, err := c.render()
	require.NoError(t, err)
	assert.True(t, strings.Contains(text, "\n"), "small lists stay indented")
}

func Test_Channel_renderLarge(t *testing.T) {
	c, err := OpenChannel(context.Background(), newFakeChannel(), -1001)
	require.NoError(t, err)

	for i := int64(0); i < 130; i++ {
		c.modes[1000000+i] = CyrillicToLatin
	}
	text, err := c.render()
	require.NoError(t, err)
	assert.False(t, strings.Contains(text, "\n"), "large lists are minified to fit")

	for i := int64(0); i < 200; i++ {
		c.modes[2000000+i] = CyrillicToLatin
	}
	_, err = c.render()
	assert.ErrorIs(t, err, ErrTooLarge)
}
