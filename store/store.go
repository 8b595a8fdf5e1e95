// Package store keeps the conversion mode each Telegram user picked.
//
// All backends satisfy Store. Unknown users read as ModeUnset with a nil
// error; only I/O failures are reported.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/ad/telegram-uz-translit/translit"
)

var (
	ErrUnknownKind = errors.New("unknown storage kind")
	ErrInvalidMode = errors.New("invalid mode")
	ErrTooLarge    = errors.New("stored modes exceed message limit")
)

// Mode is the conversion direction a user selected. The string values are
// the ones written by earlier versions of the bot.
type Mode string

const (
	ModeUnset       Mode = ""
	LatinToCyrillic Mode = "LATIN_TO_CYRILLIC"
	CyrillicToLatin Mode = "CYRILLIC_TO_LATIN"
)

func (m Mode) Valid() bool {
	return m == LatinToCyrillic || m == CyrillicToLatin
}

// Toggle returns the opposite direction. ModeUnset stays unset.
func (m Mode) Toggle() Mode {
	switch m {
	case LatinToCyrillic:
		return CyrillicToLatin
	case CyrillicToLatin:
		return LatinToCyrillic
	}

	return ModeUnset
}

func (m Mode) Direction() translit.Direction {
	switch m {
	case LatinToCyrillic:
		return translit.LatinToCyrillic
	case CyrillicToLatin:
		return translit.CyrillicToLatin
	}

	return 0
}

// ParseMode accepts the stored names and the short callback forms lc and cl.
func ParseMode(s string) (Mode, error) {
	switch s {
	case string(LatinToCyrillic), "lc":
		return LatinToCyrillic, nil
	case string(CyrillicToLatin), "cl":
		return CyrillicToLatin, nil
	}

	return ModeUnset, fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// Store persists modes by Telegram user id.
type Store interface {
	Get(ctx context.Context, userID int64) (Mode, error)
	Set(ctx context.Context, userID int64, mode Mode) error
	Close() error
}

// Kind names a storage backend.
type Kind string

const (
	KindMemory  Kind = "memory"
	KindFile    Kind = "file"
	KindSQLite  Kind = "sqlite"
	KindChannel Kind = "channel"
)

// Config selects and parameterizes a backend for Open.
type Config struct {
	Kind Kind
	// Path is the JSON file for KindFile and the database file for KindSQLite.
	Path string
	// ChannelID and API are used by KindChannel.
	ChannelID int64
	API       ChannelAPI
}

// Open creates the configured backend wrapped in a session cache.
func Open(ctx context.Context, cfg Config) (Store, error) {
	var (
		s   Store
		err error
	)

	switch cfg.Kind {
	case KindMemory, "":
		return NewMemory(), nil
	case KindFile:
		s, err = OpenFile(cfg.Path)
	case KindSQLite:
		s, err = OpenSQLite(ctx, cfg.Path)
	case KindChannel:
		s, err = OpenChannel(ctx, cfg.API, cfg.ChannelID)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, cfg.Kind)
	}

	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Kind, err)
	}

	return NewCached(s), nil
}

func checkMode(mode Mode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}

	return nil
}
