package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/ad/telegram-uz-translit/store"
)

var commands = []models.BotCommand{
	{Command: "start", Description: "Botni ishga tushirish"},
	{Command: "mode", Description: "Konvertatsiya rejimini o'zgartirish"},
	{Command: "help", Description: "Yordam"},
}

func main() {
	config, err := loadConfig(os.Args[1:], ConfigFileName)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	h := &handler{opts: config.translitOptions()}

	opts := []bot.Option{
		bot.WithDefaultHandler(h.handle),
	}
	if config.Debug {
		opts = append(opts, bot.WithDebug())
	}

	b, err := bot.New(config.Token, opts...)
	if err != nil {
		log.Fatal(err)
	}

	h.store, err = store.Open(ctx, config.storeConfig(b))
	if err != nil {
		log.Fatal(err)
	}
	defer h.store.Close()

	if _, err := b.SetMyCommands(ctx, &bot.SetMyCommandsParams{Commands: commands}); err != nil {
		log.Printf("error on set commands %s\n", err.Error())
	}

	log.Printf("bot started, storage %s\n", config.Storage)

	if config.WebhookURL == "" {
		b.Start(ctx)

		return
	}

	if err := runWebhook(ctx, b, config); err != nil {
		log.Fatal(err)
	}
}

func runWebhook(ctx context.Context, b *bot.Bot, config *Config) error {
	if _, err := b.SetWebhook(ctx, &bot.SetWebhookParams{URL: config.WebhookURL}); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              config.Listen,
		Handler:           postOnly(b.WebhookHandler()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go b.StartWebhook(ctx)

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("error on webhook shutdown %s\n", err.Error())
		}
	}()

	log.Printf("webhook listening on %s\n", config.Listen)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func postOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusMethodNotAllowed)
			_, _ = w.Write([]byte(`{"error":"Method not allowed"}`))

			return
		}

		next.ServeHTTP(w, r)
	})
}
