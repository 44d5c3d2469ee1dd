package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}

// serve runs the Telegram keypad bot until SIGINT or SIGTERM.
func serve(config *BotConfig, logger *log.Logger) error {
	bot, err := LoadBot(config, logger)
	if err != nil {
		logger.Printf("failed to connect telegram, error: %v\n", err)
		return err
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	go func() {
		logger.Println("starting telegram bot")
		if err := bot.Run(); !errors.Is(err, ErrClosed) {
			logger.Printf("failed to start telegram bot, error: %s\n", err)
		}
		quit <- os.Interrupt
	}()

	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()

	logger.Println("stopping telegram bot")
	if err := bot.Shutdown(ctx); err != nil && !errors.Is(err, ErrClosed) {
		logger.Printf("failed to graceful shutdown telegram bot, error: %s\n", err)
		return err
	}
	logger.Println("telegram bot stopped")
	return nil
}
