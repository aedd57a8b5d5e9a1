package telegram

import (
	"context"
	"fmt"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"nftrelay/internal/config"
	"nftrelay/internal/constants"
	"nftrelay/internal/logger"
	"nftrelay/internal/notifier"
	apperrors "nftrelay/pkg/errors"
)

// Client is the Telegram Notifier. Its Send methods do not pace themselves:
// callers either wait on Pacer first or go through Paced.
type Client struct {
	bot         *bot.Bot
	throttle    *notifier.Throttle
	sendTimeout time.Duration
	logger      logger.Logger
}

// New opens the bot session. bot.New calls getMe, so an invalid token fails
// here rather than on the first send.
func New(cfg config.TelegramConfig, log logger.Logger, opts ...bot.Option) (*Client, error) {
	b, err := bot.New(cfg.Token, opts...)
	if err != nil {
		return nil, fmt.Errorf("telegram session: %w", err)
	}

	timeout := cfg.SendTimeout
	if timeout <= 0 {
		timeout = constants.DefaultDispatchTimeout
	}

	return &Client{
		bot:         b,
		throttle:    notifier.NewThrottle(throttleConfig(cfg)),
		sendTimeout: timeout,
		logger:      log,
	}, nil
}

func throttleConfig(cfg config.TelegramConfig) notifier.ThrottleConfig {
	tc := notifier.ThrottleConfig{
		RPS:          cfg.RateLimitRPS,
		Burst:        cfg.Burst,
		PerChatRPS:   cfg.PerChatRPS,
		PerChatBurst: cfg.PerChatBurst,
	}
	if tc.RPS <= 0 {
		tc.RPS = constants.DefaultTelegramRateLimitRPS
	}
	if tc.Burst <= 0 {
		tc.Burst = constants.DefaultTelegramRateLimitBurst
	}
	if tc.PerChatRPS <= 0 {
		tc.PerChatRPS = constants.DefaultTelegramPerChatRPS
	}
	if tc.PerChatBurst <= 0 {
		tc.PerChatBurst = constants.DefaultTelegramPerChatBurst
	}
	return tc
}

// Pacer enforces the global and per-chat flood limits shared by alerts and
// command replies.
func (c *Client) Pacer() notifier.Pacer {
	return c.throttle
}

// Paced is the Client behind its own Pacer.
func (c *Client) Paced() notifier.Notifier {
	return notifier.NewPaced(c, c.throttle)
}

// Start receives updates by long polling until ctx is done.
func (c *Client) Start(ctx context.Context) error {
	c.logger.Infow("Telegram long polling started")
	c.bot.Start(ctx)
	return nil
}

func (c *Client) SendText(ctx context.Context, destination, text string, format notifier.Format) error {
	ctx, cancel := context.WithTimeout(ctx, c.sendTimeout)
	defer cancel()

	_, err := c.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    destination,
		Text:      text,
		ParseMode: parseMode(format),
	})
	if err != nil {
		return apperrors.ErrDispatch.WithCause(err).WithDetail("destination", destination)
	}
	return nil
}

func (c *Client) SendPhoto(ctx context.Context, destination, imageURL, caption string, format notifier.Format) error {
	ctx, cancel := context.WithTimeout(ctx, c.sendTimeout)
	defer cancel()

	_, err := c.bot.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:    destination,
		Photo:     &models.InputFileString{Data: imageURL},
		Caption:   caption,
		ParseMode: parseMode(format),
	})
	if err != nil {
		return apperrors.ErrDispatch.WithCause(err).WithDetail("destination", destination)
	}
	return nil
}

func parseMode(format notifier.Format) models.ParseMode {
	if format == notifier.FormatRich {
		return models.ParseModeHTML
	}
	return ""
}
