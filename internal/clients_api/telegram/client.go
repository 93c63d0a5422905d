package telegram

// Telegram transport for publishing the results chart
// Every call goes through a rate limiter and a circuit breaker; API errors
// with 429/5xx codes are retried with backoff

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"nbody-bench/internal/infra/config"
	"nbody-bench/internal/infra/log"
	"nbody-bench/internal/infra/retry"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var ErrNotConfigured = errors.New("telegram bot token and chat id are required")

type Client struct {
	bot            *tgbotapi.BotAPI
	chatID         int64
	channel        string // "@name" chats are addressed by username
	rateLimiter    *rate.Limiter
	circuitBreaker *gobreaker.CircuitBreaker
	retryOpts      retry.Options
}

// NewClient authorizes the bot (getMe). httpClient may be nil.
func NewClient(cfg config.TelegramConfig, httpClient tgbotapi.HTTPClient) (*Client, error) {
	if cfg.BotToken == "" || cfg.ChatID == "" {
		return nil, ErrNotConfigured
	}

	c := &Client{
		retryOpts: retry.Options{
			MaxRetries: cfg.MaxRetries,
			BaseDelay:  500 * time.Millisecond,
			MaxDelay:   30 * time.Second,
		},
	}

	if strings.HasPrefix(cfg.ChatID, "@") {
		c.channel = cfg.ChatID
	} else {
		id, err := strconv.ParseInt(cfg.ChatID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid telegram chat id %q: %w", cfg.ChatID, err)
		}
		c.chatID = id
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	endpoint := cfg.APIEndpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}

	bot, err := tgbotapi.NewBotAPIWithClient(cfg.BotToken, endpoint, httpClient)
	if err != nil {
		return nil, fmt.Errorf("failed to authorize telegram bot: %w", asAPIError(nil, err))
	}
	c.bot = bot

	perSecond := cfg.RateLimit
	if perSecond <= 0 {
		perSecond = 1
	}
	c.rateLimiter = rate.NewLimiter(rate.Limit(perSecond), 1)

	c.circuitBreaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "TelegramAPI",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})

	log.LogInfo("Telegram bot authorized", zap.String("username", bot.Self.UserName))
	return c, nil
}

// BotName username reported by getMe
func (c *Client) BotName() string {
	return c.bot.Self.UserName
}

// SendPhoto uploads the PNG at path with a caption
func (c *Client) SendPhoto(ctx context.Context, path, caption string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("chart not found: %w", err)
	}

	return retry.Do(ctx, c.retryOpts, func() error {
		return c.send(ctx, func() tgbotapi.Chattable {
			var photo tgbotapi.PhotoConfig
			if c.channel != "" {
				photo = tgbotapi.NewPhotoToChannel(c.channel, tgbotapi.FilePath(path))
			} else {
				photo = tgbotapi.NewPhoto(c.chatID, tgbotapi.FilePath(path))
			}
			photo.Caption = caption
			return photo
		}())
	})
}

func (c *Client) send(ctx context.Context, msg tgbotapi.Chattable) error {
	requestID := log.GenerateRequestID()
	startTime := time.Now()

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait failed: %w", err)
	}

	log.LogRequest(requestID, "sendPhoto")

	result, err := c.circuitBreaker.Execute(func() (interface{}, error) {
		return c.bot.Request(msg)
	})
	resp, _ := result.(*tgbotapi.APIResponse)
	err = asAPIError(resp, err)

	log.LogResponse(requestID, "sendPhoto", time.Since(startTime).Milliseconds(), err)
	return err
}

// asAPIError maps Telegram API failures onto retry.APIError so retry.Do sees the code.
// Multipart uploads leave Error.Code unset, the code comes from the response then.
func asAPIError(resp *tgbotapi.APIResponse, err error) error {
	if err == nil {
		return nil
	}
	var tgErr *tgbotapi.Error
	if !errors.As(err, &tgErr) {
		return err
	}
	code := tgErr.Code
	if resp != nil && resp.ErrorCode != 0 {
		code = resp.ErrorCode
	}
	return &retry.APIError{
		Code:        code,
		Description: tgErr.Message,
		RetryAfter:  time.Duration(tgErr.RetryAfter) * time.Second,
	}
}
