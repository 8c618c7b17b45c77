// Package telegram provides a resilient Bot API client and update poller
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	perr "dutybot/internal/platform/errors"
	"dutybot/internal/platform/logger"
)

const (
	baseURLDefault   = "https://api.telegram.org"
	defaultTimeout   = 40 * time.Second
	defaultMaxRetry  = 4
	defaultRetryBase = 500 * time.Millisecond
	ackEmoji         = "👍"
)

// Options configures the Client
type Options struct {
	BaseURL string
	Token   string
	Timeout time.Duration

	// Retry config for transient and rate limited responses
	MaxRetries int
	RetryBase  time.Duration
}

// Client is a minimal Bot API client with bounded retries
type Client struct {
	http  *http.Client
	opts  Options
	log   logger.Logger
	now   func() time.Time
	sleep func(time.Duration)
}

// NewClient creates a new Client with sane defaults
func NewClient(o Options) (*Client, error) {
	if o.Token == "" {
		return nil, perr.InvalidArgf("telegram token required")
	}
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = defaultMaxRetry
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	return &Client{
		http:  &http.Client{Timeout: o.Timeout},
		opts:  o,
		log:   *logger.Named("telegram"),
		now:   time.Now,
		sleep: time.Sleep,
	}, nil
}

// call posts payload to one Bot API method and decodes the result envelope
func (c *Client) call(ctx context.Context, method string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeJSON, "telegram marshal %s failed", method)
	}
	url := c.opts.BaseURL + "/bot" + c.opts.Token + "/" + method

	attempts := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return perr.Wrapf(err, perr.ErrorCodeUnknown, "telegram new request failed")
		}
		req.Header.Set("Content-Type", "application/json")

		start := c.now()
		resp, err := c.http.Do(req)
		lat := c.now().Sub(start)

		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if !c.shouldRetry(attempts) {
				return perr.Wrapf(err, perr.ErrorCodeUnavailable, "telegram %s failed", method)
			}
			back := c.backoff(attempts)
			c.log.Warn().Dur("retry_in", back).Int("attempt", attempts).Str("method", method).
				Msg("telegram transport error retrying")
			c.sleep(back)
			attempts++
			continue
		}

		env, decodeErr := decodeEnvelope(resp.Body)
		_ = resp.Body.Close()

		c.log.Debug().
			Str("method", method).
			Int("status", resp.StatusCode).
			Int("attempt", attempts).
			Dur("latency", lat).
			Msg("telegram http response")

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			wait := c.backoff(attempts)
			if env != nil && env.Parameters != nil && env.Parameters.RetryAfter > 0 {
				wait = time.Duration(env.Parameters.RetryAfter) * time.Second
			}
			if !c.shouldRetry(attempts) {
				return perr.Transportf("telegram %s rate limited", method)
			}
			c.log.Warn().Dur("sleep", wait).Str("method", method).Msg("telegram rate limited backing off")
			c.sleep(wait)
			attempts++
			continue
		case resp.StatusCode >= 500:
			if !c.shouldRetry(attempts) {
				return perr.Unavailablef("telegram %s server error %d", method, resp.StatusCode)
			}
			back := c.backoff(attempts)
			c.log.Warn().Dur("retry_in", back).Int("attempt", attempts).Str("method", method).
				Msg("telegram transient error retrying")
			c.sleep(back)
			attempts++
			continue
		}

		if decodeErr != nil {
			return decodeErr
		}
		if !env.OK {
			return perr.Transportf("telegram %s: %s", method, env.Description)
		}
		if out != nil && len(env.Result) > 0 {
			if err := json.Unmarshal(env.Result, out); err != nil {
				return perr.Wrapf(err, perr.ErrorCodeJSON, "telegram decode %s result failed", method)
			}
		}
		return nil
	}
}

func decodeEnvelope(r io.Reader) (*apiResponse, error) {
	var env apiResponse
	if err := json.NewDecoder(io.LimitReader(r, 4<<20)).Decode(&env); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeJSON, "telegram decode envelope failed")
	}
	return &env, nil
}

func (c *Client) backoff(attempt int) time.Duration {
	ms := int64(c.opts.RetryBase / time.Millisecond)
	ms = ms << uint(attempt)
	if capMS := int64(30 * time.Second / time.Millisecond); ms > capMS {
		ms = capMS
	}
	return time.Duration(ms) * time.Millisecond
}

func (c *Client) shouldRetry(attempt int) bool {
	return attempt < c.opts.MaxRetries
}

// GetUpdates long polls for updates after offset
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeoutSec int) ([]Update, error) {
	req := map[string]any{
		"offset":          offset,
		"timeout":         timeoutSec,
		"allowed_updates": []string{"message", "callback_query"},
	}
	var updates []Update
	if err := c.call(ctx, "getUpdates", req, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

// SendMessage delivers plain text to a chat
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	return c.call(ctx, "sendMessage", map[string]any{
		"chat_id": chatID,
		"text":    text,
	}, nil)
}

// SendKeyboard delivers text with an inline keyboard and returns the message id
func (c *Client) SendKeyboard(ctx context.Context, chatID int64, text string, kb InlineKeyboardMarkup) (int64, error) {
	var msg Message
	err := c.call(ctx, "sendMessage", map[string]any{
		"chat_id":      chatID,
		"text":         text,
		"reply_markup": kb,
	}, &msg)
	if err != nil {
		return 0, err
	}
	return msg.MessageID, nil
}

// EditMessageText rewrites a sent message, optionally with a new keyboard
func (c *Client) EditMessageText(ctx context.Context, chatID, messageID int64, text string, kb *InlineKeyboardMarkup) error {
	req := map[string]any{
		"chat_id":    chatID,
		"message_id": messageID,
		"text":       text,
	}
	if kb != nil {
		req["reply_markup"] = kb
	}
	return c.call(ctx, "editMessageText", req, nil)
}

// AnswerCallbackQuery acknowledges a button press
func (c *Client) AnswerCallbackQuery(ctx context.Context, callbackID string) error {
	return c.call(ctx, "answerCallbackQuery", map[string]any{
		"callback_query_id": callbackID,
	}, nil)
}

// React puts the acknowledgement reaction on a message
func (c *Client) React(ctx context.Context, chatID, messageID int64) error {
	return c.call(ctx, "setMessageReaction", map[string]any{
		"chat_id":    chatID,
		"message_id": messageID,
		"reaction":   []ReactionType{{Type: "emoji", Emoji: ackEmoji}},
	}, nil)
}
