package relay

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/0STG0T/t1-solution-2/pkg/api"
	"github.com/0STG0T/t1-solution-2/pkg/log"
)

type (
	// RedisConfig describes the Redis server prompts are relayed through
	RedisConfig struct {
		Addr     string
		Password string
		DB       int
		Prefix   string
	}

	// RedisBackend publishes prompts to a shared channel and receives
	// replies on a channel per session. Whatever answers the prompts lives
	// on the other side of Redis
	RedisBackend struct {
		client *redis.Client
		prefix string
	}

	// Prompt is the payload published for every user message
	Prompt struct {
		Session api.SessionID `json:"session"`
		Text    string        `json:"text"`
	}

	redisConversation struct {
		client  *redis.Client
		pubsub  *redis.PubSub
		session api.SessionID
		prompts string
		replies chan string
		done    chan struct{}
		once    sync.Once
	}
)

const DefaultRedisPrefix = "chat"

var ErrRedisAddrRequired = errors.New("redis address is required")

var _ Backend = (*RedisBackend)(nil)

// NewRedisBackend connects to Redis and verifies the connection
func NewRedisBackend(
	ctx context.Context, cfg RedisConfig,
) (*RedisBackend, error) {
	if cfg.Addr == "" {
		return nil, ErrRedisAddrRequired
	}
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultRedisPrefix
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &RedisBackend{client: client, prefix: cfg.Prefix}, nil
}

// PromptChannel is where every session's prompts are published
func (b *RedisBackend) PromptChannel() string {
	return PromptChannel(b.prefix)
}

// Open subscribes to the session's reply channel
func (b *RedisBackend) Open(
	ctx context.Context, session api.SessionID,
) (Conversation, error) {
	ps := b.client.Subscribe(ctx, ReplyChannel(b.prefix, session))
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, err
	}

	c := &redisConversation{
		client:  b.client,
		pubsub:  ps,
		session: session,
		prompts: b.PromptChannel(),
		replies: make(chan string, replyBufferSize),
		done:    make(chan struct{}),
	}
	go c.pump()
	return c, nil
}

func (b *RedisBackend) Close() error {
	return b.client.Close()
}

// PromptChannel names the channel prompts are published to
func PromptChannel(prefix string) string {
	return prefix + ":prompts"
}

// ReplyChannel names the channel a session's replies arrive on
func ReplyChannel(prefix string, session api.SessionID) string {
	return prefix + ":replies:" + string(session)
}

func (c *redisConversation) Send(ctx context.Context, text string) error {
	data, err := json.Marshal(Prompt{Session: c.session, Text: text})
	if err != nil {
		return err
	}
	return c.client.Publish(ctx, c.prompts, data).Err()
}

func (c *redisConversation) Replies() <-chan string {
	return c.replies
}

func (c *redisConversation) Close() error {
	var err error
	c.once.Do(func() {
		close(c.done)
		err = c.pubsub.Close()
	})
	return err
}

func (c *redisConversation) pump() {
	defer close(c.replies)
	for msg := range c.pubsub.Channel() {
		select {
		case c.replies <- msg.Payload:
		case <-c.done:
			return
		}
	}
	slog.Debug("Reply subscription ended",
		log.Session(c.session))
}
