package line

import (
	"context"
	"fmt"
	"net/http"
	"os"
	appErrors "shutdownassistant/internal/pkg/errors"
	"shutdownassistant/internal/pkg/logger"
	"strings"

	"github.com/line/line-bot-sdk-go/v7/linebot"
)

// Client wraps the linebot.Client.
type Client struct {
	*linebot.Client
	log logger.Logger
}

// NewClient creates a LINE Bot client from CHANNEL_SECRET and
// CHANNEL_ACCESS_TOKEN. The LINE surface is optional, so missing
// credentials are an error for the caller to decide on.
func NewClient(log logger.Logger) (*Client, error) {
	channelSecret := os.Getenv("CHANNEL_SECRET")
	channelToken := os.Getenv("CHANNEL_ACCESS_TOKEN")

	if channelSecret == "" || channelToken == "" {
		return nil, fmt.Errorf("%w: CHANNEL_SECRET and CHANNEL_ACCESS_TOKEN must be set", appErrors.ErrLineAPI)
	}

	bot, err := linebot.New(channelSecret, channelToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", appErrors.ErrLineAPI, err)
	}
	log.Info("Successfully created LINE Bot client.")
	return &Client{
		Client: bot,
		log:    log,
	}, nil
}

// SendMessages sends one or more messages using the ReplyMessage API.
func (c *Client) SendMessages(replyToken string, messages ...linebot.SendingMessage) error {
	_, err := c.ReplyMessage(replyToken, messages...).Do()
	if err != nil {
		return err // Return the error for the caller to handle
	}
	c.log.Debug("Successfully sent reply message.")
	return nil
}

// PushMessages sends one or more messages using the PushMessage API.
func (c *Client) PushMessages(to string, messages ...linebot.SendingMessage) error {
	_, err := c.PushMessage(to, messages...).Do()
	if err != nil {
		return err // Return the error for the caller to handle
	}
	c.log.Debug("Successfully sent push message.")
	return nil
}

// ParseRequest parses incoming webhook requests.
func (c *Client) ParseRequest(r *http.Request) ([]*linebot.Event, error) {
	return c.Client.ParseRequest(r)
}

// Pusher is the part of Client that AdminNotifier needs.
type Pusher interface {
	PushMessages(to string, messages ...linebot.SendingMessage) error
}

// AdminNotifier pushes schedule changes to the admin's LINE account.
type AdminNotifier struct {
	pusher Pusher
	to     string
}

// NewAdminNotifier returns a notifier that pushes text messages to the given user.
func NewAdminNotifier(pusher Pusher, to string) *AdminNotifier {
	return &AdminNotifier{pusher: pusher, to: to}
}

// Notify pushes message as a single text message.
func (n *AdminNotifier) Notify(ctx context.Context, message string) error {
	if err := n.pusher.PushMessages(n.to, linebot.NewTextMessage(message)); err != nil {
		return fmt.Errorf("%w: %v", appErrors.ErrLineAPI, err)
	}
	return nil
}

// OperatorIDs returns MY_USER_ID plus the comma separated LINE_OPERATOR_IDS.
func OperatorIDs() []string {
	var ids []string
	seen := map[string]bool{}
	add := func(id string) {
		id = strings.TrimSpace(id)
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	add(os.Getenv("MY_USER_ID"))
	for _, id := range strings.Split(os.Getenv("LINE_OPERATOR_IDS"), ",") {
		add(id)
	}
	return ids
}
