package line

import (
	"context"
	"errors"
	appErrors "shutdownassistant/internal/pkg/errors"
	"shutdownassistant/internal/pkg/logger"
	"testing"

	"github.com/line/line-bot-sdk-go/v7/linebot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePusher struct {
	to       string
	messages []linebot.SendingMessage
	err      error
}

func (f *fakePusher) PushMessages(to string, messages ...linebot.SendingMessage) error {
	f.to = to
	f.messages = append(f.messages, messages...)
	return f.err
}

func TestAdminNotifier_Notify(t *testing.T) {
	p := &fakePusher{}
	n := NewAdminNotifier(p, "Uadmin")

	require.NoError(t, n.Notify(context.Background(), "Shutdown armed for 18:00"))
	assert.Equal(t, "Uadmin", p.to)
	require.Len(t, p.messages, 1)
	text, ok := p.messages[0].(*linebot.TextMessage)
	require.True(t, ok)
	assert.Equal(t, "Shutdown armed for 18:00", text.Text)
}

func TestAdminNotifier_PushFailure(t *testing.T) {
	n := NewAdminNotifier(&fakePusher{err: errors.New("429")}, "Uadmin")
	err := n.Notify(context.Background(), "x")
	assert.True(t, errors.Is(err, appErrors.ErrLineAPI))
}

func TestNewClient_MissingCredentials(t *testing.T) {
	t.Setenv("CHANNEL_SECRET", "")
	t.Setenv("CHANNEL_ACCESS_TOKEN", "")
	c, err := NewClient(logger.Nop())
	assert.Nil(t, c)
	assert.True(t, errors.Is(err, appErrors.ErrLineAPI))
}

func TestOperatorIDs(t *testing.T) {
	t.Setenv("MY_USER_ID", "Uadmin")
	t.Setenv("LINE_OPERATOR_IDS", " U2, ,Uadmin,U3 ")
	assert.Equal(t, []string{"Uadmin", "U2", "U3"}, OperatorIDs())
}
