package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"shutdownassistant/internal/application/dto"
	"shutdownassistant/internal/application/service"
	"shutdownassistant/internal/domain/constant"
	"shutdownassistant/internal/domain/timeofday"
	appErrors "shutdownassistant/internal/pkg/errors"
	"shutdownassistant/internal/pkg/logger"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/line/line-bot-sdk-go/v7/linebot"
)

// lineMessenger is the part of the LINE client the handler uses.
type lineMessenger interface {
	ParseRequest(r *http.Request) ([]*linebot.Event, error)
	SendMessages(replyToken string, messages ...linebot.SendingMessage) error
}

// Text commands understood by the bot.
const (
	cmdHelp      = "help"
	cmdStatus    = "status"
	cmdSchedule  = "schedule"
	cmdCancel    = "cancel"
	cmdNow       = "now"
	cmdCrash     = "crash"
	cmdRepeat    = "repeat"
	cmdAutoStart = "autostart"
	cmdYes       = "yes"
	cmdNo        = "no"
)

// LineHandler handles incoming LINE webhook events.
type LineHandler struct {
	lineClient        lineMessenger
	userService       service.UserService
	shutdownService   service.ShutdownService
	preferenceService service.PreferenceService
	operators         map[string]bool
	log               logger.Logger
}

// NewLineHandler creates a new LineHandler. Only operatorIDs may issue commands.
func NewLineHandler(
	lineClient lineMessenger,
	userService service.UserService,
	shutdownService service.ShutdownService,
	preferenceService service.PreferenceService,
	operatorIDs []string,
	log logger.Logger,
) *LineHandler {
	operators := make(map[string]bool, len(operatorIDs))
	for _, id := range operatorIDs {
		operators[id] = true
	}
	if len(operators) == 0 {
		log.Warn("No LINE operators configured (MY_USER_ID / LINE_OPERATOR_IDS); every command will be refused.")
	}
	return &LineHandler{
		lineClient:        lineClient,
		userService:       userService,
		shutdownService:   shutdownService,
		preferenceService: preferenceService,
		operators:         operators,
		log:               log,
	}
}

// HandleWebhook is the main entry point for webhook requests.
func (h *LineHandler) HandleWebhook(c echo.Context) error {
	ctx := c.Request().Context()
	events, err := h.lineClient.ParseRequest(c.Request())
	if err != nil {
		if errors.Is(err, linebot.ErrInvalidSignature) {
			h.log.Warn("Invalid LINE signature received")
			return c.String(http.StatusBadRequest, "Invalid signature")
		}
		h.log.Error("Failed to parse LINE webhook request", err)
		return c.String(http.StatusInternalServerError, "Error parsing request")
	}

	for _, event := range events {
		h.handleEvent(ctx, event)
	}

	return c.String(http.StatusOK, "OK")
}

func (h *LineHandler) handleEvent(ctx context.Context, event *linebot.Event) {
	h.log.Info(fmt.Sprintf("Processing event type: %s", event.Type))
	switch event.Type {
	case linebot.EventTypeMessage:
		h.handleMessageEvent(ctx, event)
	case linebot.EventTypeFollow:
		h.handleFollowEvent(ctx, event)
	case linebot.EventTypeUnfollow:
		h.handleUnfollowEvent(ctx, event)
	default:
		h.log.Info(fmt.Sprintf("Unhandled event type: %s", event.Type))
	}
}

func (h *LineHandler) authorized(userID string) bool {
	return h.operators[userID]
}

// handleFollowEvent processes follow events.
func (h *LineHandler) handleFollowEvent(ctx context.Context, event *linebot.Event) {
	userID := event.Source.UserID
	h.log.Info(fmt.Sprintf("User %s followed the bot.", userID))

	if !h.authorized(userID) {
		h.log.Warn(fmt.Sprintf("Follow from non-operator %s", userID))
		h.reply(event.ReplyToken, linebot.NewTextMessage("This bot controls a private computer. You are not on its operator list."))
		return
	}

	if _, err := h.userService.GetOrCreateUser(ctx, userID); err != nil {
		h.reply(event.ReplyToken, linebot.NewTextMessage("Failed to initialize your session."))
		return
	}
	h.sendHowToUse(event.ReplyToken)
}

// handleUnfollowEvent processes unfollow events.
func (h *LineHandler) handleUnfollowEvent(ctx context.Context, event *linebot.Event) {
	userID := event.Source.UserID
	h.log.Info(fmt.Sprintf("User %s unfollowed or blocked the bot.", userID))

	// Errors are logged by the service; unfollow events carry no reply token.
	_ = h.userService.DeleteUser(ctx, userID)
}

// handleMessageEvent processes message events.
func (h *LineHandler) handleMessageEvent(ctx context.Context, event *linebot.Event) {
	userID := event.Source.UserID
	replyToken := event.ReplyToken

	message, ok := event.Message.(*linebot.TextMessage)
	if !ok {
		h.log.Info(fmt.Sprintf("Received non-text message type from %s", userID))
		return
	}
	text := strings.TrimSpace(message.Text)
	h.log.Info(fmt.Sprintf("Received text message from %s: %s", userID, text))

	if !h.authorized(userID) {
		h.log.Warn(fmt.Sprintf("Refused command from non-operator %s", userID))
		h.reply(replyToken, linebot.NewTextMessage(appErrors.ErrUnauthorized.Error()))
		return
	}

	status, err := h.userService.GetUserStatus(ctx, userID)
	if err != nil {
		if !errors.Is(err, appErrors.ErrUserNotFound) {
			h.reply(replyToken, linebot.NewTextMessage("Failed to load your session."))
			return
		}
		if _, createErr := h.userService.GetOrCreateUser(ctx, userID); createErr != nil {
			h.reply(replyToken, linebot.NewTextMessage("Failed to create your session."))
			return
		}
		status = constant.StatusInitial
	}

	switch status {
	case constant.StatusAwaitingShutdownConfirm, constant.StatusAwaitingCrashConfirm:
		h.handleConfirmation(ctx, replyToken, userID, status, text)
	case constant.StatusInitial:
		h.handleCommand(ctx, replyToken, userID, text)
	default:
		h.log.Error(fmt.Sprintf("User %s has unknown status %d", userID, status), appErrors.ErrInvalidStatus)
		h.setStatus(ctx, userID, constant.StatusInitial)
		h.reply(replyToken, linebot.NewTextMessage("Unknown state. Please start over."))
	}
}

// parseCommand splits text into a lower-case command and its argument.
// A bare HH:MM is shorthand for "schedule HH:MM".
func parseCommand(text string) (cmd, arg string) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", ""
	}
	if _, err := timeofday.Parse(fields[0]); err == nil && len(fields) == 1 {
		return cmdSchedule, fields[0]
	}
	cmd = strings.ToLower(fields[0])
	if len(fields) > 1 {
		arg = strings.Join(fields[1:], " ")
	}
	return cmd, arg
}

// parseSwitch reads "on" / "off".
func parseSwitch(arg string) (value bool, ok bool) {
	switch strings.ToLower(arg) {
	case "on":
		return true, true
	case "off":
		return false, true
	default:
		return false, false
	}
}

func (h *LineHandler) handleCommand(ctx context.Context, replyToken, userID, text string) {
	cmd, arg := parseCommand(text)
	switch cmd {
	case cmdHelp:
		h.sendHowToUse(replyToken)
	case cmdStatus:
		h.sendStatus(ctx, replyToken)
	case cmdSchedule:
		h.handleSchedule(ctx, replyToken, arg)
	case cmdCancel:
		if err := h.shutdownService.Cancel(ctx, constant.SourceLine); err != nil {
			if errors.Is(err, appErrors.ErrScheduleNotFound) {
				h.reply(replyToken, linebot.NewTextMessage("No shutdown is pending."))
				return
			}
			h.replyWithError(replyToken, "Failed to cancel the scheduled shutdown", err)
			return
		}
		h.reply(replyToken, linebot.NewTextMessage("Scheduled shutdown cancelled."))
	case cmdNow:
		h.askConfirmation(ctx, replyToken, userID, constant.StatusAwaitingShutdownConfirm,
			"Shut this computer down right now?")
	case cmdCrash:
		h.askConfirmation(ctx, replyToken, userID, constant.StatusAwaitingCrashConfirm,
			"This crashes the system with a blue screen. Continue?")
	case cmdRepeat, cmdAutoStart:
		h.handleSwitch(ctx, replyToken, cmd, arg)
	case cmdYes, cmdNo:
		h.reply(replyToken, linebot.NewTextMessage("Nothing to confirm. The question may have expired; send \"now\" or \"crash\" again."))
	default:
		h.reply(replyToken, linebot.NewTextMessage("Unknown command. Send \"help\" for the list."))
	}
}

func (h *LineHandler) handleSchedule(ctx context.Context, replyToken, arg string) {
	resp, err := h.shutdownService.Schedule(ctx, dto.ScheduleShutdownRequest{Time: arg, Source: constant.SourceLine})
	if err != nil {
		if errors.Is(err, appErrors.ErrMalformedTime) {
			h.reply(replyToken, linebot.NewTextMessage("Malformed time. Use HH:MM, for example 18:30."))
			return
		}
		h.replyWithError(replyToken, "Failed to schedule the shutdown", err)
		return
	}
	delay := time.Duration(resp.DelaySeconds) * time.Second
	msg := fmt.Sprintf("Shutdown scheduled for %s\n(in %s)", resp.TargetTime.Format("2006/01/02 15:04"), delay)
	firesAt := resp.CreatedAt.Add(delay)
	if timeofday.Drift(resp.TargetTime, firesAt) != 0 {
		msg += fmt.Sprintf("\nThe clocks change before then, so it fires at %s.", firesAt.In(resp.TargetTime.Location()).Format("2006/01/02 15:04"))
	}
	h.reply(replyToken, linebot.NewTextMessage(msg))
}

func (h *LineHandler) handleSwitch(ctx context.Context, replyToken, cmd, arg string) {
	value, ok := parseSwitch(arg)
	if !ok {
		h.reply(replyToken, linebot.NewTextMessage(fmt.Sprintf("Use \"%s on\" or \"%s off\".", cmd, cmd)))
		return
	}

	req := dto.UpdatePreferenceRequest{}
	if cmd == cmdRepeat {
		req.Repeat = &value
	} else {
		req.AutoStart = &value
	}
	if _, err := h.preferenceService.Update(ctx, req); err != nil {
		h.replyWithError(replyToken, fmt.Sprintf("Failed to update %s", cmd), err)
		return
	}
	h.reply(replyToken, linebot.NewTextMessage(fmt.Sprintf("%s is now %s.", cmd, onOff(value))))
}

func (h *LineHandler) askConfirmation(ctx context.Context, replyToken, userID string, status constant.UserStatus, question string) {
	if !h.setStatus(ctx, userID, status) {
		h.reply(replyToken, linebot.NewTextMessage("Failed to start the confirmation."))
		return
	}
	quickReply := linebot.NewQuickReplyItems(
		linebot.NewQuickReplyButton("", linebot.NewMessageAction(cmdYes, cmdYes)),
		linebot.NewQuickReplyButton("", linebot.NewMessageAction(cmdNo, cmdNo)),
	)
	h.reply(replyToken, linebot.NewTextMessage(question+" (yes/no)").WithQuickReplies(quickReply))
}

func (h *LineHandler) handleConfirmation(ctx context.Context, replyToken, userID string, status constant.UserStatus, text string) {
	switch strings.ToLower(text) {
	case cmdYes:
	case cmdNo, cmdCancel:
		h.setStatus(ctx, userID, constant.StatusInitial)
		h.reply(replyToken, linebot.NewTextMessage("Aborted."))
		return
	default:
		quickReply := linebot.NewQuickReplyItems(
			linebot.NewQuickReplyButton("", linebot.NewMessageAction(cmdYes, cmdYes)),
			linebot.NewQuickReplyButton("", linebot.NewMessageAction(cmdNo, cmdNo)),
		)
		h.reply(replyToken, linebot.NewTextMessage("Please answer yes or no.").WithQuickReplies(quickReply))
		return
	}

	// Reset first: a successful action takes the host down with us.
	h.setStatus(ctx, userID, constant.StatusInitial)

	req := dto.ConfirmRequest{Confirm: true, Source: constant.SourceLine}
	if status == constant.StatusAwaitingCrashConfirm {
		if err := h.shutdownService.Crash(ctx, req); err != nil {
			h.replyWithError(replyToken, "Crash failed", err)
		}
		return
	}
	if err := h.shutdownService.ShutdownNow(ctx, req); err != nil {
		h.replyWithError(replyToken, "Shutdown failed", err)
		return
	}
	h.reply(replyToken, linebot.NewTextMessage("Shutting down."))
}

func (h *LineHandler) sendStatus(ctx context.Context, replyToken string) {
	status, err := h.shutdownService.Status(ctx)
	if err != nil {
		h.replyWithError(replyToken, "Failed to read the status", err)
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Scheduled time: %s\n", status.Preference.ScheduledTime)
	fmt.Fprintf(&b, "Repeat: %s\n", onOff(status.Preference.Repeat))
	fmt.Fprintf(&b, "Autostart: %s\n", onOff(status.Preference.AutoStart))
	if status.Pending != nil {
		fmt.Fprintf(&b, "Pending: %s", status.Pending.TargetTime.Format("2006/01/02 15:04"))
	} else {
		b.WriteString("Pending: none")
	}
	h.reply(replyToken, linebot.NewTextMessage(b.String()))
}

func (h *LineHandler) sendHowToUse(replyToken string) {
	howToUse := `Send a time like 18:30 to schedule a shutdown.

"schedule" re-arms the saved time.
"status" shows the saved time and any pending shutdown.
"cancel" aborts a pending shutdown.
"now" shuts down immediately (asks first).
"crash" triggers a blue screen (asks first).
"repeat on|off" and "autostart on|off" change the settings.`

	quickReply := linebot.NewQuickReplyItems(
		linebot.NewQuickReplyButton("", linebot.NewMessageAction(cmdStatus, cmdStatus)),
		linebot.NewQuickReplyButton("", linebot.NewMessageAction(cmdSchedule, cmdSchedule)),
		linebot.NewQuickReplyButton("", linebot.NewMessageAction(cmdCancel, cmdCancel)),
	)
	h.reply(replyToken, linebot.NewTextMessage(howToUse).WithQuickReplies(quickReply))
}

func (h *LineHandler) setStatus(ctx context.Context, userID string, status constant.UserStatus) bool {
	if err := h.userService.UpdateStatus(ctx, dto.UpdateUserStatusRequest{UserID: userID, Status: status}); err != nil {
		h.log.Error(fmt.Sprintf("Failed to update user %s status to %d", userID, status), err)
		return false
	}
	return true
}

func (h *LineHandler) reply(replyToken string, messages ...linebot.SendingMessage) {
	if err := h.lineClient.SendMessages(replyToken, messages...); err != nil {
		h.log.Error("Failed to send reply message", err)
	}
}

// replyWithError sends a user-facing failure message.
func (h *LineHandler) replyWithError(replyToken, userMessage string, err error) {
	if errors.Is(err, appErrors.ErrUnsupportedPlatform) {
		userMessage += ": this host is not running Windows"
	}
	h.reply(replyToken, linebot.NewTextMessage(userMessage+"."))
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
