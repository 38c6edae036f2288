package handler

import (
	"context"
	"net/http"
	"shutdownassistant/internal/application/dto"
	"shutdownassistant/internal/domain/constant"
	"shutdownassistant/internal/domain/entity"
	appErrors "shutdownassistant/internal/pkg/errors"

	"github.com/line/line-bot-sdk-go/v7/linebot"
)

type fakeShutdownService struct {
	scheduleReqs []dto.ScheduleShutdownRequest
	cancels      []constant.ScheduleSource
	shutdowns    []dto.ConfirmRequest
	crashes      []dto.ConfirmRequest
	historyLimit int

	scheduleResp *dto.ScheduleResponse
	status       *dto.StatusResponse
	history      []dto.ScheduleResponse
	preview      *dto.ResolveResponse
	err          error
}

func (f *fakeShutdownService) Schedule(ctx context.Context, req dto.ScheduleShutdownRequest) (*dto.ScheduleResponse, error) {
	f.scheduleReqs = append(f.scheduleReqs, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.scheduleResp, nil
}

func (f *fakeShutdownService) Cancel(ctx context.Context, source constant.ScheduleSource) error {
	f.cancels = append(f.cancels, source)
	return f.err
}

func (f *fakeShutdownService) ShutdownNow(ctx context.Context, req dto.ConfirmRequest) error {
	f.shutdowns = append(f.shutdowns, req)
	if f.err != nil {
		return f.err
	}
	if !req.Confirm {
		return appErrors.ErrConfirmationRequired
	}
	return nil
}

func (f *fakeShutdownService) Crash(ctx context.Context, req dto.ConfirmRequest) error {
	f.crashes = append(f.crashes, req)
	if f.err != nil {
		return f.err
	}
	if !req.Confirm {
		return appErrors.ErrConfirmationRequired
	}
	return nil
}

func (f *fakeShutdownService) Status(ctx context.Context) (*dto.StatusResponse, error) {
	return f.status, f.err
}

func (f *fakeShutdownService) History(ctx context.Context, limit int) ([]dto.ScheduleResponse, error) {
	f.historyLimit = limit
	return f.history, f.err
}

func (f *fakeShutdownService) Preview(ctx context.Context, value string) (*dto.ResolveResponse, error) {
	return f.preview, f.err
}

func (f *fakeShutdownService) RestoreOnStartup(ctx context.Context) error { return nil }
func (f *fakeShutdownService) RearmDaily(ctx context.Context) error       { return nil }
func (f *fakeShutdownService) CleanupHistory(ctx context.Context) error   { return nil }

type fakePreferenceService struct {
	pref    dto.PreferenceResponse
	updates []dto.UpdatePreferenceRequest
	err     error
}

func (f *fakePreferenceService) Get(ctx context.Context) (*dto.PreferenceResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	p := f.pref
	return &p, nil
}

func (f *fakePreferenceService) Update(ctx context.Context, req dto.UpdatePreferenceRequest) (*dto.PreferenceResponse, error) {
	f.updates = append(f.updates, req)
	if f.err != nil {
		return nil, f.err
	}
	if req.ScheduledTime != nil {
		f.pref.ScheduledTime = *req.ScheduledTime
	}
	if req.AutoStart != nil {
		f.pref.AutoStart = *req.AutoStart
	}
	if req.Repeat != nil {
		f.pref.Repeat = *req.Repeat
	}
	p := f.pref
	return &p, nil
}

func (f *fakePreferenceService) SyncAutoStart(ctx context.Context) error { return nil }

type fakeUserService struct {
	statuses map[string]constant.UserStatus
	deleted  []string
}

func newFakeUserService() *fakeUserService {
	return &fakeUserService{statuses: map[string]constant.UserStatus{}}
}

func (f *fakeUserService) GetOrCreateUser(ctx context.Context, userID string) (*entity.User, error) {
	if _, ok := f.statuses[userID]; !ok {
		f.statuses[userID] = constant.StatusInitial
	}
	return &entity.User{ID: userID, Status: f.statuses[userID].Int()}, nil
}

func (f *fakeUserService) GetUser(ctx context.Context, userID string) (*entity.User, error) {
	s, ok := f.statuses[userID]
	if !ok {
		return nil, appErrors.ErrUserNotFound
	}
	return &entity.User{ID: userID, Status: s.Int()}, nil
}

func (f *fakeUserService) UpdateStatus(ctx context.Context, req dto.UpdateUserStatusRequest) error {
	f.statuses[req.UserID] = req.Status
	return nil
}

func (f *fakeUserService) DeleteUser(ctx context.Context, userID string) error {
	delete(f.statuses, userID)
	f.deleted = append(f.deleted, userID)
	return nil
}

func (f *fakeUserService) GetUserStatus(ctx context.Context, userID string) (constant.UserStatus, error) {
	s, ok := f.statuses[userID]
	if !ok {
		return constant.StatusInitial, appErrors.ErrUserNotFound
	}
	return s, nil
}

type sentReply struct {
	token    string
	messages []linebot.SendingMessage
}

type fakeMessenger struct {
	events   []*linebot.Event
	parseErr error
	replies  []sentReply
}

func (f *fakeMessenger) ParseRequest(r *http.Request) ([]*linebot.Event, error) {
	return f.events, f.parseErr
}

func (f *fakeMessenger) SendMessages(replyToken string, messages ...linebot.SendingMessage) error {
	f.replies = append(f.replies, sentReply{token: replyToken, messages: messages})
	return nil
}

// lastText returns the text of the most recent reply.
func (f *fakeMessenger) lastText() string {
	if len(f.replies) == 0 {
		return ""
	}
	msgs := f.replies[len(f.replies)-1].messages
	if len(msgs) == 0 {
		return ""
	}
	if tm, ok := msgs[0].(*linebot.TextMessage); ok {
		return tm.Text
	}
	return ""
}
