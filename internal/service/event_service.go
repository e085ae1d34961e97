package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"evenza/internal/model"
	"evenza/internal/repository"
	"evenza/internal/upload"
	"evenza/pkg/app_errors"
	"evenza/pkg/logger"

	"go.uber.org/zap"
)

// IdentityReloader 發佈前重新讀取驗證狀態。驗證可能在其他 session 完成,
// 不能只信 token 裡的快照。
type IdentityReloader interface {
	Reload(ctx context.Context, uid string) (*model.Identity, error)
}

// EventService 活動快取與生命週期。create/update/delete 為 confirmed-first:
// 遠端寫入成功後才改本地快取;refresh 失敗則吞掉並保留舊快取。
type EventService interface {
	// Events 遠端快取(建立時間新到舊)接種子活動
	Events() []model.Event
	Loading() bool
	// Refresh 整批替換遠端快取,失敗只記 log;回傳最新合併列表
	Refresh(ctx context.Context) []model.Event
	Create(ctx context.Context, ident *model.Identity, input model.CreateEventInput) (*model.Event, error)
	Update(ctx context.Context, ident *model.Identity, input model.UpdateEventInput) (*model.Event, error)
	// Delete 回傳刪除前快照,供呼叫方寄送取消通知
	Delete(ctx context.Context, eventID string, requestorUID string) (*model.DeletedEvent, error)
}

type EventServiceImpl struct {
	store    repository.EventStore
	reloader IdentityReloader
	uploader upload.ImageUploader

	mu      sync.RWMutex
	remote  []model.Event
	static  []model.Event
	loading bool
}

func NewEventService(store repository.EventStore, reloader IdentityReloader, uploader upload.ImageUploader) EventService {
	return &EventServiceImpl{
		store:    store,
		reloader: reloader,
		uploader: uploader,
		remote:   []model.Event{},
		static:   model.SeedEvents(),
	}
}

func (s *EventServiceImpl) Events() []model.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.combinedLocked()
}

func (s *EventServiceImpl) combinedLocked() []model.Event {
	combined := make([]model.Event, 0, len(s.remote)+len(s.static))
	combined = append(combined, s.remote...)
	combined = append(combined, s.static...)
	return combined
}

func (s *EventServiceImpl) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *EventServiceImpl) Refresh(ctx context.Context) []model.Event {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	remote, err := s.store.ListOrdered(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		// 網路/後端失敗不影響使用,保留上一次的快取
		logger.WithComponent("event_service").Warn("Failed to load events", zap.Error(err))
		return s.combinedLocked()
	}
	s.remote = remote
	return s.combinedLocked()
}

func (s *EventServiceImpl) Create(ctx context.Context, ident *model.Identity, input model.CreateEventInput) (*model.Event, error) {
	log := logger.WithComponent("event_service")

	if ident == nil {
		return nil, app_errors.ErrAuthenticationRequired
	}

	current, err := s.reloader.Reload(ctx, ident.UID)
	if err != nil {
		if errors.Is(err, app_errors.ErrUserNotFound) {
			return nil, app_errors.ErrAuthenticationRequired
		}
		// 重新讀取失敗時退回 token 快照,後端授權層仍會把關
		log.Warn("Failed to reload identity before publish", zap.Error(err))
		current = ident
	}
	if !current.EmailVerified {
		return nil, app_errors.ErrEmailNotVerified
	}

	// 日期檢查要在任何網路副作用(上傳、寫入)之前
	if err := model.ValidateDateRange(input.StartDateTime, input.EndDateTime); err != nil {
		return nil, err
	}

	imageURL, err := s.uploader.Upload(ctx, input.ImageBase64)
	if err != nil {
		return nil, err
	}

	start := input.StartDateTime
	end := input.EndDateTime
	mode := model.NormalizeMode(string(input.Mode))

	event := &model.Event{
		Title:         input.Title,
		Description:   input.Description,
		Headline:      model.BuildHeadline(input.Description),
		Category:      model.NormalizeCategory(string(input.Category)),
		Date:          model.FormatDateLabel(start),
		Time:          model.FormatTimeLabel(start),
		Location:      model.LocationLabel(mode),
		Mode:          mode,
		Image:         imageURL,
		StartDateTime: &start,
		EndDateTime:   &end,
		CreatedBy:     current.UID,
		Source:        model.SourceUser,
		Participants:  []model.Participant{},
	}

	if err := s.store.Insert(ctx, event); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.remote = append([]model.Event{*event}, s.remote...)
	s.mu.Unlock()

	return event, nil
}

func (s *EventServiceImpl) Update(ctx context.Context, ident *model.Identity, input model.UpdateEventInput) (*model.Event, error) {
	if ident == nil {
		return nil, app_errors.ErrAuthenticationRequired
	}

	stored, err := s.store.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if stored.CreatedBy != ident.UID {
		return nil, app_errors.ErrForbidden
	}

	// 只變更一端時,另一端以既存值檢查
	start := stored.StartDateTime
	if input.StartDateTime != nil {
		start = input.StartDateTime
	}
	end := stored.EndDateTime
	if input.EndDateTime != nil {
		end = input.EndDateTime
	}
	if start != nil && end != nil {
		if err := model.ValidateDateRange(*start, *end); err != nil {
			return nil, err
		}
	}

	updated := *stored
	params := model.UpdateEventParams{}

	if input.Title != nil && *input.Title != stored.Title {
		params.Title = input.Title
		updated.Title = *input.Title
	}
	if input.Description != nil && *input.Description != stored.Description {
		params.Description = input.Description
		updated.Description = *input.Description

		headline := model.BuildHeadline(*input.Description)
		params.Headline = &headline
		updated.Headline = headline
	}
	if input.Category != nil {
		category := model.NormalizeCategory(string(*input.Category))
		if category != stored.Category {
			params.Category = &category
			updated.Category = category
		}
	}
	if input.Mode != nil {
		mode := model.NormalizeMode(string(*input.Mode))
		if mode != stored.Mode {
			location := model.LocationLabel(mode)
			params.Mode = &mode
			params.Location = &location
			updated.Mode = mode
			updated.Location = location
		}
	}
	if input.StartDateTime != nil {
		// 顯示欄位跟著新的開始時間重算
		date := model.FormatDateLabel(*input.StartDateTime)
		timeLabel := model.FormatTimeLabel(*input.StartDateTime)
		params.StartDateTime = input.StartDateTime
		params.Date = &date
		params.Time = &timeLabel
		updated.StartDateTime = input.StartDateTime
		updated.Date = date
		updated.Time = timeLabel
	}
	if input.EndDateTime != nil {
		params.EndDateTime = input.EndDateTime
		updated.EndDateTime = input.EndDateTime
	}

	if input.ImageChanged {
		imageURL, err := s.uploader.Upload(ctx, input.ImageBase64)
		if err != nil {
			return nil, err
		}
		params.Image = &imageURL
		updated.Image = imageURL
	}

	if params == (model.UpdateEventParams{}) {
		return stored, nil
	}

	if err := s.store.Update(ctx, input.ID, params); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	updated.UpdatedAt = &now

	s.mu.Lock()
	replaced := false
	for i := range s.remote {
		if s.remote[i].ID == updated.ID {
			s.remote[i] = updated
			replaced = true
			break
		}
	}
	if !replaced {
		s.remote = append([]model.Event{updated}, s.remote...)
	}
	s.mu.Unlock()

	return &updated, nil
}

func (s *EventServiceImpl) Delete(ctx context.Context, eventID string, requestorUID string) (*model.DeletedEvent, error) {
	stored, err := s.store.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if stored.CreatedBy != requestorUID {
		return nil, app_errors.ErrForbidden
	}

	// 刪除後紀錄就不在了,快照要先取
	snapshot := &model.DeletedEvent{
		Title:             stored.Title,
		Date:              stored.Date,
		Location:          stored.Location,
		ParticipantEmails: stored.ParticipantEmails(),
	}

	if err := s.store.Delete(ctx, eventID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	filtered := s.remote[:0]
	for _, event := range s.remote {
		if event.ID != eventID {
			filtered = append(filtered, event)
		}
	}
	s.remote = filtered
	s.mu.Unlock()

	return snapshot, nil
}
