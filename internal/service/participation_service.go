package service

import (
	"context"
	"errors"
	"sync"

	"evenza/internal/cache"
	"evenza/internal/model"
	"evenza/internal/repository"
	"evenza/pkg/app_errors"
	"evenza/pkg/logger"

	"go.uber.org/zap"
)

// ParticipationService 已加入活動的追蹤。join/leave 採 optimistic:
// 本地快取立即更新並持久化,遠端參加者列表的寫入是 fire-and-forget,
// 失敗只記 log,由 reconcile 事後收斂。
type ParticipationService interface {
	// JoinedEvents 目前本地快取的已加入活動
	JoinedEvents(ctx context.Context, ident *model.Identity) []model.Event
	// IsJoined 純本地查詢,不碰網路
	IsJoined(ctx context.Context, ident *model.Identity, eventID string) bool
	// Join 已加入時為 no-op
	Join(ctx context.Context, ident *model.Identity, event model.Event)
	// Leave 未加入時為 no-op;遠端回報 not found 視為已達成
	Leave(ctx context.Context, ident *model.Identity, eventID string)
	// Reconcile 以遠端參加者列表為準重算 user 來源的項目,
	// 非 user 來源(種子資料)原樣保留;結果不變時跳過持久化
	Reconcile(ctx context.Context, ident *model.Identity, events []model.Event)
	// ReconcileAll 對所有已載入的使用者執行 Reconcile
	ReconcileAll(ctx context.Context, events []model.Event)
}

type userState struct {
	email    string
	events   []model.Event
	hydrated bool
}

type ParticipationServiceImpl struct {
	store repository.EventStore
	cache cache.JoinedEventCache

	mu    sync.Mutex
	users map[string]*userState
}

func NewParticipationService(store repository.EventStore, joinedCache cache.JoinedEventCache) *ParticipationServiceImpl {
	return &ParticipationServiceImpl{
		store: store,
		cache: joinedCache,
		users: make(map[string]*userState),
	}
}

// ensure 第一次碰到這個使用者時從本地儲存回填;讀取失敗吞掉,
// 從空快取繼續用,不讓 app 掛掉
func (s *ParticipationServiceImpl) ensure(ctx context.Context, ident *model.Identity) *userState {
	s.mu.Lock()
	st, ok := s.users[ident.UID]
	if !ok {
		st = &userState{email: ident.Email}
		s.users[ident.UID] = st
	}
	if ident.Email != "" {
		st.email = ident.Email
	}
	if st.hydrated {
		s.mu.Unlock()
		return st
	}
	s.mu.Unlock()

	stored, err := s.cache.Load(ctx, ident.UID)
	if err != nil {
		logger.WithComponent("participation").Warn("Failed to load joined events", zap.Error(err))
		stored = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !st.hydrated {
		if stored != nil {
			st.events = stored
		}
		st.hydrated = true
	}
	return st
}

func (s *ParticipationServiceImpl) JoinedEvents(ctx context.Context, ident *model.Identity) []model.Event {
	if ident == nil {
		return []model.Event{}
	}
	st := s.ensure(ctx, ident)

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Event, len(st.events))
	copy(out, st.events)
	return out
}

func (s *ParticipationServiceImpl) IsJoined(ctx context.Context, ident *model.Identity, eventID string) bool {
	if ident == nil {
		return false
	}
	st := s.ensure(ctx, ident)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, event := range st.events {
		if event.ID == eventID {
			return true
		}
	}
	return false
}

func (s *ParticipationServiceImpl) Join(ctx context.Context, ident *model.Identity, event model.Event) {
	if ident == nil {
		return
	}
	st := s.ensure(ctx, ident)

	s.mu.Lock()
	for _, existing := range st.events {
		if existing.ID == event.ID {
			// 已加入,重複 join 不改變任何狀態
			s.mu.Unlock()
			return
		}
	}

	next := event
	if event.Source == model.SourceUser && ident.Email != "" {
		participants := append([]model.Participant{}, event.Participants...)
		participants = append(participants, model.Participant{Email: ident.Email, UID: ident.UID})
		next.Participants = model.DedupeParticipants(participants)
	}
	st.events = append(st.events, next)
	snapshot := make([]model.Event, len(st.events))
	copy(snapshot, st.events)
	s.mu.Unlock()

	s.persist(ctx, ident.UID, snapshot)

	if event.Source != model.SourceUser || ident.Email == "" {
		return
	}

	// 遠端參加者列表是次要的通知/稽核機制,寫入失敗不回滾本地狀態。
	// 用 background context,請求結束不會中斷這次寫入。
	participant := model.Participant{Email: ident.Email, UID: ident.UID}
	go func(eventID string) {
		if err := s.store.AddParticipant(context.Background(), eventID, participant); err != nil {
			logger.WithComponent("participation").Warn("Failed to register event participation",
				zap.String("event_id", eventID), zap.Error(err))
		}
	}(event.ID)
}

func (s *ParticipationServiceImpl) Leave(ctx context.Context, ident *model.Identity, eventID string) {
	if ident == nil {
		return
	}
	st := s.ensure(ctx, ident)

	s.mu.Lock()
	var removed *model.Event
	filtered := make([]model.Event, 0, len(st.events))
	for _, event := range st.events {
		if event.ID == eventID {
			e := event
			removed = &e
			continue
		}
		filtered = append(filtered, event)
	}
	if removed == nil {
		// 未加入,no-op
		s.mu.Unlock()
		return
	}
	st.events = filtered
	snapshot := make([]model.Event, len(filtered))
	copy(snapshot, filtered)
	s.mu.Unlock()

	s.persist(ctx, ident.UID, snapshot)

	if removed.Source != model.SourceUser || ident.Email == "" {
		return
	}

	email := ident.Email
	go func() {
		err := s.store.RemoveParticipant(context.Background(), eventID, email)
		if err != nil && !errors.Is(err, app_errors.ErrEventNotFound) {
			// not found 表示遠端已經沒有這筆,視為已達成
			logger.WithComponent("participation").Warn("Failed to remove event participation",
				zap.String("event_id", eventID), zap.Error(err))
		}
	}()
}

func (s *ParticipationServiceImpl) Reconcile(ctx context.Context, ident *model.Identity, events []model.Event) {
	if ident == nil {
		return
	}
	st := s.ensure(ctx, ident)

	if ident.Email == "" {
		// 未登入(或身份不完整)時清空整個已加入快取
		s.mu.Lock()
		changed := len(st.events) > 0
		st.events = nil
		s.mu.Unlock()
		if changed {
			s.persist(ctx, ident.UID, []model.Event{})
		}
		return
	}

	remoteJoined := make([]model.Event, 0)
	remoteIDs := make(map[string]struct{})
	for _, event := range events {
		if event.Source != model.SourceUser {
			continue
		}
		if event.HasParticipant(ident.Email) {
			remoteJoined = append(remoteJoined, event)
			remoteIDs[event.ID] = struct{}{}
		}
	}

	s.mu.Lock()
	// user 來源以遠端為準;其餘(種子資料)沒有遠端列表可對,原樣保留
	next := make([]model.Event, 0, len(remoteJoined)+len(st.events))
	next = append(next, remoteJoined...)
	for _, event := range st.events {
		if _, ok := remoteIDs[event.ID]; ok {
			continue
		}
		if event.Source != model.SourceUser {
			next = append(next, event)
		}
	}

	if eventListsEqual(st.events, next) {
		// 結果相同就跳過持久化,避免每次刷新都寫一次儲存
		s.mu.Unlock()
		return
	}
	st.events = next
	snapshot := make([]model.Event, len(next))
	copy(snapshot, next)
	s.mu.Unlock()

	s.persist(ctx, ident.UID, snapshot)
}

func (s *ParticipationServiceImpl) ReconcileAll(ctx context.Context, events []model.Event) {
	s.mu.Lock()
	idents := make([]model.Identity, 0, len(s.users))
	for uid, st := range s.users {
		idents = append(idents, model.Identity{UID: uid, Email: st.email})
	}
	s.mu.Unlock()

	for i := range idents {
		s.Reconcile(ctx, &idents[i], events)
	}
}

func (s *ParticipationServiceImpl) persist(ctx context.Context, uid string, events []model.Event) {
	if err := s.cache.Save(ctx, uid, events); err != nil {
		logger.WithComponent("participation").Warn("Failed to persist joined events",
			zap.String("uid", uid), zap.Error(err))
	}
}

// eventListsEqual 只比 id 集合,與排序無關
func eventListsEqual(left, right []model.Event) bool {
	if len(left) != len(right) {
		return false
	}
	leftIDs := make(map[string]struct{}, len(left))
	for _, event := range left {
		leftIDs[event.ID] = struct{}{}
	}
	for _, event := range right {
		if _, ok := leftIDs[event.ID]; !ok {
			return false
		}
	}
	return true
}
