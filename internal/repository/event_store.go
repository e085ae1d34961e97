package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"evenza/internal/model"
	"evenza/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EventStore 遠端活動文件集合的存取介面。
// 回傳的 Event 已在此邊界正規化完畢，上層不需再分支處理資料形狀。
type EventStore interface {
	// ListOrdered 依建立時間新到舊回傳全部活動
	ListOrdered(ctx context.Context) ([]model.Event, error)
	FindByID(ctx context.Context, id string) (*model.Event, error)
	// Insert 由 store 指派 id 並回填 id 與時間戳
	Insert(ctx context.Context, event *model.Event) error
	Update(ctx context.Context, id string, params model.UpdateEventParams) error
	Delete(ctx context.Context, id string) error
	// AddParticipant 集合語意：結構相同的參加者不會重複
	AddParticipant(ctx context.Context, eventID string, participant model.Participant) error
	// RemoveParticipant 以小寫 email 比對移除，連同舊版裸字串紀錄一併清掉
	RemoveParticipant(ctx context.Context, eventID string, email string) error
}

type EventStoreImpl struct {
	pool *pgxpool.Pool
}

func NewEventStore(pool *pgxpool.Pool) EventStore {
	return &EventStoreImpl{pool: pool}
}

const eventColumns = `id, title, description, headline, category, date_label, time_label,
	location, location_type, image_url, is_featured, is_popular,
	start_datetime, end_datetime, created_by, participants, created_at, updated_at`

func (s *EventStoreImpl) ListOrdered(ctx context.Context) ([]model.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM events
		ORDER BY created_at DESC
	`, eventColumns)

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]model.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}
	return events, rows.Err()
}

func (s *EventStoreImpl) FindByID(ctx context.Context, id string) (*model.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM events
		WHERE id = $1
	`, eventColumns)

	rows, err := s.pool.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, app_errors.ErrEventNotFound
	}
	return scanEvent(rows)
}

func (s *EventStoreImpl) Insert(ctx context.Context, event *model.Event) error {
	event.ID = uuid.NewString()

	participants, err := json.Marshal(participantDocs(event.Participants))
	if err != nil {
		return err
	}

	query := `
		INSERT INTO events (
			id, title, description, headline, category, date_label, time_label,
			location, location_type, image_url, is_featured, is_popular,
			start_datetime, end_datetime, created_by, participants
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING created_at, updated_at
	`
	var createdAt, updatedAt time.Time
	err = s.pool.QueryRow(ctx, query,
		event.ID, event.Title, event.Description, event.Headline, string(event.Category),
		event.Date, event.Time, event.Location, string(event.Mode), event.Image,
		event.IsFeatured, event.IsPopular,
		event.StartDateTime, event.EndDateTime, event.CreatedBy, participants,
	).Scan(&createdAt, &updatedAt)
	if err != nil {
		return mapWriteError(err)
	}

	event.CreatedAt = &createdAt
	event.UpdatedAt = &updatedAt
	return nil
}

func (s *EventStoreImpl) Update(ctx context.Context, id string, params model.UpdateEventParams) error {
	sets := []string{}
	args := []interface{}{}
	argPos := 1

	add := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argPos))
		args = append(args, value)
		argPos++
	}

	if params.Title != nil {
		add("title", *params.Title)
	}
	if params.Description != nil {
		add("description", *params.Description)
	}
	if params.Headline != nil {
		add("headline", *params.Headline)
	}
	if params.Category != nil {
		add("category", string(*params.Category))
	}
	if params.Date != nil {
		add("date_label", *params.Date)
	}
	if params.Time != nil {
		add("time_label", *params.Time)
	}
	if params.Location != nil {
		add("location", *params.Location)
	}
	if params.Mode != nil {
		add("location_type", string(*params.Mode))
	}
	if params.Image != nil {
		add("image_url", *params.Image)
	}
	if params.StartDateTime != nil {
		add("start_datetime", *params.StartDateTime)
	}
	if params.EndDateTime != nil {
		add("end_datetime", *params.EndDateTime)
	}

	if len(sets) == 0 {
		return app_errors.ErrInvalidInput
	}

	add("updated_at", time.Now().UTC())
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE events
		SET %s
		WHERE id = $%d
	`, strings.Join(sets, ", "), argPos)

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return mapWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return app_errors.ErrEventNotFound
	}
	return nil
}

func (s *EventStoreImpl) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return mapWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return app_errors.ErrEventNotFound
	}
	return nil
}

func (s *EventStoreImpl) AddParticipant(ctx context.Context, eventID string, participant model.Participant) error {
	doc, err := json.Marshal([]participantDoc{newParticipantDoc(participant)})
	if err != nil {
		return err
	}

	query := `
		UPDATE events
		SET participants = (
			SELECT COALESCE(jsonb_agg(DISTINCT elem), '[]'::jsonb)
			FROM jsonb_array_elements(participants || $2::jsonb) AS elem
		),
		updated_at = now()
		WHERE id = $1
	`
	tag, err := s.pool.Exec(ctx, query, eventID, doc)
	if err != nil {
		return mapWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return app_errors.ErrEventNotFound
	}
	return nil
}

func (s *EventStoreImpl) RemoveParticipant(ctx context.Context, eventID string, email string) error {
	query := `
		UPDATE events
		SET participants = (
			SELECT COALESCE(jsonb_agg(elem), '[]'::jsonb)
			FROM jsonb_array_elements(participants) AS elem
			WHERE NOT (
				(jsonb_typeof(elem) = 'string' AND lower(elem #>> '{}') = lower($2))
				OR (jsonb_typeof(elem) = 'object' AND lower(elem ->> 'email') = lower($2))
			)
		),
		updated_at = now()
		WHERE id = $1
	`
	tag, err := s.pool.Exec(ctx, query, eventID, email)
	if err != nil {
		return mapWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return app_errors.ErrEventNotFound
	}
	return nil
}

// mapWriteError SQLSTATE 42501 表示後端授權層(例如 RLS)拒絕了寫入
func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "42501" {
		return app_errors.ErrPermissionDenied
	}
	return err
}

// participantDoc 儲存層的參加者形狀
type participantDoc struct {
	Email string  `json:"email"`
	UID   *string `json:"uid"`
}

func newParticipantDoc(p model.Participant) participantDoc {
	doc := participantDoc{Email: p.Email}
	if p.UID != "" {
		doc.UID = &p.UID
	}
	return doc
}

func participantDocs(participants []model.Participant) []participantDoc {
	docs := make([]participantDoc, 0, len(participants))
	for _, p := range participants {
		docs = append(docs, newParticipantDoc(p))
	}
	return docs
}

// decodeParticipants 舊資料的參加者欄位可能是裸 email 字串或 {email, uid} 物件，
// 在此一次正規化成單一形狀
func decodeParticipants(raw []byte) []model.Participant {
	if len(raw) == 0 {
		return nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil
	}

	participants := make([]model.Participant, 0, len(elems))
	for _, elem := range elems {
		var email string
		if err := json.Unmarshal(elem, &email); err == nil {
			participants = append(participants, model.Participant{Email: email})
			continue
		}
		var doc participantDoc
		if err := json.Unmarshal(elem, &doc); err == nil {
			p := model.Participant{Email: doc.Email}
			if doc.UID != nil {
				p.UID = *doc.UID
			}
			participants = append(participants, p)
		}
	}
	return model.DedupeParticipants(participants)
}

func scanEvent(rows pgx.Rows) (*model.Event, error) {
	var (
		event               model.Event
		category            string
		mode                string
		participantsRaw     []byte
		createdAt, updateAt time.Time
	)

	err := rows.Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.Headline,
		&category,
		&event.Date,
		&event.Time,
		&event.Location,
		&mode,
		&event.Image,
		&event.IsFeatured,
		&event.IsPopular,
		&event.StartDateTime,
		&event.EndDateTime,
		&event.CreatedBy,
		&participantsRaw,
		&createdAt,
		&updateAt,
	)
	if err != nil {
		return nil, err
	}

	event.Category = model.NormalizeCategory(category)
	event.Mode = model.NormalizeMode(mode)
	event.Participants = decodeParticipants(participantsRaw)
	event.CreatedAt = &createdAt
	event.UpdatedAt = &updateAt
	event.Source = model.SourceUser

	// 舊紀錄的缺漏欄位補上預設值
	if event.Title == "" {
		event.Title = "Untitled event"
	}
	if event.Headline == "" {
		event.Headline = model.BuildHeadline(event.Description)
	}
	if event.Date == "" && event.StartDateTime != nil {
		event.Date = model.FormatDateLabel(*event.StartDateTime)
	}
	if event.Time == "" && event.StartDateTime != nil {
		event.Time = model.FormatTimeLabel(*event.StartDateTime)
	}
	if event.Location == "" {
		event.Location = model.LocationLabel(event.Mode)
	}
	if event.Image == "" {
		event.Image = model.DefaultImageURL
	}

	return &event, nil
}
