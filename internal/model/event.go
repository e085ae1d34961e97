package model

import (
	"strings"
	"time"
)

// Source 標記活動資料來源：靜態種子資料或使用者建立
type Source string

const (
	SourceStatic Source = "static"
	SourceUser   Source = "user"
)

type LocationMode string

const (
	ModeOnsite LocationMode = "Onsite"
	ModeOnline LocationMode = "Online"
)

// NormalizeMode 非 Onsite 一律視為 Online
func NormalizeMode(raw string) LocationMode {
	if raw == string(ModeOnsite) {
		return ModeOnsite
	}
	return ModeOnline
}

type Category string

const (
	CategoryMusic    Category = "Music"
	CategoryTech     Category = "Tech"
	CategoryArt      Category = "Art"
	CategoryWorkshop Category = "Workshop"
	CategoryGeneral  Category = "General"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryMusic, CategoryTech, CategoryArt, CategoryWorkshop, CategoryGeneral:
		return true
	}
	return false
}

// NormalizeCategory 未知或舊版分類一律歸到 General
func NormalizeCategory(raw string) Category {
	c := Category(raw)
	if c.IsValid() {
		return c
	}
	return CategoryGeneral
}

type Participant struct {
	Email string `json:"email"`
	UID   string `json:"uid,omitempty"`
}

// Event 活動模型。date/time/location 為寫入時計算的顯示欄位，
// 舊資料可能帶有手寫 label，讀取時不得重新格式化覆蓋。
type Event struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Headline      string        `json:"headline"`
	Category      Category      `json:"category"`
	Date          string        `json:"date"`
	Time          string        `json:"time"`
	Location      string        `json:"location"`
	Mode          LocationMode  `json:"mode"`
	Description   string        `json:"description"`
	Image         string        `json:"image"`
	IsFeatured    bool          `json:"isFeatured,omitempty"`
	IsPopular     bool          `json:"isPopular,omitempty"`
	CreatedBy     string        `json:"createdBy,omitempty"`
	CreatedAt     *time.Time    `json:"createdAt,omitempty"`
	UpdatedAt     *time.Time    `json:"updatedAt,omitempty"`
	StartDateTime *time.Time    `json:"startDateTime,omitempty"`
	EndDateTime   *time.Time    `json:"endDateTime,omitempty"`
	Source        Source        `json:"source,omitempty"`
	Participants  []Participant `json:"participants,omitempty"`
}

// HasParticipant 以 email 比對參加者(大小寫不敏感)
func (e *Event) HasParticipant(email string) bool {
	if email == "" {
		return false
	}
	lower := strings.ToLower(email)
	for _, p := range e.Participants {
		if strings.ToLower(p.Email) == lower {
			return true
		}
	}
	return false
}

func (e *Event) ParticipantEmails() []string {
	emails := make([]string, 0, len(e.Participants))
	for _, p := range e.Participants {
		emails = append(emails, p.Email)
	}
	return emails
}

// DedupeParticipants 以小寫 email 去重，保留先出現者；空 email 直接丟棄
func DedupeParticipants(participants []Participant) []Participant {
	seen := make(map[string]struct{}, len(participants))
	result := make([]Participant, 0, len(participants))
	for _, p := range participants {
		key := strings.ToLower(strings.TrimSpace(p.Email))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, p)
	}
	return result
}

// CreateEventInput 建立活動輸入
type CreateEventInput struct {
	Title         string
	Description   string
	Category      Category
	StartDateTime time.Time
	EndDateTime   time.Time
	Mode          LocationMode
	ImageBase64   string
}

// UpdateEventInput 更新活動輸入；nil 欄位表示不變更。
// 只有 ImageChanged 為 true 時才會重新上傳圖片。
type UpdateEventInput struct {
	ID            string
	Title         *string
	Description   *string
	Category      *Category
	StartDateTime *time.Time
	EndDateTime   *time.Time
	Mode          *LocationMode
	ImageChanged  bool
	ImageBase64   string
}

// UpdateEventParams store 層的部分更新欄位
type UpdateEventParams struct {
	Title         *string
	Description   *string
	Headline      *string
	Category      *Category
	Date          *string
	Time          *string
	Location      *string
	Mode          *LocationMode
	Image         *string
	StartDateTime *time.Time
	EndDateTime   *time.Time
}

// DeletedEvent 刪除後回傳的快照，供外部寄送取消通知
type DeletedEvent struct {
	Title             string   `json:"title"`
	Date              string   `json:"date"`
	Location          string   `json:"location"`
	ParticipantEmails []string `json:"participantEmails"`
}

// Identity 目前登入者
type Identity struct {
	UID           string
	Email         string
	EmailVerified bool
}

type User struct {
	ID               string
	Email            string
	PasswordHash     string
	EmailVerified    bool
	VerificationCode string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
