// Package feed derives the home-screen event views (featured, popular,
// upcoming, search) from an event list. Pure functions, no I/O, no mutation.
package feed

import (
	"sort"
	"strings"
	"time"

	"evenza/internal/model"
)

// 解析 date label 的候選格式。種子資料常見的無年份 label
// (例如 "Friday, March 12") 不在其中：缺年份無法對應絕對時間點，視為未知。
var dateLabelLayouts = []string{
	time.RFC3339,
	"Monday, January 2, 2006",
	"January 2, 2006",
	"2006-01-02",
}

// ResolveTimestamp 回傳活動用於排序的時間點。優先使用 startDateTime，
// 否則嘗試解析 date label；兩者皆失敗時回傳 known=false。
func ResolveTimestamp(event model.Event) (ts time.Time, known bool) {
	if event.StartDateTime != nil {
		return *event.StartDateTime, true
	}
	for _, layout := range dateLabelLayouts {
		if parsed, err := time.Parse(layout, event.Date); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// IsUpcoming 時間未知的活動一律視為 upcoming
func IsUpcoming(event model.Event, now time.Time) bool {
	ts, known := ResolveTimestamp(event)
	if !known {
		return true
	}
	return !ts.Before(now)
}

type entry struct {
	event model.Event
	ts    time.Time
	known bool
}

func resolveUpcoming(events []model.Event, now time.Time) []entry {
	entries := make([]entry, 0, len(events))
	for _, event := range events {
		ts, known := ResolveTimestamp(event)
		if known && ts.Before(now) {
			continue
		}
		entries = append(entries, entry{event: event, ts: ts, known: known})
	}
	return entries
}

// Upcoming 首頁「即將到來」排序：
// 已知且未過期的依距今時間升冪；其後是已知但已過期的，依過期時間近者優先；
// 時間未知的排最後，以標題字典序決勝。
func Upcoming(events []model.Event, now time.Time) []model.Event {
	entries := resolveUpcoming(events, now)
	sortUpcoming(entries, now)
	return collect(entries)
}

func sortUpcoming(entries []entry, now time.Time) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		deltaA := a.ts.Sub(now)
		deltaB := b.ts.Sub(now)

		futureA := a.known && deltaA >= 0
		futureB := b.known && deltaB >= 0

		if futureA && futureB {
			return deltaA < deltaB
		}
		if futureA != futureB {
			return futureA
		}

		// 兩者皆非 future：已知(已過期)者優先，過期越近越前
		if a.known && b.known {
			return deltaA > deltaB
		}
		if a.known != b.known {
			return a.known
		}
		return a.event.Title < b.event.Title
	})
}

// FeaturedSelection 設定精選挑選方式。產品歷經多卡輪播與單卡 spotlight
// 兩種型態，以設定切換而非寫死分支。
type FeaturedSelection struct {
	// Limit 挑選數量上限；0 以下視為不限制
	Limit int
	// FlaggedOnly 為 true 時只挑 isFeatured 旗標的活動，
	// 否則取 upcoming 中依到達順序的前 Limit 筆
	FlaggedOnly bool
}

// DefaultFeaturedSelection 目前首頁輪播用的設定
var DefaultFeaturedSelection = FeaturedSelection{Limit: 3}

func Featured(events []model.Event, now time.Time, sel FeaturedSelection) []model.Event {
	result := make([]model.Event, 0, len(events))
	for _, event := range events {
		if !IsUpcoming(event, now) {
			continue
		}
		if sel.FlaggedOnly && !event.IsFeatured {
			continue
		}
		result = append(result, event)
		if sel.Limit > 0 && len(result) == sel.Limit {
			break
		}
	}
	return result
}

// Popular isPopular 旗標、upcoming、且未出現在精選的活動
func Popular(events []model.Event, featured []model.Event, now time.Time) []model.Event {
	featuredIDs := make(map[string]struct{}, len(featured))
	for _, event := range featured {
		featuredIDs[event.ID] = struct{}{}
	}

	result := make([]model.Event, 0, len(events))
	for _, event := range events {
		if !event.IsPopular {
			continue
		}
		if _, ok := featuredIDs[event.ID]; ok {
			continue
		}
		if !IsUpcoming(event, now) {
			continue
		}
		result = append(result, event)
	}
	return result
}

// Search 標題或建立者的大小寫不敏感子字串比對，限 upcoming，
// 依解析後時間升冪，未知時間排最後。
func Search(events []model.Event, query string, now time.Time) []model.Event {
	normalized := strings.ToLower(strings.TrimSpace(query))
	if normalized == "" {
		return []model.Event{}
	}

	matched := make([]entry, 0, len(events))
	for _, e := range resolveUpcoming(events, now) {
		title := strings.ToLower(e.event.Title)
		createdBy := strings.ToLower(e.event.CreatedBy)
		if strings.Contains(title, normalized) || strings.Contains(createdBy, normalized) {
			matched = append(matched, e)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if a.known && b.known {
			return a.ts.Before(b.ts)
		}
		return a.known && !b.known
	})
	return collect(matched)
}

func collect(entries []entry) []model.Event {
	result := make([]model.Event, 0, len(entries))
	for _, e := range entries {
		result = append(result, e.event)
	}
	return result
}
