package model

import (
	"strings"
	"time"

	"evenza/pkg/app_errors"
)

const (
	headlineMaxLen  = 90
	headlineCutLen  = 87
	DefaultImageURL = "https://images.unsplash.com/photo-1521737604893-d14cc237f11d?auto=format&fit=crop&w=1200&q=80"
)

// BuildHeadline 由描述產生列表用標題：空白壓成單一空格後，
// 90 字以內原樣使用，超過則取前 87 字加 "..."
func BuildHeadline(description string) string {
	singleLine := strings.Join(strings.Fields(description), " ")
	if singleLine == "" {
		return "New event"
	}
	runes := []rune(singleLine)
	if len(runes) <= headlineMaxLen {
		return singleLine
	}
	return string(runes[:headlineCutLen]) + "..."
}

// FormatDateLabel 寫入時計算的日期顯示欄位 (例如 "Friday, March 12")
func FormatDateLabel(t time.Time) string {
	return t.Format("Monday, January 2")
}

// FormatTimeLabel 24 小時制時間顯示欄位
func FormatTimeLabel(t time.Time) string {
	return t.Format("15:04")
}

func LocationLabel(mode LocationMode) string {
	if mode == ModeOnsite {
		return "On site"
	}
	return "Online event"
}

// ValidateDateRange 建立/更新時檢查 end >= start；既存資料不在此保證
func ValidateDateRange(start, end time.Time) error {
	if end.Before(start) {
		return app_errors.ErrInvalidDateRange
	}
	return nil
}
