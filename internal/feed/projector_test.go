package feed_test

import (
	"testing"
	"time"

	"evenza/internal/feed"
	"evenza/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, time.August, 1, 12, 0, 0, 0, time.UTC)

func at(d time.Duration) *time.Time {
	t := now.Add(d)
	return &t
}

func ids(events []model.Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.ID)
	}
	return out
}

func TestResolveTimestamp(t *testing.T) {
	t.Run("Success - prefers startDateTime", func(t *testing.T) {
		ts, known := feed.ResolveTimestamp(model.Event{StartDateTime: at(time.Hour), Date: "2020-01-01"})
		require.True(t, known)
		assert.Equal(t, now.Add(time.Hour), ts)
	})

	t.Run("Success - falls back to parseable date label", func(t *testing.T) {
		ts, known := feed.ResolveTimestamp(model.Event{Date: "August 9, 2026"})
		require.True(t, known)
		assert.Equal(t, 2026, ts.Year())
	})

	t.Run("Success - unparseable label is unknown", func(t *testing.T) {
		_, known := feed.ResolveTimestamp(model.Event{Date: "Friday, March 12"})
		assert.False(t, known)
	})
}

func TestIsUpcoming(t *testing.T) {
	assert.True(t, feed.IsUpcoming(model.Event{StartDateTime: at(time.Hour)}, now))
	assert.True(t, feed.IsUpcoming(model.Event{StartDateTime: at(0)}, now))
	assert.False(t, feed.IsUpcoming(model.Event{StartDateTime: at(-time.Hour)}, now))
	// 時間未知的活動永遠視為 upcoming
	assert.True(t, feed.IsUpcoming(model.Event{Date: "unparseable"}, now))
}

func TestUpcoming(t *testing.T) {
	t.Run("Success - excludes past, unknown included after known future", func(t *testing.T) {
		events := []model.Event{
			{ID: "a", StartDateTime: at(24 * time.Hour)},
			{ID: "b", Date: "unparseable"},
			{ID: "c", StartDateTime: at(-24 * time.Hour)},
		}
		assert.Equal(t, []string{"a", "b"}, ids(feed.Upcoming(events, now)))
	})

	t.Run("Success - known futures sorted soonest first", func(t *testing.T) {
		events := []model.Event{
			{ID: "late", StartDateTime: at(72 * time.Hour)},
			{ID: "soon", StartDateTime: at(time.Hour)},
			{ID: "mid", StartDateTime: at(24 * time.Hour)},
		}
		assert.Equal(t, []string{"soon", "mid", "late"}, ids(feed.Upcoming(events, now)))
	})

	t.Run("Success - unknowns tie-broken by title", func(t *testing.T) {
		events := []model.Event{
			{ID: "z", Title: "Zebra night", Date: "??"},
			{ID: "a", Title: "Acoustic set", Date: "??"},
			{ID: "f", StartDateTime: at(time.Hour)},
		}
		assert.Equal(t, []string{"f", "a", "z"}, ids(feed.Upcoming(events, now)))
	})
}

func TestFeatured(t *testing.T) {
	events := []model.Event{
		{ID: "one", StartDateTime: at(time.Hour)},
		{ID: "past", StartDateTime: at(-time.Hour), IsFeatured: true},
		{ID: "two", StartDateTime: at(2 * time.Hour), IsFeatured: true},
		{ID: "three", Date: "??"},
		{ID: "four", StartDateTime: at(3 * time.Hour)},
	}

	t.Run("Success - arrival order takes first N upcoming", func(t *testing.T) {
		got := feed.Featured(events, now, feed.FeaturedSelection{Limit: 3})
		assert.Equal(t, []string{"one", "two", "three"}, ids(got))
	})

	t.Run("Success - flagged-only spotlight variant", func(t *testing.T) {
		got := feed.Featured(events, now, feed.FeaturedSelection{Limit: 1, FlaggedOnly: true})
		// past 雖有旗標但已過期
		assert.Equal(t, []string{"two"}, ids(got))
	})

	t.Run("Success - zero limit means no cap", func(t *testing.T) {
		got := feed.Featured(events, now, feed.FeaturedSelection{})
		assert.Len(t, got, 4)
	})
}

func TestPopular(t *testing.T) {
	events := []model.Event{
		{ID: "pop", IsPopular: true, StartDateTime: at(time.Hour)},
		{ID: "feat-pop", IsPopular: true, StartDateTime: at(2 * time.Hour)},
		{ID: "past-pop", IsPopular: true, StartDateTime: at(-time.Hour)},
		{ID: "plain", StartDateTime: at(time.Hour)},
	}
	featured := []model.Event{{ID: "feat-pop"}}

	got := feed.Popular(events, featured, now)
	assert.Equal(t, []string{"pop"}, ids(got))
}

func TestSearch(t *testing.T) {
	events := []model.Event{
		{ID: "m1", Title: "Morning Yoga", StartDateTime: at(48 * time.Hour)},
		{ID: "m2", Title: "Evening Run", CreatedBy: "yoga-club", StartDateTime: at(time.Hour)},
		{ID: "m3", Title: "Yoga Retreat", Date: "??"},
		{ID: "past", Title: "Yoga History", StartDateTime: at(-time.Hour)},
		{ID: "other", Title: "Chess Club", StartDateTime: at(time.Hour)},
	}

	t.Run("Success - matches title and creator, upcoming only, ascending", func(t *testing.T) {
		got := feed.Search(events, "yoga", now)
		// m2 最早,其次 m1,未知時間的 m3 最後;past 被排除
		assert.Equal(t, []string{"m2", "m1", "m3"}, ids(got))
	})

	t.Run("Success - case-insensitive", func(t *testing.T) {
		got := feed.Search(events, "YoGa", now)
		assert.Len(t, got, 3)
	})

	t.Run("Success - blank query returns nothing", func(t *testing.T) {
		assert.Empty(t, feed.Search(events, "   ", now))
	})
}
