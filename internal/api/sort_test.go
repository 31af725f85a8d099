package api

import (
	"testing"
	"time"

	"github.com/blog-api/internal/models"
)

func TestParseDateLabel(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2024-03-01T10:00:00Z", time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), true},
		{"2024-03-01", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), true},
		{"1572018", time.Date(2018, 7, 15, 0, 0, 0, 0, time.UTC), true},
		{"172018", time.Date(2018, 7, 1, 0, 0, 0, 0, time.UTC), true},
		{"31122018", time.Date(2018, 12, 31, 0, 0, 0, 0, time.UTC), true},
		{"1112018", time.Date(2018, 1, 11, 0, 0, 0, 0, time.UTC), true},
		{"3122018", time.Date(2018, 12, 3, 0, 0, 0, 0, time.UTC), true},
		{"31022018", time.Time{}, false},
		{"yesterday", time.Time{}, false},
		{"", time.Time{}, false},
	}

	for _, tt := range tests {
		got, ok := parseDateLabel(tt.in)
		if ok != tt.ok || !got.Equal(tt.want) {
			t.Errorf("parseDateLabel(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestSortNewestFirst(t *testing.T) {
	articles := []*models.Article{
		{ID: "a", CreatedAt: "1372018"},
		{ID: "b", CreatedAt: "unknown"},
		{ID: "c", CreatedAt: "2019-01-01T00:00:00Z"},
		{ID: "d", CreatedAt: "1572018"},
	}

	sortNewestFirst(articles)

	want := []string{"c", "d", "a", "b"}
	for i, id := range want {
		if articles[i].ID != id {
			t.Fatalf("position %d: got %s, want %s", i, articles[i].ID, id)
		}
	}
}
