package api

import (
	"sort"
	"strconv"
	"time"

	"github.com/blog-api/internal/models"
)

// sortNewestFirst orders articles by their createdAt label, newest first.
// Labels that cannot be read as a date keep their relative order at the end.
func sortNewestFirst(articles []*models.Article) {
	type keyed struct {
		at time.Time
		ok bool
	}
	keys := make(map[*models.Article]keyed, len(articles))
	for _, a := range articles {
		at, ok := parseDateLabel(a.CreatedAt)
		keys[a] = keyed{at: at, ok: ok}
	}

	sort.SliceStable(articles, func(i, j int) bool {
		ki, kj := keys[articles[i]], keys[articles[j]]
		if ki.ok != kj.ok {
			return ki.ok
		}
		return ki.at.After(kj.at)
	})
}

// parseDateLabel accepts RFC 3339 timestamps, YYYY-MM-DD dates and the
// legacy compact form of unpadded day, unpadded month and a four digit
// year (15 July 2018 is "1572018").
func parseDateLabel(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return parseCompactDate(s)
}

func parseCompactDate(s string) (time.Time, bool) {
	if len(s) < 6 || len(s) > 8 {
		return time.Time{}, false
	}
	if _, err := strconv.Atoi(s); err != nil {
		return time.Time{}, false
	}

	year, _ := strconv.Atoi(s[len(s)-4:])
	dm := s[:len(s)-4]

	// A three digit prefix is ambiguous; a two digit day is tried first.
	var splits []int
	switch len(dm) {
	case 2:
		splits = []int{1}
	case 3:
		splits = []int{2, 1}
	case 4:
		splits = []int{2}
	}

	for _, at := range splits {
		day, _ := strconv.Atoi(dm[:at])
		month, _ := strconv.Atoi(dm[at:])
		if month < 1 || month > 12 || day < 1 {
			continue
		}
		t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		// time.Date normalises overflow, so reject dates that rolled over
		if t.Day() == day && int(t.Month()) == month {
			return t, true
		}
	}
	return time.Time{}, false
}
