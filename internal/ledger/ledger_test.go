package ledger

import (
	"testing"
	"time"
)

func TestDayNormalizesToLocalCalendarDay(t *testing.T) {
	manila, err := time.LoadLocation("Asia/Manila")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	tests := []struct {
		name string
		at   time.Time
		want time.Time
	}{
		{
			// 18:30 UTC is 02:30 the next day in Manila (UTC+8).
			name: "utc evening crosses into next Manila day",
			at:   time.Date(2025, 6, 2, 18, 30, 0, 0, time.UTC),
			want: time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "utc morning stays on the same Manila day",
			at:   time.Date(2025, 6, 2, 3, 0, 0, 0, time.UTC),
			want: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "manila midnight maps to its own day",
			at:   time.Date(2025, 6, 3, 0, 0, 0, 0, manila),
			want: time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "just before manila midnight keeps the earlier day",
			at:   time.Date(2025, 6, 2, 23, 59, 59, 0, manila),
			want: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Day(tt.at, manila)
			if !got.Equal(tt.want) {
				t.Errorf("Day(%v) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}
