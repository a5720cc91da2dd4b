package dateutil

import (
	"testing"
	"time"
)

func TestToday(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	// 2024-03-02 05:00 in UTC+9 is still 2024-03-01 in UTC.
	got := Today(time.Date(2024, 3, 2, 5, 0, 0, 0, loc))
	want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Today() = %v, want %v", got, want)
	}
}

func TestFromParts(t *testing.T) {
	var cases = []struct {
		parts []int64
		want  string
		ok    bool
	}{
		{nil, "", false},
		{[]int64{0}, "", false},
		{[]int64{2024}, "2024-01-01", true},
		{[]int64{2024, 3}, "2024-03-01", true},
		{[]int64{2024, 3, 9}, "2024-03-09", true},
		{[]int64{2024, 0, 0}, "2024-01-01", true},
		{[]int64{2023, 2, 30}, "", false},
		{[]int64{2024, 13}, "", false},
	}
	for _, c := range cases {
		got, ok := FromParts(c.parts)
		if ok != c.ok {
			t.Errorf("FromParts(%v) ok = %v, want %v", c.parts, ok, c.ok)
			continue
		}
		if ok && got.Format(Layout) != c.want {
			t.Errorf("FromParts(%v) = %s, want %s", c.parts, got.Format(Layout), c.want)
		}
	}
}

func TestParse(t *testing.T) {
	got, err := Parse("2024-01-10T08:12:44Z")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got.Format(Layout) != "2024-01-10" {
		t.Errorf("Parse() = %v", got)
	}
}
