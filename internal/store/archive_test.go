package store

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestArchive_SameMonth(t *testing.T) {
	ix := New([]Document{
		doc(t, "2025-04-10-daily-news", "2025-04-10T08:00:00+08:00"),
		doc(t, "2025-04-29-daily-news", "2025-04-29T08:00:00+08:00"),
	})

	if diff := cmp.Diff([]int{2025}, ix.Years()); diff != "" {
		t.Errorf("Years mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{4}, ix.Months(2025)); diff != "" {
		t.Errorf("Months mismatch (-want +got):\n%s", diff)
	}
	want := []string{"2025-04-29-daily-news", "2025-04-10-daily-news"}
	if diff := cmp.Diff(want, slugs(ix.InMonth(2025, 4))); diff != "" {
		t.Errorf("InMonth mismatch (-want +got):\n%s", diff)
	}
}

func TestArchive_YearsAndMonthsDescending(t *testing.T) {
	ix := New([]Document{
		doc(t, "a", "2023-11-02T00:00:00Z"),
		doc(t, "b", "2025-01-15T00:00:00Z"),
		doc(t, "c", "2025-03-01T00:00:00Z"),
		doc(t, "d", "2024-07-04T00:00:00Z"),
		doc(t, "e", "2025-03-20T00:00:00Z"),
	})

	if diff := cmp.Diff([]int{2025, 2024, 2023}, ix.Years()); diff != "" {
		t.Errorf("Years mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{3, 1}, ix.Months(2025)); diff != "" {
		t.Errorf("Months mismatch (-want +got):\n%s", diff)
	}
	if got := ix.Months(2022); len(got) != 0 {
		t.Errorf("expected no months for 2022, got %v", got)
	}
	if got := ix.InMonth(2025, 2); len(got) != 0 {
		t.Errorf("expected no documents for 2025-02, got %v", slugs(got))
	}
}

func TestArchive_NoEmptyGroups(t *testing.T) {
	ix := New([]Document{
		doc(t, "a", "2025-01-15T00:00:00Z"),
		doc(t, "b", "2024-06-01T00:00:00Z"),
	})
	for _, y := range ix.Years() {
		months := ix.Months(y)
		if len(months) == 0 {
			t.Errorf("year %d listed with no months", y)
		}
		for _, m := range months {
			if len(ix.InMonth(y, m)) == 0 {
				t.Errorf("%d-%02d listed with no documents", y, m)
			}
		}
	}
}

func TestArchive_Counts(t *testing.T) {
	ix := New([]Document{
		doc(t, "a", "2025-04-01T00:00:00Z"),
		doc(t, "b", "2025-04-02T00:00:00Z"),
		doc(t, "c", "2025-02-02T00:00:00Z"),
		doc(t, "d", "2024-12-31T00:00:00Z"),
	})

	want := []YearArchive{
		{Year: 2025, Months: []MonthCount{{Month: 4, Count: 2}, {Month: 2, Count: 1}}},
		{Year: 2024, Months: []MonthCount{{Month: 12, Count: 1}}},
	}
	if diff := cmp.Diff(want, ix.Archive()); diff != "" {
		t.Errorf("Archive mismatch (-want +got):\n%s", diff)
	}
}

func TestArchive_GroupsInWrittenOffset(t *testing.T) {
	// 00:30 on May 1st in Shanghai is still April 30th in UTC.
	ix := New([]Document{doc(t, "a", "2025-05-01T00:30:00+08:00")})
	if diff := cmp.Diff([]int{5}, ix.Months(2025)); diff != "" {
		t.Errorf("expected grouping by written offset (-want +got):\n%s", diff)
	}

	utc := New([]Document{doc(t, "a", "2025-05-01T00:30:00+08:00")}, WithLocation(time.UTC))
	if diff := cmp.Diff([]int{4}, utc.Months(2025)); diff != "" {
		t.Errorf("expected grouping in UTC (-want +got):\n%s", diff)
	}
}
