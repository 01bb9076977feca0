package score

import (
	"testing"
	"time"
)

func TestStatsMergeCountsBySource(t *testing.T) {
	t0 := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)
	s := NewStats(1, PeriodDaily, "2024-03-15", t0)

	s = s.Merge(Entry{Source: EntrySourceInboxTask, Score: 1}, t0)
	s = s.Merge(Entry{Source: EntrySourceBigPlan, Score: 15}, t1)
	s = s.Merge(Entry{Source: EntrySourceInboxTask, Score: -3}, t1)

	if s.TotalScore != 13 || s.InboxTaskCount != 2 || s.BigPlanCount != 1 {
		t.Fatalf("stats: %+v", s)
	}
	if !s.CreatedTime.Equal(t0) || !s.LastModifiedTime.Equal(t1) {
		t.Fatalf("times: created=%s modified=%s", s.CreatedTime, s.LastModifiedTime)
	}
}

func TestStatsMergeIsPure(t *testing.T) {
	s := NewStats(1, PeriodWeekly, "2024-W11", time.Now())
	_ = s.Merge(Entry{Source: EntrySourceInboxTask, Score: 4}, time.Now())
	if s.TotalScore != 0 || s.InboxTaskCount != 0 {
		t.Fatalf("Merge mutated receiver: %+v", s)
	}
}

func TestPeriodBestUpdateToMaxIsComponentWise(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b := NewPeriodBest(1, PeriodQuarterly, "2024-Q1", PeriodDaily, t0)

	b, changed := b.UpdateToMax(Stats{TotalScore: 20, InboxTaskCount: 1}, t0.Add(time.Hour))
	if !changed {
		t.Fatalf("first update should change")
	}
	b, changed = b.UpdateToMax(Stats{TotalScore: 3, InboxTaskCount: 3, BigPlanCount: 0}, t0.Add(2*time.Hour))
	if !changed {
		t.Fatalf("higher inbox count should change")
	}
	if b.TotalScore != 20 || b.InboxTaskCount != 3 || b.BigPlanCount != 0 {
		t.Fatalf("best: %+v", b)
	}

	before := b.LastModifiedTime
	b, changed = b.UpdateToMax(Stats{TotalScore: -5, InboxTaskCount: 3}, t0.Add(3*time.Hour))
	if changed {
		t.Fatalf("dominated snapshot should not change")
	}
	if !b.LastModifiedTime.Equal(before) {
		t.Fatalf("LastModifiedTime moved without a change")
	}
}

func TestOverviewLookups(t *testing.T) {
	o := newOverview(
		[]Stats{{Period: PeriodDaily, Timeline: "2024-03-15", TotalScore: 2}},
		[]PeriodBest{{Period: PeriodYearly, Timeline: "2024", SubPeriod: PeriodMonthly, TotalScore: 9}},
	)
	if got := o.Score(PeriodDaily); got.TotalScore != 2 || got.Timeline != "2024-03-15" {
		t.Fatalf("Score(daily): %+v", got)
	}
	if got := o.Score(PeriodLifetime); got.TotalScore != 0 || got.Period != PeriodLifetime {
		t.Fatalf("Score(lifetime): %+v", got)
	}
	if got := o.Best(PeriodYearly, PeriodMonthly); got.TotalScore != 9 {
		t.Fatalf("Best(yearly, monthly): %+v", got)
	}
}

func TestBestSlotsCoverTwelvePairs(t *testing.T) {
	slots := bestSlots()
	if len(slots) != 12 {
		t.Fatalf("slots: want=12 got=%d", len(slots))
	}
	seen := map[bestSlot]bool{}
	for _, s := range slots {
		if s.subPeriod.rank() >= s.period.rank() {
			t.Fatalf("sub-period %s not finer than %s", s.subPeriod, s.period)
		}
		if seen[s] {
			t.Fatalf("duplicate slot %+v", s)
		}
		seen[s] = true
	}
}
