package score

// UserScore is the read-model view of one stats bucket.
type UserScore struct {
	Period         Period `json:"period"`
	Timeline       string `json:"timeline"`
	TotalScore     int    `json:"total_score"`
	InboxTaskCount int    `json:"inbox_task_count"`
	BigPlanCount   int    `json:"big_plan_count"`
}

// UserScoreBest is the read-model view of one period best.
type UserScoreBest struct {
	Period         Period `json:"period"`
	Timeline       string `json:"timeline"`
	SubPeriod      Period `json:"sub_period"`
	TotalScore     int    `json:"total_score"`
	InboxTaskCount int    `json:"inbox_task_count"`
	BigPlanCount   int    `json:"big_plan_count"`
}

// UserScoreOverview holds the current score of every period and every
// best of the current quarter, year and lifetime.
type UserScoreOverview struct {
	Scores []UserScore     `json:"scores"`
	Bests  []UserScoreBest `json:"bests"`
}

// Score returns the current score for p, zero-valued when absent.
func (o UserScoreOverview) Score(p Period) UserScore {
	for _, s := range o.Scores {
		if s.Period == p {
			return s
		}
	}
	return UserScore{Period: p}
}

// Best returns the best of sub inside the current p bucket.
func (o UserScoreOverview) Best(p, sub Period) UserScoreBest {
	for _, b := range o.Bests {
		if b.Period == p && b.SubPeriod == sub {
			return b
		}
	}
	return UserScoreBest{Period: p, SubPeriod: sub}
}

func userScoreFromStats(s Stats) UserScore {
	return UserScore{
		Period:         s.Period,
		Timeline:       s.Timeline,
		TotalScore:     s.TotalScore,
		InboxTaskCount: s.InboxTaskCount,
		BigPlanCount:   s.BigPlanCount,
	}
}

func userScoreBestFromBest(b PeriodBest) UserScoreBest {
	return UserScoreBest{
		Period:         b.Period,
		Timeline:       b.Timeline,
		SubPeriod:      b.SubPeriod,
		TotalScore:     b.TotalScore,
		InboxTaskCount: b.InboxTaskCount,
		BigPlanCount:   b.BigPlanCount,
	}
}

func newOverview(stats []Stats, bests []PeriodBest) UserScoreOverview {
	o := UserScoreOverview{
		Scores: make([]UserScore, 0, len(stats)),
		Bests:  make([]UserScoreBest, 0, len(bests)),
	}
	for _, s := range stats {
		o.Scores = append(o.Scores, userScoreFromStats(s))
	}
	for _, b := range bests {
		o.Bests = append(o.Bests, userScoreBestFromBest(b))
	}
	return o
}

// RecordResult is what recording a completed task returns.
type RecordResult struct {
	LatestTaskScore    int               `json:"latest_task_score"`
	HasLuckyPuppyBonus *bool             `json:"has_lucky_puppy_bonus"`
	ScoreOverview      UserScoreOverview `json:"score_overview"`
}
