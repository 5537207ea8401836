package domain

// Variant filters rankings by game type.
type Variant string

const (
	VariantAll        Variant = ""
	VariantFixed      Variant = "fixed"
	VariantTimeAttack Variant = "time_attack"
)

func (v Variant) Valid() bool {
	return v == VariantAll || v == VariantFixed || v == VariantTimeAttack
}

// Matches reports whether a record belongs to the variant.
func (v Variant) Matches(r RankingRecord) bool {
	switch v {
	case VariantFixed:
		return !r.IsTimeAttack()
	case VariantTimeAttack:
		return r.IsTimeAttack()
	}
	return true
}

// RankingFilter narrows the records fetched from storage. Zero values match everything.
type RankingFilter struct {
	Mode       Mode       `json:"mode,omitempty"`
	Difficulty Difficulty `json:"difficulty,omitempty"`
	Variant    Variant    `json:"variant,omitempty"`
}

func (f RankingFilter) Matches(r RankingRecord) bool {
	if f.Mode != "" && r.Mode != f.Mode {
		return false
	}
	if f.Difficulty != "" && r.Difficulty != f.Difficulty {
		return false
	}
	return f.Variant.Matches(r)
}

// SortColumn is a sortable leaderboard column.
type SortColumn string

const (
	SortRank    SortColumn = "rank"
	SortName    SortColumn = "name"
	SortCorrect SortColumn = "correct"
	SortScore   SortColumn = "score"
	SortTime    SortColumn = "time"
	SortMode    SortColumn = "mode"
)

func (c SortColumn) Valid() bool {
	switch c {
	case SortRank, SortName, SortCorrect, SortScore, SortTime, SortMode:
		return true
	}
	return false
}

// SortDirection is asc or desc.
type SortDirection string

const (
	Asc  SortDirection = "asc"
	Desc SortDirection = "desc"
)

func (d SortDirection) Valid() bool { return d == Asc || d == Desc }

// RankingQuery is the full state of a leaderboard viewer.
type RankingQuery struct {
	Filter    RankingFilter `json:"filter"`
	Sort      SortColumn    `json:"sort"`
	Direction SortDirection `json:"direction"`
	Page      int           `json:"page"`
}

// DefaultRankingQuery shows fixed rounds by descending score.
func DefaultRankingQuery() RankingQuery {
	return RankingQuery{
		Filter:    RankingFilter{Variant: VariantFixed},
		Sort:      SortScore,
		Direction: Desc,
		Page:      1,
	}
}

// Normalize replaces invalid fields with defaults.
func (q RankingQuery) Normalize() RankingQuery {
	if !q.Filter.Mode.Valid() {
		q.Filter.Mode = ""
	}
	if !q.Filter.Difficulty.Valid() {
		q.Filter.Difficulty = ""
	}
	if !q.Filter.Variant.Valid() {
		q.Filter.Variant = VariantFixed
	}
	if !q.Sort.Valid() {
		q.Sort = SortScore
	}
	if !q.Direction.Valid() {
		q.Direction = Desc
	}
	if q.Page < 1 {
		q.Page = 1
	}
	return q
}

// QueryChange is a single viewer interaction. Exactly one field is expected to be set.
type QueryChange struct {
	ToggleMode       Mode       `json:"toggleMode,omitempty"`
	ToggleDifficulty Difficulty `json:"toggleDifficulty,omitempty"`
	Variant          *Variant   `json:"variant,omitempty"`
	Sort             SortColumn `json:"sort,omitempty"`
	Page             int        `json:"page,omitempty"`
}

// Apply returns the query after a viewer interaction. Selecting an active
// filter clears it, and every filter change goes back to page one. Sorting
// by the current column flips the direction; a new column starts descending.
func (q RankingQuery) Apply(c QueryChange) RankingQuery {
	switch {
	case c.ToggleMode != "":
		if q.Filter.Mode == c.ToggleMode {
			q.Filter.Mode = ""
		} else {
			q.Filter.Mode = c.ToggleMode
		}
		q.Page = 1
	case c.ToggleDifficulty != "":
		if q.Filter.Difficulty == c.ToggleDifficulty {
			q.Filter.Difficulty = ""
		} else {
			q.Filter.Difficulty = c.ToggleDifficulty
		}
		q.Page = 1
	case c.Variant != nil:
		q.Filter.Variant = *c.Variant
		q.Page = 1
	case c.Sort != "":
		if q.Sort == c.Sort {
			if q.Direction == Asc {
				q.Direction = Desc
			} else {
				q.Direction = Asc
			}
		} else {
			q.Sort = c.Sort
			q.Direction = Desc
		}
		q.Page = 1
	case c.Page > 0:
		q.Page = c.Page
	}
	return q.Normalize()
}

// RankedRecord is a record as shown in the leaderboard.
type RankedRecord struct {
	Rank          int           `json:"rank"`
	Record        RankingRecord `json:"record"`
	ModeLabel     string        `json:"modeLabel"`
	TimeAttack    bool          `json:"timeAttack"`
	CorrectRatio  float64       `json:"correctRatio"`
	PerQuestionMs int64         `json:"perQuestionMs,omitempty"`
	DisplayTime   string        `json:"displayTime"`
}

// RankingPage is one page of the leaderboard view.
type RankingPage struct {
	Query      RankingQuery   `json:"query"`
	Entries    []RankedRecord `json:"entries"`
	TotalItems int            `json:"totalItems"`
	TotalPages int            `json:"totalPages"`
}
