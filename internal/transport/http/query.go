package http

import (
	"net/url"
	"strconv"

	"basequiz-service/internal/domain"
)

// parseRankingQuery reads mode, difficulty, variant, sort, dir and page.
// Missing parameters keep the default view; variant=all lifts the variant filter.
func parseRankingQuery(values url.Values) (domain.RankingQuery, error) {
	q := domain.DefaultRankingQuery()

	if raw := values.Get("mode"); raw != "" {
		mode, err := domain.ParseMode(raw)
		if err != nil {
			return q, err
		}
		q.Filter.Mode = mode
	}
	if raw := values.Get("difficulty"); raw != "" {
		d, err := domain.ParseDifficulty(raw)
		if err != nil {
			return q, err
		}
		q.Filter.Difficulty = d
	}
	switch raw := values.Get("variant"); raw {
	case "":
	case "all":
		q.Filter.Variant = domain.VariantAll
	default:
		v := domain.Variant(raw)
		if !v.Valid() {
			return q, &domain.ValidationError{Field: "variant", Message: "must be fixed, time_attack or all"}
		}
		q.Filter.Variant = v
	}
	if raw := values.Get("sort"); raw != "" {
		col := domain.SortColumn(raw)
		if !col.Valid() {
			return q, &domain.ValidationError{Field: "sort", Message: "unknown column"}
		}
		q.Sort = col
	}
	if raw := values.Get("dir"); raw != "" {
		dir := domain.SortDirection(raw)
		if !dir.Valid() {
			return q, &domain.ValidationError{Field: "dir", Message: "must be asc or desc"}
		}
		q.Direction = dir
	}
	if raw := values.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return q, &domain.ValidationError{Field: "page", Message: "must be a positive integer"}
		}
		q.Page = page
	}
	return q, nil
}
