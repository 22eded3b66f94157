package database

import (
	"strconv"
	"strings"
)

// Selection picks the jobs of a scoring run. IDs take precedence over Rescore.
type Selection struct {
	IDs     []string
	Rescore bool
	Limit   int
}

func scoringQuery(sel Selection) (string, []any) {
	var b strings.Builder
	var args []any
	b.WriteString(selectJobs)

	switch {
	case len(sel.IDs) > 0:
		args = append(args, sel.IDs)
		b.WriteString(` WHERE job_id = ANY($1)`)
	case !sel.Rescore:
		b.WriteString(` WHERE match_score IS NULL`)
	}
	b.WriteString(` ORDER BY job_id`)
	if sel.Limit > 0 && len(sel.IDs) == 0 {
		args = append(args, sel.Limit)
		b.WriteString(` LIMIT $` + strconv.Itoa(len(args)))
	}
	return b.String(), args
}

// scoreRange builds the WHERE clause shared by reset and its preview count
func scoreRange(min, max *int) (string, []any) {
	where := []string{"match_score IS NOT NULL"}
	var args []any
	if min != nil {
		args = append(args, *min)
		where = append(where, "match_score >= $"+strconv.Itoa(len(args)))
	}
	if max != nil {
		args = append(args, *max)
		where = append(where, "match_score <= $"+strconv.Itoa(len(args)))
	}
	return " WHERE " + strings.Join(where, " AND "), args
}

func resetQuery(min, max *int) (string, []any) {
	where, args := scoreRange(min, max)
	return `UPDATE job SET match_score = NULL, match_reasoning = NULL, scored_at = NULL` + where, args
}

func rangeCountQuery(min, max *int) (string, []any) {
	where, args := scoreRange(min, max)
	return `SELECT count(*) FROM job` + where, args
}
