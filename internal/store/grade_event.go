package store

import (
	"context"
	"database/sql"
	"fmt"
)

func (r *eventRepo) AppendGrade(ctx context.Context, data GradeEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	var qid sql.NullInt64
	if data.QuestionID > 0 {
		qid = sql.NullInt64{Int64: int64(data.QuestionID), Valid: true}
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO grade_events
		(sequence, request_id, created_at, question_id, reference, response, score, verdict, tier)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, data.RequestID, now().UTC().Format(timeLayout), qid,
		data.Reference, data.Response, data.Score, data.Verdict, data.Tier,
	)
	if err != nil {
		return fmt.Errorf("save grade event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryGrades(ctx context.Context, opts QueryOpts) ([]GradeEvent, error) {
	where, args := whereClause(opts)
	rows, err := r.db.QueryContext(ctx, `SELECT id, sequence, request_id, created_at, question_id,
		reference, response, score, verdict, tier FROM grade_events`+where, args...)
	if err != nil {
		return nil, fmt.Errorf("query grade events: %w", err)
	}
	defer rows.Close()

	var out []GradeEvent
	for rows.Next() {
		var (
			e   GradeEvent
			ts  string
			qid sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &e.Sequence, &e.RequestID, &ts, &qid,
			&e.Reference, &e.Response, &e.Score, &e.Verdict, &e.Tier); err != nil {
			return nil, fmt.Errorf("scan grade event: %w", err)
		}
		e.Timestamp = parseTime(ts)
		if qid.Valid {
			e.QuestionID = int(qid.Int64)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *eventRepo) PruneGrades(ctx context.Context, keep int) error {
	if keep < 0 {
		keep = 0
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM grade_events WHERE id NOT IN
		(SELECT id FROM grade_events ORDER BY sequence DESC LIMIT ?)`, keep)
	if err != nil {
		return fmt.Errorf("prune grade events: %w", err)
	}
	return nil
}

func (r *eventRepo) GradeStats(ctx context.Context) (GradeSummary, error) {
	sum := GradeSummary{ByTier: map[string]int{}}
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*),
		COALESCE(SUM(CASE WHEN verdict = 'Pass' THEN 1 ELSE 0 END), 0),
		COALESCE(AVG(score), 0) FROM grade_events`).
		Scan(&sum.Count, &sum.Passed, &sum.AvgScore)
	if err != nil {
		return sum, fmt.Errorf("query grade stats: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT tier, COUNT(*) FROM grade_events GROUP BY tier`)
	if err != nil {
		return sum, fmt.Errorf("query grade tiers: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			tier string
			n    int
		)
		if err := rows.Scan(&tier, &n); err != nil {
			return sum, fmt.Errorf("scan grade tier: %w", err)
		}
		sum.ByTier[tier] = n
	}
	return sum, rows.Err()
}
