package mysql

import (
	"context"
	"database/sql"
	"time"

	"vayada_admin/internal/domain"
)

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// AuditRepo is the MySQL journal of admin mutations.
type AuditRepo struct{ db *sql.DB }

func New(db *sql.DB) *AuditRepo { return &AuditRepo{db: db} }

func (r *AuditRepo) Record(ctx context.Context, e domain.AuditEntry) error {
	at := e.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := r.db.ExecContext(ctx, insertAuditSQL,
		e.Actor,
		e.Action,
		valStr(e.TargetID),
		valStr(e.Detail),
		at.UTC(),
	)
	return err
}

func (r *AuditRepo) Recent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, recentAuditSQL, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.AuditEntry
	for rows.Next() {
		var (
			e              domain.AuditEntry
			target, detail sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.Actor, &e.Action, &target, &detail, &e.At); err != nil {
			return nil, err
		}
		if target.Valid {
			e.TargetID = target.String
		}
		if detail.Valid {
			e.Detail = detail.String
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
