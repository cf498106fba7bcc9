package app

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"vayada_admin/internal/domain"
)

// Auditor journals admin mutations. A nil *Auditor or nil log is a no-op, and
// a failed write never fails the mutation it describes.
type Auditor struct {
	log   domain.AuditLog
	actor func() string
}

func NewAuditor(l domain.AuditLog, actor func() string) *Auditor {
	return &Auditor{log: l, actor: actor}
}

func (a *Auditor) Record(ctx context.Context, action, target, detail string) {
	if a == nil || a.log == nil {
		return
	}
	actor := "unknown"
	if a.actor != nil {
		if s := a.actor(); s != "" {
			actor = s
		}
	}
	e := domain.AuditEntry{
		Actor:    actor,
		Action:   action,
		TargetID: target,
		Detail:   strings.TrimSpace(detail),
		At:       time.Now(),
	}
	if err := a.log.Record(ctx, e); err != nil {
		log.Warn().Err(err).Str("action", action).Str("target", target).Msg("audit write failed")
	}
}

func (a *Auditor) Recent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	if a == nil || a.log == nil {
		return nil, nil
	}
	return a.log.Recent(ctx, limit)
}
