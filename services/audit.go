package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/brackethq/competition-core/models"
	"github.com/brackethq/competition-core/repositories"
)

// AuditLogger records mutating competition actions with before/after
// snapshots. Implementations receive the caller's executor so the entry
// commits or rolls back together with the mutation it describes.
type AuditLogger interface {
	Record(ctx context.Context, exec repositories.SQLExecutor, action string, actorID, tournamentID int, before, after interface{}) error
}

type auditLogger struct {
	repo   repositories.AuditRepository
	logger *slog.Logger
}

func NewAuditLogger(repo repositories.AuditRepository, logger *slog.Logger) AuditLogger {
	return &auditLogger{repo: repo, logger: logger}
}

func (a *auditLogger) Record(ctx context.Context, exec repositories.SQLExecutor, action string, actorID, tournamentID int, before, after interface{}) error {
	entry := &models.AuditEntry{
		Action:       action,
		ActorID:      actorID,
		TournamentID: tournamentID,
	}

	var err error
	if before != nil {
		if entry.Before, err = json.Marshal(before); err != nil {
			return fmt.Errorf("failed to marshal audit before-snapshot for %q: %w", action, err)
		}
	}
	if after != nil {
		if entry.After, err = json.Marshal(after); err != nil {
			return fmt.Errorf("failed to marshal audit after-snapshot for %q: %w", action, err)
		}
	}

	if err := a.repo.Create(ctx, exec, entry); err != nil {
		return err
	}

	a.logger.Info("audit event",
		slog.String("action", action),
		slog.Int("actor_id", actorID),
		slog.Int("tournament_id", tournamentID))
	return nil
}

// NopAuditLogger discards entries; used by tests.
type NopAuditLogger struct{}

func (NopAuditLogger) Record(context.Context, repositories.SQLExecutor, string, int, int, interface{}, interface{}) error {
	return nil
}
