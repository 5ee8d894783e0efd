package service

import (
	"context"
	"log/slog"

	"licensedesk/internal/models"
	"licensedesk/internal/store"
)

// AsyncLogAdminAction records an audit entry without blocking the request.
// A failed write is logged and dropped; audit persistence never fails the
// user-facing operation.
func AsyncLogAdminAction(ctx context.Context, logStore store.LogStore, entry *models.AdminLog) {
	slog.Info("Admin Action",
		"action", entry.Action,
		"entity_type", entry.EntityType,
		"actor", entry.Actor,
	)

	go func() {
		if err := logStore.CreateAdminLog(context.Background(), entry); err != nil {
			slog.Error("Failed to create admin log", "error", err, "action", entry.Action)
		}
	}()
}
