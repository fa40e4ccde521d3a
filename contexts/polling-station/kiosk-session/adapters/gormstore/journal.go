package gormstore

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"pollstation/contexts/polling-station/kiosk-session/domain/entities"

	"gorm.io/gorm"
)

// Journal persists session audit entries in the kiosk's embedded database.
type Journal struct {
	db     *gorm.DB
	logger *slog.Logger
}

type auditEntryModel struct {
	ID         string    `gorm:"column:id;primaryKey"`
	SessionID  string    `gorm:"column:session_id;index"`
	KioskID    string    `gorm:"column:kiosk_id"`
	Kind       string    `gorm:"column:kind;index"`
	VoterNIC   string    `gorm:"column:voter_nic"`
	ElectionID string    `gorm:"column:election_id"`
	Detail     string    `gorm:"column:detail"`
	OccurredAt time.Time `gorm:"column:occurred_at;index"`
}

func (auditEntryModel) TableName() string {
	return "session_audit_entries"
}

func NewJournal(db *gorm.DB, logger *slog.Logger) (*Journal, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := db.AutoMigrate(&auditEntryModel{}); err != nil {
		return nil, err
	}
	return &Journal{db: db, logger: logger}, nil
}

func (j *Journal) Append(ctx context.Context, entry entities.AuditEntry) error {
	row := auditEntryModel{
		ID:         strings.TrimSpace(entry.EntryID),
		SessionID:  strings.TrimSpace(entry.SessionID),
		KioskID:    strings.TrimSpace(entry.KioskID),
		Kind:       string(entry.Kind),
		VoterNIC:   entry.VoterNIC,
		ElectionID: strings.TrimSpace(entry.ElectionID),
		Detail:     entry.Detail,
		OccurredAt: entry.OccurredAt.UTC(),
	}
	if err := j.db.WithContext(ctx).Create(&row).Error; err != nil {
		j.logger.Error("audit entry insert failed",
			"event", "session_journal_append_failed",
			"module", "polling-station/kiosk-session",
			"layer", "adapter",
			"session_id", row.SessionID,
			"kind", row.Kind,
			"error", err.Error(),
		)
		return err
	}
	return nil
}

// BySession lists a session's entries in occurrence order.
func (j *Journal) BySession(ctx context.Context, sessionID string) ([]entities.AuditEntry, error) {
	var rows []auditEntryModel
	err := j.db.WithContext(ctx).
		Where("session_id = ?", strings.TrimSpace(sessionID)).
		Order("occurred_at ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	entries := make([]entities.AuditEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, entities.AuditEntry{
			EntryID:    row.ID,
			SessionID:  row.SessionID,
			KioskID:    row.KioskID,
			Kind:       entities.AuditKind(row.Kind),
			VoterNIC:   row.VoterNIC,
			ElectionID: row.ElectionID,
			Detail:     row.Detail,
			OccurredAt: row.OccurredAt,
		})
	}
	return entries, nil
}
