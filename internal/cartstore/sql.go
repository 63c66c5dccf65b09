package cartstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// snapshotRecord is the persisted row backing a session's cart snapshot.
type snapshotRecord struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Payload   []byte    `gorm:"column:payload;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (snapshotRecord) TableName() string {
	return "cart_snapshots"
}

// SQLStore keeps cart snapshots in a relational database, one row per
// session, upserted on every commit.
type SQLStore struct {
	db        *gorm.DB
	namespace string
}

var _ Store = (*SQLStore)(nil)

// NewSQLStore binds the store to the provided GORM handle. namespace
// prefixes row keys so several deployments can share a table.
func NewSQLStore(db *gorm.DB, namespace string) (*SQLStore, error) {
	if db == nil {
		return nil, fmt.Errorf("gorm handle is required")
	}
	return &SQLStore{db: db, namespace: namespace}, nil
}

func (s *SQLStore) Load(ctx context.Context, sessionID string) ([]byte, bool, error) {
	var record snapshotRecord
	err := s.db.WithContext(ctx).
		Where("key = ?", s.rowKey(sessionID)).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("load snapshot %q: %w", sessionID, err)
	}
	return record.Payload, true, nil
}

func (s *SQLStore) Save(ctx context.Context, sessionID string, payload []byte) error {
	record := snapshotRecord{
		Key:       s.rowKey(sessionID),
		Payload:   payload,
		UpdatedAt: time.Now().UTC(),
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).
		Create(&record).Error
	if err != nil {
		return fmt.Errorf("save snapshot %q: %w", sessionID, err)
	}
	return nil
}

func (s *SQLStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (s *SQLStore) rowKey(sessionID string) string {
	if s.namespace == "" {
		return sessionID
	}
	return fmt.Sprintf("%s:%s", s.namespace, sessionID)
}
