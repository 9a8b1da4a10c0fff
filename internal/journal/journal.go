// Package journal keeps a best-effort audit trail of accepted order
// mutations in a relational table. The in-memory store stays the
// authoritative state; the journal exists so a restarted process leaves
// an inspectable record of the season's orders. Write failures are logged
// and swallowed, never surfaced to the request path.
package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/livingwaters/fundraiser-backend/pkg/config"
	"github.com/livingwaters/fundraiser-backend/pkg/logger"
	"github.com/livingwaters/fundraiser-backend/pkg/model"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// OrderRecord is one audit row. Items are stored as a JSON blob; the
// journal is written for humans and ad-hoc queries, not joins.
type OrderRecord struct {
	RecordID   uint      `gorm:"primaryKey;autoIncrement"`
	OrderID    string    `gorm:"index;not null"`
	Action     string    `gorm:"not null"`
	Customer   string    `gorm:"not null"`
	Group      string    `gorm:"column:assigned_group;not null"`
	TotalPrice int       `gorm:"not null"`
	Fulfilled  bool      `gorm:"not null"`
	ItemsJSON  string    `gorm:"column:items_json;type:text"`
	RecordedAt time.Time `gorm:"index;not null"`
}

func (OrderRecord) TableName() string {
	return "order_journal"
}

const (
	actionCreated = "created"
	actionUpdated = "updated"
)

// Journal appends order mutation records to the configured database.
type Journal struct {
	conn *gorm.DB
	logg *logger.Logger
	now  func() time.Time
}

// New opens the journal database and migrates its single table. The
// driver is selected by config; sqlite for a local file, postgres for a
// shared instance.
func New(ctx context.Context, cfg config.JournalConfig, logg *logger.Logger) (*Journal, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("journal DSN is required")
	}

	var dialector gorm.Dialector
	switch strings.ToLower(cfg.Driver) {
	case "sqlite", "":
		dialector = sqlite.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.New(postgres.Config{DSN: cfg.DSN, PreferSimpleProtocol: true})
	default:
		return nil, fmt.Errorf("unknown journal driver %q", cfg.Driver)
	}

	gormLogger := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)
	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening journal db: %w", err)
	}
	if err := conn.AutoMigrate(&OrderRecord{}); err != nil {
		return nil, fmt.Errorf("migrating journal table: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "order journal ready")
	}
	return &Journal{conn: conn, logg: logg, now: time.Now}, nil
}

// OrderCreated appends a creation record.
func (j *Journal) OrderCreated(ctx context.Context, order model.Order) {
	j.append(ctx, actionCreated, order)
}

// OrderUpdated appends an update record.
func (j *Journal) OrderUpdated(ctx context.Context, order model.Order) {
	j.append(ctx, actionUpdated, order)
}

func (j *Journal) append(ctx context.Context, action string, order model.Order) {
	items, err := json.Marshal(order.Items)
	if err != nil {
		j.warn(ctx, order.ID, err)
		return
	}
	record := OrderRecord{
		OrderID:    order.ID,
		Action:     action,
		Customer:   order.CustomerName,
		Group:      string(order.AssignedGroup),
		TotalPrice: order.TotalPrice,
		Fulfilled:  order.IsFulfilled,
		ItemsJSON:  string(items),
		RecordedAt: j.now().UTC(),
	}
	if err := j.conn.WithContext(ctx).Create(&record).Error; err != nil {
		j.warn(ctx, order.ID, err)
	}
}

func (j *Journal) warn(ctx context.Context, orderID string, err error) {
	if j.logg == nil {
		return
	}
	j.logg.Warn(j.logg.WithOrderID(ctx, orderID), fmt.Sprintf("journal append failed: %v", err))
}

// Recent returns the newest records up to limit, for ad-hoc inspection.
func (j *Journal) Recent(ctx context.Context, limit int) ([]OrderRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	var records []OrderRecord
	err := j.conn.WithContext(ctx).
		Order("record_id DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("reading journal: %w", err)
	}
	return records, nil
}

// Ping verifies the journal database is reachable.
func (j *Journal) Ping(ctx context.Context) error {
	sqlDB, err := j.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close shuts down the underlying connection pool.
func (j *Journal) Close() error {
	sqlDB, err := j.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
