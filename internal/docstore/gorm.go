package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DocumentRecord is the SQL row behind every document: one table holds all
// collections, keyed by (collection, id), with the payload as JSON text.
type DocumentRecord struct {
	Collection string    `gorm:"primaryKey;size:64" json:"collection"`
	ID         string    `gorm:"primaryKey;size:191" json:"id"`
	Data       string    `gorm:"type:text;not null" json:"data"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (DocumentRecord) TableName() string {
	return "documents"
}

// GormStore persists documents in PostgreSQL (or SQLite in tests) via GORM.
// Filters run in Go after loading the collection.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// AutoMigrate creates the documents table.
func (s *GormStore) AutoMigrate() error {
	return s.db.AutoMigrate(&DocumentRecord{})
}

func (s *GormStore) Collection(name string) Collection {
	return &gormCollection{db: s.db, name: name}
}

func (s *GormStore) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type gormCollection struct {
	db   *gorm.DB
	name string
}

func (c *gormCollection) Get(ctx context.Context, id string) (Document, error) {
	var rec DocumentRecord
	err := c.db.WithContext(ctx).
		Where("collection = ? AND id = ?", c.name, id).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return unmarshalRecord(rec)
}

func (c *gormCollection) GetAll(ctx context.Context) ([]Snapshot, error) {
	var recs []DocumentRecord
	err := c.db.WithContext(ctx).
		Where("collection = ?", c.name).
		Order("created_at ASC").Order("id ASC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	out := make([]Snapshot, 0, len(recs))
	for _, rec := range recs {
		doc, err := unmarshalRecord(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, Snapshot{ID: rec.ID, Data: doc})
	}
	return out, nil
}

func (c *gormCollection) Query(ctx context.Context, q *Query) ([]Snapshot, error) {
	all, err := c.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return q.Apply(all), nil
}

func (c *gormCollection) Set(ctx context.Context, id string, doc Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("docstore: marshal %s/%s: %w", c.name, id, err)
	}
	rec := DocumentRecord{Collection: c.name, ID: id, Data: string(raw)}
	return c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "collection"}, {Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&rec).Error
}

func (c *gormCollection) Update(ctx context.Context, id string, fields map[string]any) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec DocumentRecord
		err := tx.Where("collection = ? AND id = ?", c.name, id).First(&rec).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		doc, err := unmarshalRecord(rec)
		if err != nil {
			return err
		}
		for path, value := range fields {
			setPath(doc, path, normalize(value))
		}
		raw, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("docstore: marshal %s/%s: %w", c.name, id, err)
		}
		return tx.Model(&DocumentRecord{}).
			Where("collection = ? AND id = ?", c.name, id).
			Updates(map[string]any{"data": string(raw), "updated_at": time.Now()}).Error
	})
}

func (c *gormCollection) Delete(ctx context.Context, id string) error {
	return c.db.WithContext(ctx).
		Where("collection = ? AND id = ?", c.name, id).
		Delete(&DocumentRecord{}).Error
}

func (c *gormCollection) Add(ctx context.Context, doc Document) (string, error) {
	id := uuid.NewString()
	if err := c.Set(ctx, id, doc); err != nil {
		return "", err
	}
	return id, nil
}

func unmarshalRecord(rec DocumentRecord) (Document, error) {
	doc := Document{}
	if err := json.Unmarshal([]byte(rec.Data), &doc); err != nil {
		return nil, fmt.Errorf("docstore: corrupt document %s/%s: %w", rec.Collection, rec.ID, err)
	}
	return doc, nil
}
