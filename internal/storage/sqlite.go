package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// blobRow is the single-row table holding the serialized snapshot.
type blobRow struct {
	Key   string `gorm:"primaryKey"`
	Value []byte
}

func (blobRow) TableName() string { return "blobs" }

// SQLiteBlob keeps the blob in one row of a local sqlite database, the
// closest stand-in for a device key-value store.
type SQLiteBlob struct {
	db  *gorm.DB
	key string
}

// OpenSQLiteBlob opens (and migrates) the sqlite database at path. An
// empty key falls back to DefaultRedisKey's slot name.
func OpenSQLiteBlob(path, key string) (*SQLiteBlob, error) {
	if key == "" {
		key = DefaultRedisKey
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("storage: open sqlite %s: %w", path, err)
	}
	if err := db.AutoMigrate(&blobRow{}); err != nil {
		return nil, fmt.Errorf("storage: migrate blobs table: %w", err)
	}
	return &SQLiteBlob{db: db, key: key}, nil
}

// Load implements Blob.
func (b *SQLiteBlob) Load(ctx context.Context) ([]byte, error) {
	var row blobRow
	err := b.db.WithContext(ctx).First(&row, "key = ?", b.key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoBlob
	}
	if err != nil {
		return nil, fmt.Errorf("storage: sqlite load %s: %w", b.key, err)
	}
	return row.Value, nil
}

// Save implements Blob.
func (b *SQLiteBlob) Save(ctx context.Context, data []byte) error {
	row := blobRow{Key: b.key, Value: data}
	err := b.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("storage: sqlite save %s: %w", b.key, err)
	}
	return nil
}

// Close implements Blob.
func (b *SQLiteBlob) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
