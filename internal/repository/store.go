package repository

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"taskdesk/internal/model"
)

// defaultCategories are seeded once, immediately after the schema is first
// created. Their ids (1..3) are protected from deletion by the service layer.
var defaultCategories = []model.Category{
	{Name: "Work", Icon: "💼"},
	{Name: "Personal", Icon: "👤"},
	{Name: "Urgent", Icon: "🔥"},
}

// Store owns the single SQLite handle for the process. It is constructed
// explicitly and passed by reference to each repository; there is no global
// instance. The file is not touched until the first Conn call, and a handle
// that was closed underneath us is transparently reopened.
type Store struct {
	mu  sync.Mutex
	dsn string
	db  *gorm.DB
}

// OpenStore prepares a store for the given SQLite path. Opening is lazy;
// the path is only validated when a connection is first requested.
func OpenStore(dsn string) *Store {
	if dsn == "" {
		dsn = "tasks.db"
	}
	return &Store{dsn: dsn}
}

// Conn returns a live handle with the schema guaranteed to exist,
// opening or reopening the database as needed.
func (s *Store) Conn(ctx context.Context) (*gorm.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil && s.alive() {
		return s.db.WithContext(ctx), nil
	}

	db, err := s.open()
	if err != nil {
		log.Printf("[warn] store unavailable: %v", err)
		return nil, err
	}
	s.db = db
	return s.db.WithContext(ctx), nil
}

// TestConnection reports whether the handle is open and responsive.
// Meant for a one-time startup health check.
func (s *Store) TestConnection(ctx context.Context) bool {
	db, err := s.Conn(ctx)
	if err != nil {
		return false
	}
	sqlDB, err := db.DB()
	if err != nil {
		return false
	}
	return sqlDB.PingContext(ctx) == nil
}

// Close releases the handle. Safe to call repeatedly or before first use.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	s.db = nil
	if err != nil {
		return nil
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}
	return nil
}

// alive pings the current handle; callers must hold s.mu.
func (s *Store) alive() bool {
	sqlDB, err := s.db.DB()
	if err != nil {
		return false
	}
	return sqlDB.Ping() == nil
}

// open establishes the connection, runs migrations and seeds defaults.
func (s *Store) open() (*gorm.DB, error) {
	if err := ensureDirForSQLite(s.dsn); err != nil {
		return nil, err
	}

	dbLogger := logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(s.connString()), &gorm.Config{
		Logger: dbLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.AutoMigrate(&model.Category{}, &model.Task{}); err != nil {
		return nil, fmt.Errorf("migrate db: %w", err)
	}

	if err := seedDefaultCategories(db); err != nil {
		return nil, fmt.Errorf("seed categories: %w", err)
	}

	return db, nil
}

// connString appends the foreign-key switch to the DSN. SQLite ships with
// foreign keys off and the pragma is per-connection, so it must ride on the
// DSN to reach every connection database/sql ever opens for the pool;
// cascade deletes depend on it.
func (s *Store) connString() string {
	if strings.Contains(s.dsn, "?") {
		return s.dsn + "&_fk=1"
	}
	return s.dsn + "?_fk=1"
}

// seedDefaultCategories inserts Work/Personal/Urgent iff the table is empty.
func seedDefaultCategories(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	seed := make([]model.Category, len(defaultCategories))
	copy(seed, defaultCategories)
	if err := db.Create(&seed).Error; err != nil {
		return err
	}
	log.Println("[info] default categories created")
	return nil
}

// ensureDirForSQLite creates the parent dir for the SQLite file if needed.
func ensureDirForSQLite(dsn string) error {
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}
	return nil
}
