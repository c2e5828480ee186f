package dbservice

import (
	"github.com/alaaharoun/livetranslate-server/pkg/dbmodels"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// migratedModels lists every table the server owns.
var migratedModels = []any{
	&dbmodels.TranscriptionSession{},
}

// DatabaseService keeps the per-session history rows.
type DatabaseService struct {
	db     *gorm.DB
	logger *logrus.Entry
}

func New(db *gorm.DB, logger *logrus.Logger) *DatabaseService {
	return &DatabaseService{
		db:     db,
		logger: logger.WithField("service", "database"),
	}
}

// Migrate creates or updates the session history tables.
func (s *DatabaseService) Migrate() error {
	tables, err := s.tableNames()
	if err != nil {
		return err
	}
	if err := s.db.AutoMigrate(migratedModels...); err != nil {
		s.logger.WithError(err).WithField("tables", tables).Errorln("migration failed")
		return err
	}
	s.logger.WithField("tables", tables).Infoln("session history tables ready")
	return nil
}

func (s *DatabaseService) tableNames() ([]string, error) {
	names := make([]string, 0, len(migratedModels))
	for _, m := range migratedModels {
		stmt := &gorm.Statement{DB: s.db}
		if err := stmt.Parse(m); err != nil {
			return nil, err
		}
		names = append(names, stmt.Schema.Table)
	}
	return names, nil
}
