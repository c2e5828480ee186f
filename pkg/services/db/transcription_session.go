package dbservice

import (
	"errors"

	"github.com/alaaharoun/livetranslate-server/pkg/dbmodels"
	"gorm.io/gorm"
)

func (s *DatabaseService) InsertTranscriptionSession(info *dbmodels.TranscriptionSession) (int64, error) {
	result := s.db.Create(info)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (s *DatabaseService) GetTranscriptionSessions(connectionId string) ([]dbmodels.TranscriptionSession, error) {
	var sessions []dbmodels.TranscriptionSession
	cond := &dbmodels.TranscriptionSession{
		ConnectionID: connectionId,
	}

	result := s.db.Where(cond).Order("id asc").Find(&sessions)
	switch {
	case errors.Is(result.Error, gorm.ErrRecordNotFound):
		return nil, nil
	case result.Error != nil:
		return nil, result.Error
	}
	return sessions, nil
}
