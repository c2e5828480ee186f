package dbmodels

import (
	"time"

	"github.com/alaaharoun/livetranslate-server/pkg/config"
)

type TranscriptionSession struct {
	ID             uint64    `gorm:"column:id;type:int(11);primarykey;autoIncrement"`
	ConnectionID   string    `gorm:"column:connection_id;type:varchar(64);not null;index:idx_connection_id"`
	Generation     uint64    `gorm:"column:generation;type:int(11);not null;default:0"`
	Language       string    `gorm:"column:language;type:varchar(20);not null"`
	TargetLanguage string    `gorm:"column:target_language;type:varchar(20);not null;default:''"`
	AutoDetect     bool      `gorm:"column:auto_detect;not null;default:0"`
	RealTimeMode   bool      `gorm:"column:real_time_mode;not null;default:0"`
	Frames         int64     `gorm:"column:frames;not null;default:0"`
	Bytes          int64     `gorm:"column:bytes;not null;default:0"`
	DroppedFrames  int64     `gorm:"column:dropped_frames;not null;default:0"`
	Finals         int       `gorm:"column:finals;not null;default:0"`
	DurationSec    int64     `gorm:"column:duration_sec;not null;default:0"`
	Started        time.Time `gorm:"column:started;not null"`
	Ended          time.Time `gorm:"column:ended;not null"`
	CreationTime   int64     `gorm:"column:creation_time;type:int(11);autoCreateTime;not null"`
}

func (t *TranscriptionSession) TableName() string {
	return config.FormatDBTable("transcription_sessions")
}
