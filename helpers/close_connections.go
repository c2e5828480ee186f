package helpers

import (
	"github.com/alaaharoun/livetranslate-server/pkg/config"
)

func HandleCloseConnections(appCnf *config.AppConfig) {
	if appCnf == nil {
		return
	}

	if appCnf.DB != nil {
		if db, err := appCnf.DB.DB(); err == nil {
			_ = db.Close()
		}
	}
	if appCnf.RDS != nil {
		_ = appCnf.RDS.Close()
	}
	if appCnf.NatsConn != nil {
		// flushes pending transcript events
		_ = appCnf.NatsConn.Drain()
	}
}
