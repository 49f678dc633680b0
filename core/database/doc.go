// Package database opens the GORM connection backing the run journal.
//
// Two drivers are supported: sqlite (a local file, the default) and mysql
// for shared deployments. Connect pings before returning so callers can treat a
// failure as "journal unavailable" and carry on.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    logg.Warn("Run journal disabled", zap.Error(err))
//	}
package database
