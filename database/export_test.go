package database

import "io/fs"

var NewMigrate = newMigrate

func MigrationsFS() fs.FS {
	return migrationsFS
}
