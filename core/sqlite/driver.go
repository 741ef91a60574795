package sqlite

import (
	_ "modernc.org/sqlite" // registers the pure Go "sqlite" driver
)

const (
	driverName    = "sqlite"
	driverType    = "purego"
	driverPackage = "modernc.org/sqlite"
)
