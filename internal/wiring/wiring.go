// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/lockaudit/internal/adapters/cache"
	_ "go.trai.ch/lockaudit/internal/adapters/config"
	_ "go.trai.ch/lockaudit/internal/adapters/lockfile"
	_ "go.trai.ch/lockaudit/internal/adapters/logger"
	_ "go.trai.ch/lockaudit/internal/adapters/metrics"
	_ "go.trai.ch/lockaudit/internal/adapters/ossindex"
	// Register app nodes.
	_ "go.trai.ch/lockaudit/internal/app"
)
