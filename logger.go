package main

import (
	"go.uber.org/zap"
)

var combatLogger *zap.Logger

func initLogger(debug bool) error {
	var (
		logger *zap.Logger
		err    error
	)
	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return err
	}
	combatLogger = logger
	return nil
}

func closeLogger() {
	if combatLogger != nil {
		_ = combatLogger.Sync()
	}
}
