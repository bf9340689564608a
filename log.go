package main

import (
	"github.com/dgnsrekt/alexa-ssml/internal/config"
	"github.com/dgnsrekt/alexa-ssml/internal/logging"
)

func setupLog(c config.LogConfig) (func() error, error) {
	// close the log opened by a previous command in the same process
	_ = logCloser()
	return logging.Setup(c.Level, c.File)
}
