package main

import (
	"os"
	"strings"

	"github.com/labstack/gommon/log"
)

func OutputLogFile(path string) {
	if logger.Length == 0 || path == "" {
		return
	}

	logFile, err := os.Create(path)
	if err != nil {
		log.Warnf("could not create log file %s: %s", path, err)
		return
	}
	defer logFile.Close()

	_, _ = logFile.Write([]byte(strings.Join(logger.Records, "\n") + "\n"))
	log.Infof("wrote %d warnings to %s", logger.Length, path)
}

func (l *Logger) Append(message string) {
	l.Length++
	l.Records = append(l.Records, strings.TrimRight(message, "\n"))
	log.Debug(message)
}
