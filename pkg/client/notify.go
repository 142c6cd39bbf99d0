package client

import (
	"github.com/rs/zerolog"
)

type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Notification is a short message meant for the user.
type Notification struct {
	Level   Level
	Message string
}

type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// LogNotifier writes notifications to a zerolog logger.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (l *LogNotifier) Notify(n Notification) {
	if n.Level == LevelError {
		l.log.Error().Msg(n.Message)
		return
	}
	l.log.Info().Msg(n.Message)
}

type discardNotifier struct{}

func (discardNotifier) Notify(Notification) {}

func notifyErr(n Notifier, err error) error {
	if err != nil {
		n.Notify(Notification{Level: LevelError, Message: err.Error()})
	}
	return err
}
