package chat

import (
	"context"
	"log/slog"
	"time"
)

type (
	// Notification is a transient, dismissible message about the connection
	Notification struct {
		Kind        NotificationKind `json:"kind"`
		Title       string           `json:"title"`
		Description string           `json:"description"`
		Duration    time.Duration    `json:"duration"`
	}

	NotificationKind string

	// Notifier surfaces notifications to the user
	Notifier interface {
		Notify(Notification)
	}

	// NotifierFunc adapts a function to the Notifier interface
	NotifierFunc func(Notification)

	// LogNotifier writes notifications to the default slog logger
	LogNotifier struct{}
)

const (
	NotifySuccess NotificationKind = "success"
	NotifyFailure NotificationKind = "failure"
)

var (
	ConnectedNotification = Notification{
		Kind:        NotifySuccess,
		Title:       "Connected",
		Description: "Successfully connected to the chat server",
		Duration:    2 * time.Second,
	}

	ConnectionErrorNotification = Notification{
		Kind:        NotifyFailure,
		Title:       "Connection error",
		Description: "Failed to connect to the chat server",
		Duration:    3 * time.Second,
	}
)

func (f NotifierFunc) Notify(n Notification) {
	f(n)
}

func (LogNotifier) Notify(n Notification) {
	level := slog.LevelInfo
	if n.Kind == NotifyFailure {
		level = slog.LevelWarn
	}
	slog.Log(context.Background(), level, n.Title,
		slog.String("description", n.Description),
		slog.Duration("duration", n.Duration))
}
