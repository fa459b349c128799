package service

import (
	"fmt"
	"io"
	"log/slog"
)

// Notifier receives user-facing success and failure messages.
type Notifier interface {
	Success(msg string)
	Error(msg string, err error)
}

// LogNotifier forwards notifications to a structured logger.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) Success(msg string) {
	n.logger().Info(msg)
}

func (n LogNotifier) Error(msg string, err error) {
	n.logger().Error(msg, "error", err)
}

func (n LogNotifier) logger() *slog.Logger {
	if n.Logger == nil {
		return slog.Default()
	}
	return n.Logger
}

// WriterNotifier prints notifications as plain lines, for terminal sessions.
type WriterNotifier struct {
	W io.Writer
}

func (n WriterNotifier) Success(msg string) {
	fmt.Fprintf(n.W, "✓ %s\n", msg)
}

func (n WriterNotifier) Error(msg string, err error) {
	if err != nil {
		fmt.Fprintf(n.W, "✗ %s: %v\n", msg, err)
		return
	}
	fmt.Fprintf(n.W, "✗ %s\n", msg)
}
