package service

import "context"

// Notifier delivers a short human-readable message to the operator.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

type nopNotifier struct{}

func (nopNotifier) Notify(ctx context.Context, message string) error { return nil }
