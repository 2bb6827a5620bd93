package domain

import "errors"

var (
	// ErrInsufficientHistory means fewer than HistoryWindowDays usable sales rows.
	ErrInsufficientHistory = errors.New("insufficient sales history")
	// ErrArtifactMissing means no model or scaler was loaded for the product.
	ErrArtifactMissing = errors.New("forecast artifact missing")
	// ErrProductNotFound means the product has no inventory or info record.
	ErrProductNotFound = errors.New("product not found")
	// ErrNotificationFailure means the notification channel rejected a send.
	ErrNotificationFailure = errors.New("notification failed")
)
