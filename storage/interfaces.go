package storage

import "catalogue-cleaner/models"

// SummaryWriter is the interface any summary sink must satisfy.
type SummaryWriter interface {
	Write(records []*models.AggregateRecord) error
	Close() error
}
