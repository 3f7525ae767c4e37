package repository

import (
	"context"
	"time"

	"github.com/mr1hm/go-neo-impact/internal/models"
)

// RecordCache stores catalog records with the time they were fetched.
// Only live catalog records belong here; synthetic ones are never stored.
type RecordCache interface {
	GetRecord(ctx context.Context, id string) (rec models.NEORecord, fetchedAt time.Time, found bool, err error)
	PutRecord(ctx context.Context, id string, rec models.NEORecord, fetchedAt time.Time) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
