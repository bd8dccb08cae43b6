package postgres

import (
	"context"
	"errors"
	"fmt"

	"evroute/internal/model"

	"gorm.io/gorm"
)

const DefaultBatchSize = 1000

var ErrTripNotStored = errors.New("trip not stored")

// TripRepository persists trip summaries in the trip_pgs table.
type TripRepository struct {
	db        *gorm.DB
	batchSize int
}

func NewTripRepository(db *gorm.DB) *TripRepository {
	return &TripRepository{db: db, batchSize: DefaultBatchSize}
}

// SaveTrips upserts the trips, one transaction per batch. It returns the number of trips written
// before the first failing batch.
func (r *TripRepository) SaveTrips(ctx context.Context, trips []*model.Trip) (int, error) {
	saved := 0
	for _, b := range batches(len(trips), r.batchSize) {
		batch := trips[b[0]:b[1]]

		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			for _, trip := range batch {
				row, err := trip.ToPG()
				if err != nil {
					return fmt.Errorf("convert trip %s: %w", trip.ID, err)
				}
				if err := tx.Save(row).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return saved, fmt.Errorf("save trips %d-%d: %w", b[0], b[1], err)
		}
		saved += len(batch)
	}
	return saved, nil
}

// GetTrip loads a trip without its routes. It returns ErrTripNotStored for unknown ids.
func (r *TripRepository) GetTrip(ctx context.Context, id string) (*model.Trip, error) {
	var row model.TripPG
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTripNotStored
	}
	if err != nil {
		return nil, fmt.Errorf("get trip %s: %w", id, err)
	}
	return model.FromPG(&row)
}

// batches splits [0, n) into half-open ranges of at most size elements.
func batches(n, size int) [][2]int {
	if size <= 0 {
		size = DefaultBatchSize
	}
	var out [][2]int
	for i := 0; i < n; i += size {
		out = append(out, [2]int{i, min(i+size, n)})
	}
	return out
}
