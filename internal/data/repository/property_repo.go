package repository

import (
	"context"
	"fmt"

	"homestay-booking/internal/data/entity"
	"homestay-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type PropertyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Property, error)
	FindByHostID(ctx context.Context, hostID uuid.UUID) ([]*entity.Property, error)
	FindRoomTypeByID(ctx context.Context, id uuid.UUID) (*entity.RoomType, error)
}

type propertyRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPropertyRepository(db database.PgxIface, log *zap.Logger) PropertyRepository {
	return &propertyRepository{
		db:  db,
		log: log.With(zap.String("repository", "property")),
	}
}

func (r *propertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Property, error) {
	query := `
		SELECT id, host_id, name, city, created_at, updated_at
		FROM properties
		WHERE id = $1
	`

	var property entity.Property
	err := r.db.QueryRow(ctx, query, id).Scan(
		&property.ID,
		&property.HostID,
		&property.Name,
		&property.City,
		&property.CreatedAt,
		&property.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find property by ID",
			zap.Error(err),
			zap.String("property_id", id.String()),
		)
		return nil, fmt.Errorf("find property by ID %s: %w", id.String(), err)
	}

	return &property, nil
}

func (r *propertyRepository) FindByHostID(ctx context.Context, hostID uuid.UUID) ([]*entity.Property, error) {
	query := `
		SELECT id, host_id, name, city, created_at, updated_at
		FROM properties
		WHERE host_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, hostID)
	if err != nil {
		r.log.Error("Failed to find properties by host ID",
			zap.Error(err),
			zap.String("host_id", hostID.String()),
		)
		return nil, fmt.Errorf("find properties by host ID %s: %w", hostID.String(), err)
	}
	defer rows.Close()

	var properties []*entity.Property
	for rows.Next() {
		var property entity.Property
		err := rows.Scan(
			&property.ID,
			&property.HostID,
			&property.Name,
			&property.City,
			&property.CreatedAt,
			&property.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan property row: %w", err)
		}
		properties = append(properties, &property)
	}

	return properties, nil
}

func (r *propertyRepository) FindRoomTypeByID(ctx context.Context, id uuid.UUID) (*entity.RoomType, error) {
	query := `
		SELECT id, property_id, name, price_per_night, total_rooms, created_at, updated_at
		FROM room_types
		WHERE id = $1
	`

	var roomType entity.RoomType
	err := r.db.QueryRow(ctx, query, id).Scan(
		&roomType.ID,
		&roomType.PropertyID,
		&roomType.Name,
		&roomType.PricePerNight,
		&roomType.TotalRooms,
		&roomType.CreatedAt,
		&roomType.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find room type by ID",
			zap.Error(err),
			zap.String("room_type_id", id.String()),
		)
		return nil, fmt.Errorf("find room type by ID %s: %w", id.String(), err)
	}

	return &roomType, nil
}
