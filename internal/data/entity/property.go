package entity

import (
	"github.com/google/uuid"
)

type Property struct {
	Base
	HostID uuid.UUID `db:"host_id"`
	Name   string    `db:"name"`
	City   string    `db:"city"`
}

// RoomType prices are per night in currency minor units.
type RoomType struct {
	Base
	PropertyID    uuid.UUID `db:"property_id"`
	Name          string    `db:"name"`
	PricePerNight int64     `db:"price_per_night"`
	TotalRooms    int       `db:"total_rooms"`
}
