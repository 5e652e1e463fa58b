package model

import "time"

// Room types accepted by the inventory.  The set is closed; validation
// happens in the handlers before any row is written.
const (
	RoomTypeStudy = "study"
	RoomTypeLab   = "lab"
)

// RoomTypes is the enumerated set of valid room types.
var RoomTypes = map[string]bool{
	RoomTypeStudy: true,
	RoomTypeLab:   true,
}

// Room mirrors the `rooms` table.  RentPriceCents is the daily rent in
// cents.  IsAvailable is derived state: it is recomputed from contract
// status on every inventory read and must not be treated as authoritative
// between reads.
type Room struct {
	ID             uint64    // rooms.id
	RoomNumber     string    // rooms.room_number (unique)
	RoomType       string    // rooms.room_type
	SizeSqm        *float64  // rooms.size_sqm (nullable)
	Description    string    // rooms.description
	RentPriceCents int64     // rooms.rent_price_cents (> 0)
	IsAvailable    bool      // rooms.is_available (derived)
	CreatedAt      time.Time // rooms.created_at
	UpdatedAt      time.Time // rooms.updated_at
}

// Furniture mirrors the `furniture` table.
type Furniture struct {
	ID          uint64    // furniture.id
	Name        string    // furniture.name (unique)
	Description string    // furniture.description
	CreatedAt   time.Time // furniture.created_at
	UpdatedAt   time.Time // furniture.updated_at
}

// RoomFurniture is the join row assigning a quantity of one furniture item
// to one room.  Identity is the (RoomID, FurnitureID) pair; room edits
// replace the whole assignment set rather than diffing it.
type RoomFurniture struct {
	RoomID      uint64 // room_furniture.room_id
	FurnitureID uint64 // room_furniture.furniture_id
	Quantity    uint32 // room_furniture.quantity (> 0)
}
