// Package queue defines message payloads exchanged over the message broker.
package queue

// RentalActivatedEvent is published whenever a rental contract transitions
// to active, either by an immediate card payment or by a staff member
// confirming a cash payment.  It carries enough information for downstream
// consumers to log, notify, or trigger analytics without querying the
// primary database.
type RentalActivatedEvent struct {
	ContractID     uint64 `json:"contract_id"`
	PaymentID      uint64 `json:"payment_id"`
	CustomerID     uint64 `json:"customer_id"`
	RoomID         uint64 `json:"room_id"`
	RoomNumber     string `json:"room_number"`
	PaymentMethod  string `json:"payment_method"`
	TotalRentCents int64  `json:"total_rent_cents"`
	ActivatedAt    string `json:"activated_at"`
}
