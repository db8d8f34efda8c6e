package model

// Room mirrors the `rooms` table.
type Room struct {
	ID     uint64  `json:"id"`
	Number string  `json:"room_number"`
	Floor  string  `json:"floor"`
	Beds   int     `json:"number_of_beds"`
	Price  float64 `json:"price"` // price per night
}
