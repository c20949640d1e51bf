package model

import "time"

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// ValidStatus reports whether s is one of the appointment statuses the
// schema accepts.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusCancelled
}

type Service struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Price           float64   `json:"price"`
	DurationMinutes int       `json:"duration_minutes"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
}

// Appointment keeps the slot as a (date, time-of-day) pair of strings:
// date in 2006-01-02 form, time in zero-padded HH:MM. At most one
// non-cancelled appointment may hold a given pair.
type Appointment struct {
	ID            int64     `json:"id"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	CustomerPhone string    `json:"customer_phone,omitempty"`
	ServiceID     int64     `json:"service_id"`
	ServiceName   string    `json:"service_name,omitempty"`
	ServicePrice  float64   `json:"service_price,omitempty"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	Notes         string    `json:"notes,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// BusinessHours describes one weekday's operating window. Weekday follows
// time.Weekday (0=Sunday..6=Saturday); any other encoding is translated
// before it reaches the store.
type BusinessHours struct {
	Weekday   time.Weekday `json:"weekday"`
	OpenTime  string       `json:"open_time"`
	CloseTime string       `json:"close_time"`
	Active    bool         `json:"active"`
}

type ContactMessage struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// Availability is the free-slot view for one date.
type Availability struct {
	Date      string   `json:"date"`
	FreeSlots []string `json:"free_slots"`
	TotalFree int      `json:"total_free"`
}

type ContactStats struct {
	Total    int64 `json:"total"`
	Unread   int64 `json:"unread"`
	Read     int64 `json:"read"`
	Today    int64 `json:"today"`
	ThisWeek int64 `json:"this_week"`
}
