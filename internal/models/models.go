package models

import "time"

// DefaultBio is put on a profile created by the first /auth/telegram call.
const DefaultBio = "Edit your profile"

// TelegramUser is the identity payload a Telegram client supplies when
// opening the Mini App. It is never regenerated by this service.
type TelegramUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
	PhotoURL  string `json:"photo_url,omitempty"`
}

// Links holds one validated URL per supported platform. An empty string
// means "no link".
type Links struct {
	Telegram  string `json:"telegram"`
	LinkedIn  string `json:"linkedin"`
	VK        string `json:"vk"`
	Instagram string `json:"instagram"`
}

// User is the application-owned profile keyed by Telegram id.
type User struct {
	TelegramID    int64     `json:"id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name,omitempty"`
	Username      string    `json:"username,omitempty"`
	PhotoURL      string    `json:"photo_url,omitempty"`
	Bio           string    `json:"bio"`
	Position      string    `json:"position"`
	Links         Links     `json:"links"`
	IsActive      bool      `json:"is_active"`
	ReferralCode  string    `json:"referral_code,omitempty"`
	ReferralCount int       `json:"referral_count"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Event is owned by the external store; this service only reads it.
// Date is an ISO calendar date (2006-01-02), Time is HH:MM.
type Event struct {
	ID               int64     `json:"id"`
	Title            string    `json:"title"`
	ShortDescription string    `json:"short_description"`
	Description      string    `json:"description,omitempty"`
	Date             string    `json:"date"`
	Time             string    `json:"time"`
	Location         string    `json:"location"`
	Lat              *float64  `json:"lat,omitempty"`
	Lng              *float64  `json:"lng,omitempty"`
	EventType        string    `json:"event_type,omitempty"`
	Tags             []string  `json:"tags"`
	CreatedAt        time.Time `json:"created_at"`
}
