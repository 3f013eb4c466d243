package registry

import "time"

// Gym is a registered gym. Owner is the principal that created it and never
// changes. Members and Services are append-only.
type Gym struct {
	ID          string    `db:"id" json:"id"`
	Owner       string    `db:"owner" json:"owner"`
	Name        string    `db:"name" json:"name"`
	ImageURL    string    `db:"image_url" json:"image_url"`
	Location    string    `db:"location" json:"location"`
	Description string    `db:"description" json:"description"`
	Email       string    `db:"email" json:"email"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`

	Members  []Membership `db:"-" json:"members"`
	Services []GymService `db:"-" json:"gym_services"`
}

// Membership enrolls a principal in a gym. At most one membership exists per
// (gym, user) pair.
type Membership struct {
	ID           int       `db:"id" json:"id"`
	GymID        string    `db:"gym_id" json:"gym_id"`
	UserID       string    `db:"user_id" json:"user_id"`
	UserName     string    `db:"user_name" json:"user_name"`
	FullName     string    `db:"full_name" json:"full_name"`
	EmailAddress string    `db:"email_address" json:"email_address"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// GymService is a service offered by a gym. Duplicates are permitted.
// Operating day markers are free text; no calendar validation is applied.
type GymService struct {
	ID                 int       `db:"id" json:"id"`
	GymID              string    `db:"gym_id" json:"gym_id"`
	ServiceName        string    `db:"service_name" json:"service_name"`
	ServiceDescription string    `db:"service_description" json:"service_description"`
	OperatingDaysStart string    `db:"operating_days_start" json:"operating_days_start"`
	OperatingDaysEnd   string    `db:"operating_days_end" json:"operating_days_end"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}

type GymPayload struct {
	Name        string `json:"name" binding:"required"`
	ImageURL    string `json:"image_url" binding:"required"`
	Location    string `json:"location" binding:"required"`
	Description string `json:"description" binding:"required"`
	Email       string `json:"email" binding:"required"`
}

type MembershipPayload struct {
	FullName     string `json:"full_name" binding:"required"`
	UserName     string `json:"user_name" binding:"required"`
	EmailAddress string `json:"email_address" binding:"required"`
}

type GymServicePayload struct {
	ServiceName        string `json:"service_name" binding:"required"`
	ServiceDescription string `json:"service_description" binding:"required"`
	OperatingDaysStart string `json:"operating_days_start" binding:"required"`
	OperatingDaysEnd   string `json:"operating_days_end" binding:"required"`
}
