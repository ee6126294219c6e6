package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// UserProfile carries the locale settings used to denominate costs.
type UserProfile struct {
	ID                string    `json:"id" db:"id"`
	UserID            string    `json:"userId" db:"user_id"`
	HomeCountry       string    `json:"homeCountry" db:"home_country"`
	HomeCurrency      string    `json:"homeCurrency" db:"home_currency"`
	PreferredLanguage string    `json:"preferredLanguage" db:"preferred_language"`
	TimeZone          string    `json:"timeZone" db:"time_zone"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time `json:"updatedAt" db:"updated_at"`
}

// CreateProfileRequest requires every field.
type CreateProfileRequest struct {
	HomeCountry       string `json:"homeCountry"`
	HomeCurrency      string `json:"homeCurrency"`
	PreferredLanguage string `json:"preferredLanguage"`
	TimeZone          string `json:"timeZone"`
}

func (r CreateProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.HomeCountry, validation.Required),
		validation.Field(&r.HomeCurrency, validation.Required, validation.Length(3, 3)),
		validation.Field(&r.PreferredLanguage, validation.Required, validation.Length(2, 2)),
		validation.Field(&r.TimeZone, validation.Required),
	)
}

// UpdateProfileRequest is a partial update; nil fields are left unchanged.
type UpdateProfileRequest struct {
	HomeCountry       *string `json:"homeCountry"`
	HomeCurrency      *string `json:"homeCurrency"`
	PreferredLanguage *string `json:"preferredLanguage"`
	TimeZone          *string `json:"timeZone"`
}

func (r UpdateProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.HomeCountry, validation.NilOrNotEmpty),
		validation.Field(&r.HomeCurrency, validation.NilOrNotEmpty, validation.Length(3, 3)),
		validation.Field(&r.PreferredLanguage, validation.NilOrNotEmpty, validation.Length(2, 2)),
		validation.Field(&r.TimeZone, validation.NilOrNotEmpty),
	)
}
