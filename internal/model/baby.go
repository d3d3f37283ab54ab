package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	appErr "github.com/xxxsen/babyline/internal/pkg/errors"
)

// Baby is the root of a timeline. Measurements, photos and share links all
// hang off it and inherit its ownership.
type Baby struct {
	ID        string `json:"id"`
	CreatedBy string `json:"created_by"`
	Name      string `json:"name"`
	Birthdate string `json:"birthdate"` // YYYY-MM-DD
	PhotoKey  string `json:"photo_key,omitempty"`
	Ctime     int64  `json:"ctime"`
	Mtime     int64  `json:"mtime"`
}

func NewBaby(id, createdBy, name, birthdate string, now int64) (*Baby, error) {
	b := &Baby{
		ID:        id,
		CreatedBy: createdBy,
		Name:      name,
		Birthdate: birthdate,
		Ctime:     now,
		Mtime:     now,
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Baby) Validate() error {
	err := validation.ValidateStruct(b,
		validation.Field(&b.ID, validation.Required),
		validation.Field(&b.CreatedBy, validation.Required),
		validation.Field(&b.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&b.Birthdate, validation.Required, validation.Date("2006-01-02")),
	)
	if err != nil {
		return appErr.ErrInvalid
	}
	return nil
}
