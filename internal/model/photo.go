package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	appErr "github.com/xxxsen/babyline/internal/pkg/errors"
)

const MaxCaptionLength = 500

// Photo is a dated record under a baby. FileKey addresses the blob in the
// filestore; URL is a cached signed link refreshed by the url refresh job.
type Photo struct {
	ID           string `json:"id"`
	BabyID       string `json:"baby_id"`
	FileKey      string `json:"file_key"`
	Caption      string `json:"caption,omitempty"`
	TakenAt      string `json:"taken_at"` // YYYY-MM-DD
	URL          string `json:"url,omitempty"`
	URLExpiresAt int64  `json:"url_expires_at,omitempty"`
	UploadedBy   string `json:"uploaded_by"`
	Ctime        int64  `json:"ctime"`
	Mtime        int64  `json:"mtime"`
}

func NewPhoto(id, babyID, fileKey, caption, takenAt, uploadedBy string, now int64) (*Photo, error) {
	p := &Photo{
		ID:         id,
		BabyID:     babyID,
		FileKey:    fileKey,
		Caption:    caption,
		TakenAt:    takenAt,
		UploadedBy: uploadedBy,
		Ctime:      now,
		Mtime:      now,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Photo) Validate() error {
	err := validation.ValidateStruct(p,
		validation.Field(&p.ID, validation.Required),
		validation.Field(&p.BabyID, validation.Required),
		validation.Field(&p.FileKey, validation.Required),
		validation.Field(&p.TakenAt, validation.Required, validation.Date("2006-01-02")),
		validation.Field(&p.Caption, validation.Length(0, MaxCaptionLength)),
	)
	if err != nil {
		return appErr.ErrInvalid
	}
	return nil
}
