package models

import (
	"time"

	"gorm.io/datatypes"
)

// Document is a catalog row describing an uploaded file. The bytes live
// in blob storage under StoragePath, which is unique and immutable after
// creation. Category and subcategory are free-form text; the taxonomy
// only constrains what the UI picker offers.
type Document struct {
	ID          string                      `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
	Name        string                      `gorm:"size:255;not null" json:"name"`
	Description string                      `gorm:"size:2000" json:"description,omitempty"`
	StoragePath string                      `gorm:"uniqueIndex;size:512;not null" json:"storage_path"`
	Size        int64                       `gorm:"not null" json:"size"`
	MimeType    string                      `gorm:"size:128" json:"mime_type"`
	Tags        datatypes.JSONSlice[string] `json:"tags,omitempty"`
	Category    string                      `gorm:"size:100;index" json:"category,omitempty"`
	Subcategory string                      `gorm:"size:100" json:"subcategory,omitempty"`
	UploadedBy  uint                        `gorm:"index;not null" json:"uploaded_by"`
	Uploader    User                        `gorm:"foreignKey:UploadedBy" json:"-"`
}
