package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Planet is a user-defined subject grouping for notes. Names are not unique:
// creating the same name twice yields two distinct planets.
type Planet struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	Color     string    `gorm:"column:color;not null;default:'#fff'" json:"color"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Planet) TableName() string { return "planet" }

// Note is one uploaded document: metadata plus a public URL for the stored
// bytes. Content/Text/Body are optional inline fallbacks used when the blob
// cannot be fetched.
type Note struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PlanetID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"planet_id"`
	Planet     *Planet        `gorm:"constraint:OnDelete:CASCADE;foreignKey:PlanetID;references:ID" json:"planet,omitempty"`
	UserID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Title      string         `gorm:"column:title;not null" json:"title"`
	StorageKey string         `gorm:"column:storage_key" json:"storage_key,omitempty"`
	FileURL    string         `gorm:"column:file_url" json:"file_url"`
	Content    string         `gorm:"column:content" json:"content,omitempty"`
	Text       string         `gorm:"column:text" json:"text,omitempty"`
	Body       string         `gorm:"column:body" json:"body,omitempty"`
	Metadata   datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`
	CreatedAt  time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (Note) TableName() string { return "note" }
