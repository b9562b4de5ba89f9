// model.go this code defines the data model for the application
package datastore

import "time"

// Note represents a saved piece of free-form text.
// Notes are immutable after creation; there is no update path.
type Note struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ActionItem represents a single extracted task. NoteID is nil when the
// item was extracted without persisting the source text as a note.
type ActionItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	NoteID    *uint     `gorm:"index" json:"note_id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Done      bool      `gorm:"not null;default:false" json:"done"`
	CreatedAt time.Time `json:"created_at"`
}
