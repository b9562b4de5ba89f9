// Package datastore persists notes and action items in a relational store.
package datastore

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/avirtanen/agentlab/internal/conf"
	"github.com/avirtanen/agentlab/internal/errors"
	"github.com/avirtanen/agentlab/internal/logging"
)

// Interface defines the operations the rest of the application may perform
// against the store. All operations are single-row or single-scan.
type Interface interface {
	Open() error
	Close() error
	CreateNote(content string) (*Note, error)
	GetNote(id uint) (*Note, error)
	ListNotes() ([]Note, error)
	CreateActionItems(noteID *uint, texts []string) ([]ActionItem, error)
	ListActionItems(noteID *uint) ([]ActionItem, error)
	SetActionItemDone(id uint, done bool) (*ActionItem, error)
}

// DataStore implements the store operations on top of a GORM connection.
type DataStore struct {
	DB     *gorm.DB
	logger *slog.Logger
}

// New creates a store for the configured backend. SQLite is the only
// backend; the constructor exists so callers never reference the concrete
// type.
func New(settings *conf.Settings) Interface {
	return &SQLiteStore{
		DataStore: DataStore{logger: logging.ForService("datastore")},
		Settings:  settings,
	}
}

// CreateNote inserts a new note and returns it with its assigned id.
func (ds *DataStore) CreateNote(content string) (*Note, error) {
	note := Note{Content: content}
	if err := ds.DB.Create(&note).Error; err != nil {
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "create_note").
			Build()
	}
	ds.logger.Debug("created note", "note_id", note.ID)
	return &note, nil
}

// GetNote retrieves a note by id.
func (ds *DataStore) GetNote(id uint) (*Note, error) {
	var note Note
	if err := ds.DB.First(&note, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Newf("note with id %d not found", id).
				Component("datastore").
				Category(errors.CategoryNotFound).
				Context("note_id", id).
				Build()
		}
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "get_note").
			Build()
	}
	return &note, nil
}

// ListNotes returns all notes, newest first.
func (ds *DataStore) ListNotes() ([]Note, error) {
	var notes []Note
	if err := ds.DB.Order("id DESC").Find(&notes).Error; err != nil {
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "list_notes").
			Build()
	}
	return notes, nil
}

// CreateActionItems inserts one item per text, all referencing noteID
// (which may be nil), and returns them in insertion order.
func (ds *DataStore) CreateActionItems(noteID *uint, texts []string) ([]ActionItem, error) {
	items := make([]ActionItem, 0, len(texts))
	if len(texts) == 0 {
		return items, nil
	}

	for _, text := range texts {
		items = append(items, ActionItem{NoteID: noteID, Text: text})
	}
	if err := ds.DB.Create(&items).Error; err != nil {
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "create_action_items").
			Context("count", len(items)).
			Build()
	}
	ds.logger.Debug("created action items", "count", len(items))
	return items, nil
}

// ListActionItems returns action items in creation order, optionally
// filtered to a single note.
func (ds *DataStore) ListActionItems(noteID *uint) ([]ActionItem, error) {
	query := ds.DB.Order("id ASC")
	if noteID != nil {
		query = query.Where("note_id = ?", *noteID)
	}

	var items []ActionItem
	if err := query.Find(&items).Error; err != nil {
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "list_action_items").
			Build()
	}
	return items, nil
}

// SetActionItemDone flips the done flag of a single item and nothing else.
func (ds *DataStore) SetActionItemDone(id uint, done bool) (*ActionItem, error) {
	var item ActionItem
	if err := ds.DB.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Newf("action item with id %d not found", id).
				Component("datastore").
				Category(errors.CategoryNotFound).
				Context("action_item_id", id).
				Build()
		}
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "set_done").
			Build()
	}

	if err := ds.DB.Model(&item).UpdateColumn("done", done).Error; err != nil {
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "set_done").
			Context("action_item_id", id).
			Build()
	}

	item.Done = done
	return &item, nil
}
