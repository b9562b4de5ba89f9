package datastore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avirtanen/agentlab/internal/conf"
	"github.com/avirtanen/agentlab/internal/errors"
)

func newTestStore(t *testing.T) Interface {
	t.Helper()

	settings := &conf.Settings{}
	settings.Output.SQLite.Path = filepath.Join(t.TempDir(), "test.db")

	store := New(settings)
	require.NoError(t, store.Open())
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	return store
}

func TestOpenIsIdempotent(t *testing.T) {
	settings := &conf.Settings{}
	settings.Output.SQLite.Path = filepath.Join(t.TempDir(), "test.db")

	store := New(settings)
	require.NoError(t, store.Open())
	require.NoError(t, store.Close())

	// Reopening against the same file must not fail on existing tables.
	store = New(settings)
	require.NoError(t, store.Open())
	require.NoError(t, store.Close())
}

func TestCreateAndGetNote(t *testing.T) {
	store := newTestStore(t)

	note, err := store.CreateNote("weekly planning notes")
	require.NoError(t, err)
	require.NotZero(t, note.ID)
	assert.False(t, note.CreatedAt.IsZero())

	got, err := store.GetNote(note.ID)
	require.NoError(t, err)
	assert.Equal(t, note.ID, got.ID)
	assert.Equal(t, "weekly planning notes", got.Content)
}

func TestGetNoteNotFound(t *testing.T) {
	store := newTestStore(t)

	note, err := store.GetNote(9999)

	require.Error(t, err)
	assert.Nil(t, note)
	assert.True(t, errors.IsNotFound(err))
}

func TestListNotesNewestFirst(t *testing.T) {
	store := newTestStore(t)

	first, err := store.CreateNote("first")
	require.NoError(t, err)
	second, err := store.CreateNote("second")
	require.NoError(t, err)

	notes, err := store.ListNotes()
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, second.ID, notes[0].ID)
	assert.Equal(t, first.ID, notes[1].ID)
}

func TestCreateActionItemsWithoutNote(t *testing.T) {
	store := newTestStore(t)

	items, err := store.CreateActionItems(nil, []string{"Task 1", "Task 2"})
	require.NoError(t, err)
	require.Len(t, items, 2)

	for _, item := range items {
		assert.NotZero(t, item.ID)
		assert.Nil(t, item.NoteID)
		assert.False(t, item.Done)
	}
	assert.Equal(t, "Task 1", items[0].Text)
	assert.Equal(t, "Task 2", items[1].Text)
}

func TestCreateActionItemsEmptyInput(t *testing.T) {
	store := newTestStore(t)

	items, err := store.CreateActionItems(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestListActionItemsFiltersByNote(t *testing.T) {
	store := newTestStore(t)

	note, err := store.CreateNote("sprint notes")
	require.NoError(t, err)
	other, err := store.CreateNote("unrelated")
	require.NoError(t, err)

	_, err = store.CreateActionItems(&note.ID, []string{"A", "B"})
	require.NoError(t, err)
	_, err = store.CreateActionItems(&other.ID, []string{"C"})
	require.NoError(t, err)
	_, err = store.CreateActionItems(nil, []string{"unattached"})
	require.NoError(t, err)

	scoped, err := store.ListActionItems(&note.ID)
	require.NoError(t, err)
	require.Len(t, scoped, 2)
	// Creation order within the note.
	assert.Equal(t, "A", scoped[0].Text)
	assert.Equal(t, "B", scoped[1].Text)
	for _, item := range scoped {
		require.NotNil(t, item.NoteID)
		assert.Equal(t, note.ID, *item.NoteID)
	}

	all, err := store.ListActionItems(nil)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestSetActionItemDoneToggle(t *testing.T) {
	store := newTestStore(t)

	note, err := store.CreateNote("toggle test")
	require.NoError(t, err)
	created, err := store.CreateActionItems(&note.ID, []string{"Flip me"})
	require.NoError(t, err)
	original := created[0]

	marked, err := store.SetActionItemDone(original.ID, true)
	require.NoError(t, err)
	assert.True(t, marked.Done)

	unmarked, err := store.SetActionItemDone(original.ID, false)
	require.NoError(t, err)
	assert.False(t, unmarked.Done)

	// Only the done flag changed.
	assert.Equal(t, original.Text, unmarked.Text)
	assert.Equal(t, original.NoteID, unmarked.NoteID)
	assert.WithinDuration(t, original.CreatedAt, unmarked.CreatedAt, time.Second)
}

func TestSetActionItemDoneNotFound(t *testing.T) {
	store := newTestStore(t)

	item, err := store.SetActionItemDone(12345, true)

	require.Error(t, err)
	assert.Nil(t, item)
	assert.True(t, errors.IsNotFound(err))
}
