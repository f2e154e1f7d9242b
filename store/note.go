package store

import "context"

// Note represents a stored note record.
type Note struct {
	// ID is assigned by the store and immutable.
	ID int32
	// UID is the stable public identifier, generated on creation.
	UID       string
	Title     string
	Content   string
	CreatedTs int64
	UpdatedTs int64
}

// FindNote is the find condition for notes.
type FindNote struct {
	ID     *int32
	UID    *string
	Limit  *int
	Offset *int
}

// UpdateNote is the partial update condition for a note. Nil fields retain
// their prior value.
type UpdateNote struct {
	ID      int32
	Title   *string
	Content *string
}

// DeleteNote is the delete condition for a note.
type DeleteNote struct {
	ID int32
}

// CreateNote inserts a new note. The UID is generated here when absent.
func (s *Store) CreateNote(ctx context.Context, create *Note) (*Note, error) {
	if create.UID == "" {
		create.UID = newNoteUID()
	}
	return s.driver.CreateNote(ctx, create)
}

// ListNotes lists notes, most recently created first.
func (s *Store) ListNotes(ctx context.Context, find *FindNote) ([]*Note, error) {
	return s.driver.ListNotes(ctx, find)
}

// GetNote gets a note by id. Returns (nil, nil) when the id is absent.
func (s *Store) GetNote(ctx context.Context, id int32) (*Note, error) {
	list, err := s.driver.ListNotes(ctx, &FindNote{ID: &id})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// UpdateNote applies a partial update and returns the updated note.
// Returns (nil, nil) when the id is absent.
func (s *Store) UpdateNote(ctx context.Context, update *UpdateNote) (*Note, error) {
	return s.driver.UpdateNote(ctx, update)
}

// DeleteNote deletes a note. Deleting an absent id is not an error at this
// layer; callers check existence first when they need NotFound semantics.
func (s *Store) DeleteNote(ctx context.Context, delete *DeleteNote) error {
	return s.driver.DeleteNote(ctx, delete)
}
