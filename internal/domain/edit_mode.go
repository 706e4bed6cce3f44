package domain

// EditMode selects whether a submitted transaction form creates a new entry or
// edits an existing one. It is either Creating or Editing.
type EditMode interface {
	isEditMode()
}

// Creating submits a new transaction.
type Creating struct{}

// Editing submits changes to the transaction with ID.
type Editing struct {
	ID string
}

func (Creating) isEditMode() {}
func (Editing) isEditMode()  {}
