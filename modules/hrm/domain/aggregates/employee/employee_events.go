package employee

type CreatedEvent struct {
	Data   CreateDTO
	Result Employee
}

type UpdatedEvent struct {
	ID    string
	Patch []byte
}

// DeletedEvent is published only after the API confirmed the deletion.
type DeletedEvent struct {
	ID string
}
