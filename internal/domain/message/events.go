package message

// UserCreated is emitted after a user row is committed.
type UserCreated struct {
	ID string
}

func (UserCreated) MessageName() string { return "UserCreated" }
func (UserCreated) isEvent()            {}

// UserUpdated is emitted after a user's fields are committed.
type UserUpdated struct {
	ID string
}

func (UserUpdated) MessageName() string { return "UserUpdated" }
func (UserUpdated) isEvent()            {}

// UserDeleted is emitted after a user row is removed.
type UserDeleted struct {
	ID string
}

func (UserDeleted) MessageName() string { return "UserDeleted" }
func (UserDeleted) isEvent()            {}
