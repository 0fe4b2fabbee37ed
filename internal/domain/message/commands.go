package message

// CreateUser registers a new user with a plaintext password that is hashed
// before persistence.
type CreateUser struct {
	Phone    string
	Email    string
	Password string
}

func (CreateUser) MessageName() string { return "CreateUser" }
func (CreateUser) isCommand()          {}

// UpdateUser changes the contact fields of an existing user.
type UpdateUser struct {
	ID    string
	Phone string
	Email string
}

func (UpdateUser) MessageName() string { return "UpdateUser" }
func (UpdateUser) isCommand()          {}

// DeleteUser removes a user permanently. Deleting an absent user is a no-op.
type DeleteUser struct {
	ID string
}

func (DeleteUser) MessageName() string { return "DeleteUser" }
func (DeleteUser) isCommand()          {}

// LoginUser exchanges credentials for an access and a refresh token.
type LoginUser struct {
	Email    string
	Password string
}

func (LoginUser) MessageName() string { return "LoginUser" }
func (LoginUser) isCommand()          {}

// RefreshToken exchanges a refresh token for a new access token. GrantType
// must be "refresh_token".
type RefreshToken struct {
	RefreshToken string
	GrantType    string
}

func (RefreshToken) MessageName() string { return "RefreshToken" }
func (RefreshToken) isCommand()          {}
