package entity

// User is the aggregate root for the user domain.
// Password holds only the credential hash, never the plaintext. Email and
// phone are unique across the collection; uniqueness is pre-checked at the
// service layer before insert.
type User struct {
	Base
	Phone    string
	Email    string
	Password string
}

func NewUser(phone, email, passwordHash string) *User {
	return &User{
		Base:     NewBase(),
		Phone:    phone,
		Email:    email,
		Password: passwordHash,
	}
}

// ApplyUpdate copies recognized fields from data onto the user. Unknown keys
// and mistyped values are skipped, mirroring the tolerance of the repository
// filter DSL for unknown fields.
func (u *User) ApplyUpdate(data map[string]any) *User {
	for key, value := range data {
		s, ok := value.(string)
		if !ok {
			continue
		}
		switch key {
		case "phone":
			u.Phone = s
		case "email":
			u.Email = s
		case "password":
			u.Password = s
		}
	}
	return u
}
