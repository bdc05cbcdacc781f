package domain

// User is the account profile returned by the backend.
type User struct {
	ID    PostID `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
