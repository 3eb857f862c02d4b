package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Comparing against this when the username is unknown keeps login timing
// independent of user existence.
var dummyPasswordHash = []byte("$2a$10$CwTycUXWue0Thq9StjUM0uJ8n4VWeNseyX2fA9DE.D7su7J6iYGTC")

// User is an account in the library. Immutable after seeding.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

// CreateUser registers a new user with a bcrypt-hashed password. Usernames
// are unique case-insensitively.
func (s *Store) CreateUser(username, password string) (User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return User{}, fmt.Errorf("username and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	user := User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	err = s.users.Update(func(users []User) ([]User, bool, error) {
		for _, u := range users {
			if strings.EqualFold(u.Username, username) {
				return nil, false, ErrUserExists
			}
		}
		return append(users, user), true, nil
	})
	if err != nil {
		return User{}, err
	}
	return user, nil
}

// Authenticate validates credentials and returns the matching user.
func (s *Store) Authenticate(username, password string) (User, error) {
	users, err := s.users.LoadAll()
	if err != nil {
		return User{}, err
	}

	for _, u := range users {
		if strings.EqualFold(u.Username, strings.TrimSpace(username)) {
			if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
				return User{}, ErrInvalidCredentials
			}
			return u, nil
		}
	}

	_ = bcrypt.CompareHashAndPassword(dummyPasswordHash, []byte(password))
	return User{}, ErrInvalidCredentials
}

// UserByID returns the user with the given id.
func (s *Store) UserByID(id string) (User, error) {
	users, err := s.users.LoadAll()
	if err != nil {
		return User{}, err
	}
	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}
	return User{}, ErrUserNotFound
}
