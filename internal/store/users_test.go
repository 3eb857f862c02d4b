package store

import (
	"errors"
	"testing"
)

func TestCreateUser(t *testing.T) {
	s := newTestStore(t)

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "valid user", username: "alice", password: "s3cret"},
		{name: "duplicate username", username: "alice", password: "other", wantErr: ErrUserExists},
		{name: "duplicate username different case", username: "ALICE", password: "other", wantErr: ErrUserExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := s.CreateUser(tt.username, tt.password)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("CreateUser() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateUser() unexpected error = %v", err)
			}
			if user.ID == "" {
				t.Error("CreateUser() did not assign an id")
			}
			if user.PasswordHash == tt.password {
				t.Error("CreateUser() stored the password unhashed")
			}
		})
	}

	if _, err := s.CreateUser("", "x"); err == nil {
		t.Error("CreateUser(empty username) expected error, got nil")
	}
	if _, err := s.CreateUser("bob", ""); err == nil {
		t.Error("CreateUser(empty password) expected error, got nil")
	}
}

func TestAuthenticate(t *testing.T) {
	s := newTestStore(t)
	created, err := s.CreateUser("alice", "s3cret")
	if err != nil {
		t.Fatal(err)
	}

	user, err := s.Authenticate("alice", "s3cret")
	if err != nil {
		t.Fatalf("Authenticate() unexpected error = %v", err)
	}
	if user.ID != created.ID {
		t.Errorf("Authenticate() id = %q, want %q", user.ID, created.ID)
	}

	if _, err := s.Authenticate("alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Authenticate(bad password) error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := s.Authenticate("nobody", "s3cret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Authenticate(unknown user) error = %v, want ErrInvalidCredentials", err)
	}
}

func TestUserByID(t *testing.T) {
	s := newTestStore(t)
	created, err := s.CreateUser("alice", "s3cret")
	if err != nil {
		t.Fatal(err)
	}

	user, err := s.UserByID(created.ID)
	if err != nil {
		t.Fatalf("UserByID() unexpected error = %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("Username = %q, want alice", user.Username)
	}

	if _, err := s.UserByID("missing"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("UserByID(missing) error = %v, want ErrUserNotFound", err)
	}
}
