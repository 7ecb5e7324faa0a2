package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/smarttask/smarttask-go/internal/model"
)

// IndexEmail is the unique secondary index over users.email.
const IndexEmail = "email"

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = fmt.Errorf("email already exists: %w", ErrConstraintViolation)
)

var usersSchema = Schema[model.UserRecord]{
	Name:    "users",
	Key:     "id",
	Columns: []string{"id", "email", "name", "password_hash"},
	Indexes: map[string]Index{
		IndexEmail: {Column: "email", Unique: true},
	},
	KeyOf: func(u model.UserRecord) string { return u.ID },
	Values: func(u model.UserRecord) []any {
		return []any{u.ID, u.Email, u.Name, u.PasswordHash}
	},
	Scan: func(row rowScanner) (model.UserRecord, error) {
		var u model.UserRecord
		err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash)
		return u, err
	},
}

// UserRepository handles user persistence operations.
type UserRepository struct {
	users *Collection[model.UserRecord]
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(s *Store) *UserRepository {
	return &UserRepository{users: s.Users}
}

// Create stores a new user, generating its ID when empty.
// A taken email surfaces as ErrDuplicateEmail.
func (r *UserRepository) Create(ctx context.Context, user *model.UserRecord) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	if err := r.users.Put(ctx, *user); err != nil {
		if errors.Is(err, ErrConstraintViolation) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// GetByEmail retrieves a user by their email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.UserRecord, error) {
	found, err := r.users.GetByIndex(ctx, IndexEmail, email)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, ErrUserNotFound
	}
	return &found[0], nil
}

// GetByID retrieves a user by their ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.UserRecord, error) {
	user, ok, err := r.users.GetByKey(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

// Count returns the number of registered users.
func (r *UserRepository) Count(ctx context.Context) (int, error) {
	return r.users.Count(ctx)
}
