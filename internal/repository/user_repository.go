package repository

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/docstore"
	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/model"
	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/utils"
)

// ErrInvalidCredentials is returned when a username/password pair does
// not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// NewUser is the input for creating a staff account.
type NewUser struct {
	Username string `json:"username" validate:"required,notblank,max=64"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"required,oneof=superadmin admin guard"`
}

// UserRepo stores staff accounts under colleges/{cid}/users. New accounts
// are keyed by lower-cased username, which makes usernames unique within
// a college.
type UserRepo struct {
	store docstore.Store
	cost  int
	log   *slog.Logger
}

// NewUserRepo constructs a UserRepo hashing passwords with bcryptCost.
func NewUserRepo(store docstore.Store, bcryptCost int, logger *slog.Logger) *UserRepo {
	return &UserRepo{store: store, cost: bcryptCost, log: logger}
}

// Create adds a staff account. ErrUsernameTaken is returned for a
// duplicate username.
func (r *UserRepo) Create(ctx context.Context, collegeID string, in NewUser) (*model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if _, err := r.GetByUsername(ctx, collegeID, in.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	hash, err := utils.HashPassword(in.Password, r.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := time.Now().UTC()
	key := strings.ToLower(in.Username)
	err = r.store.Create(ctx, usersColl(collegeID), key, map[string]any{
		"collegeId":    collegeID,
		"username":     in.Username,
		"role":         in.Role,
		"passwordHash": hash,
		"createdAt":    model.FormatTime(now),
	})
	if errors.Is(err, docstore.ErrAlreadyExists) {
		return nil, ErrUsernameTaken
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &model.User{
		ID:           key,
		CollegeID:    collegeID,
		Username:     in.Username,
		Role:         in.Role,
		PasswordHash: hash,
		CreatedAt:    now.Truncate(time.Millisecond),
	}, nil
}

// GetByUsername looks the account up by key, then by the username field
// for accounts stored under generated ids.
func (r *UserRepo) GetByUsername(ctx context.Context, collegeID, username string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrNotFound
	}
	doc, err := r.store.Get(ctx, usersColl(collegeID), strings.ToLower(username))
	if err == nil {
		return userFromDoc(collegeID, doc), nil
	}
	if !errors.Is(err, docstore.ErrNotFound) {
		return nil, err
	}
	docs, err := r.store.Query(ctx, usersColl(collegeID), docstore.Query{
		Filters: []docstore.Filter{docstore.Eq("username", username)},
		Limit:   1,
	})
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, ErrNotFound
	}
	return userFromDoc(collegeID, docs[0]), nil
}

// List returns the staff accounts of a college, oldest first.
func (r *UserRepo) List(ctx context.Context, collegeID string) ([]model.User, error) {
	docs, err := r.store.Query(ctx, usersColl(collegeID), docstore.Query{OrderBy: "createdAt"})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]model.User, 0, len(docs))
	for _, d := range docs {
		out = append(out, *userFromDoc(collegeID, d))
	}
	return out, nil
}

// Authenticate checks a username/password pair. Accounts still holding a
// plaintext password are upgraded to a bcrypt hash on their first
// successful login.
func (r *UserRepo) Authenticate(ctx context.Context, collegeID, username, password string) (*model.User, error) {
	u, err := r.GetByUsername(ctx, collegeID, username)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if utils.IsPasswordHash(u.PasswordHash) {
		if !utils.VerifyPassword(u.PasswordHash, password) {
			return nil, ErrInvalidCredentials
		}
		if utils.NeedsRehash(u.PasswordHash, r.cost) {
			r.rehash(ctx, u, password)
		}
		return u, nil
	}
	if u.PasswordHash == "" || subtle.ConstantTimeCompare([]byte(u.PasswordHash), []byte(password)) != 1 {
		return nil, ErrInvalidCredentials
	}
	r.rehash(ctx, u, password)
	return u, nil
}

// rehash stores a fresh hash of password. Failure keeps the old value
// and is only logged; the login itself already succeeded.
func (r *UserRepo) rehash(ctx context.Context, u *model.User, password string) {
	hash, err := utils.HashPassword(password, r.cost)
	if err != nil {
		r.log.Warn("password rehash failed", "college", u.CollegeID, "user", u.ID, "err", err)
		return
	}
	if err := r.store.Update(ctx, usersColl(u.CollegeID), u.ID, map[string]any{"passwordHash": hash}); err != nil {
		r.log.Warn("password rehash failed", "college", u.CollegeID, "user", u.ID, "err", err)
		return
	}
	u.PasswordHash = hash
}

func userFromDoc(collegeID string, doc docstore.Document) *model.User {
	role := strings.ToLower(doc.String("role"))
	return &model.User{
		ID:           doc.Key,
		CollegeID:    collegeID,
		Username:     doc.String("username"),
		Role:         role,
		PasswordHash: firstString(doc, "passwordHash", "password"),
		CreatedAt:    model.ParseTime(doc.String("createdAt")),
	}
}
