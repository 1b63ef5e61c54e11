package repository

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/docstore"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type repos struct {
	store    *docstore.MemoryStore
	users    *UserRepo
	colleges *CollegeRepo
	halls    *HallRepo
	seminars *SeminarRepo
	regs     *RegistrationRepo
}

func newRepos(t *testing.T) repos {
	t.Helper()
	store := docstore.NewMemoryStore()
	log := discardLogger()
	users := NewUserRepo(store, bcrypt.MinCost, log)
	halls := NewHallRepo(store, log)
	return repos{
		store:    store,
		users:    users,
		colleges: NewCollegeRepo(store, users, log),
		halls:    halls,
		seminars: NewSeminarRepo(store, halls, log),
		regs:     NewRegistrationRepo(store, nil, log),
	}
}

// failingStore rejects every call; it proves validation runs first.
type failingStore struct{ calls int }

var errStoreCalled = errors.New("store called")

func (f *failingStore) fail() error { f.calls++; return errStoreCalled }

func (f *failingStore) Get(context.Context, string, string) (docstore.Document, error) {
	return docstore.Document{}, f.fail()
}
func (f *failingStore) Query(context.Context, string, docstore.Query) ([]docstore.Document, error) {
	return nil, f.fail()
}
func (f *failingStore) Insert(context.Context, string, map[string]any) (string, error) {
	return "", f.fail()
}
func (f *failingStore) Create(context.Context, string, string, map[string]any) error { return f.fail() }
func (f *failingStore) Set(context.Context, string, string, map[string]any) error    { return f.fail() }
func (f *failingStore) Update(context.Context, string, string, map[string]any) error { return f.fail() }
func (f *failingStore) UpdateIf(context.Context, string, string, docstore.Filter, map[string]any) error {
	return f.fail()
}
func (f *failingStore) Delete(context.Context, string, string) error { return f.fail() }
func (f *failingStore) Ping(context.Context) error                   { return f.fail() }

func requireValidation(t *testing.T, err error, fields ...string) {
	t.Helper()
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	got := make([]string, 0, len(ve.Fields))
	for _, f := range ve.Fields {
		got = append(got, f.Field)
	}
	require.ElementsMatch(t, fields, got)
}
