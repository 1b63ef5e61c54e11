package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/model"
)

func TestCollegeRepo_Create(t *testing.T) {
	ctx := context.Background()
	r := newRepos(t)

	c, admin, err := r.colleges.Create(ctx, NewCollege{
		Name:               "  Acme College of Engineering ",
		SuperAdminUsername: "root",
		SuperAdminPassword: "password123",
	})
	require.NoError(t, err)
	require.Equal(t, "acme-college-of-engineering", c.ID)
	require.Equal(t, c.ID, c.Slug)
	require.Equal(t, "Acme College of Engineering", c.Name)
	require.Equal(t, model.RoleSuperAdmin, admin.Role)
	require.NotEqual(t, "password123", admin.PasswordHash)

	_, _, err = r.colleges.Create(ctx, NewCollege{
		Name:               "Acme College of Engineering",
		SuperAdminUsername: "other",
		SuperAdminPassword: "password123",
	})
	require.ErrorIs(t, err, ErrCollegeExists)

	u, err := r.users.Authenticate(ctx, c.ID, "root", "password123")
	require.NoError(t, err)
	require.Equal(t, model.RoleSuperAdmin, u.Role)
}

func TestCollegeRepo_CreateValidation(t *testing.T) {
	r := newRepos(t)
	_, _, err := r.colleges.Create(context.Background(), NewCollege{Name: " ", SuperAdminPassword: "short"})
	requireValidation(t, err, "name", "superAdminUsername", "superAdminPassword")

	_, _, err = r.colleges.Create(context.Background(), NewCollege{Name: "!!!", SuperAdminUsername: "a", SuperAdminPassword: "password123"})
	requireValidation(t, err, "slug")
}

func TestCollegeRepo_Resolve(t *testing.T) {
	ctx := context.Background()
	r := newRepos(t)

	_, _, err := r.colleges.Create(ctx, NewCollege{Name: "Acme", Slug: "acme", SuperAdminUsername: "root", SuperAdminPassword: "password123"})
	require.NoError(t, err)
	// Colleges created by the old client: generated key, slug field or only a name.
	require.NoError(t, r.store.Set(ctx, collegesColl, "X9fq2", map[string]any{"name": "Legacy Slugged", "slug": "legacy"}))
	require.NoError(t, r.store.Set(ctx, collegesColl, "K77ab", map[string]any{"name": "St. Mary's College"}))
	require.NoError(t, r.store.Set(ctx, collegesColl, "dup1", map[string]any{"name": "Twin"}))
	require.NoError(t, r.store.Set(ctx, collegesColl, "dup2", map[string]any{"name": "Twin"}))

	tests := []struct {
		in      string
		wantID  string
		wantErr error
	}{
		{in: "acme", wantID: "acme"},
		{in: "X9fq2", wantID: "X9fq2"},
		{in: "legacy", wantID: "X9fq2"},
		{in: "St.%20Mary's%20College", wantID: "K77ab"},
		{in: "St. Mary's College", wantID: "K77ab"},
		{in: "Twin", wantErr: ErrAmbiguousCollege},
		{in: "nobody", wantErr: ErrNotFound},
		{in: "", wantErr: ErrNotFound},
		{in: "acme/seminars", wantErr: ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := r.colleges.Resolve(ctx, tt.in)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, c.ID)
		})
	}
}
