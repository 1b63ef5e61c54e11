package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/docstore"
	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/model"
	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/utils"
)

// NewCollege is the input for registering a college together with its
// first superadmin account.
type NewCollege struct {
	Name               string `json:"name" validate:"required,notblank,max=200"`
	Slug               string `json:"slug" validate:"max=100"`
	SuperAdminUsername string `json:"superAdminUsername" validate:"required,notblank,max=64"`
	SuperAdminPassword string `json:"superAdminPassword" validate:"required,min=8,max=72"`
}

// CollegeRepo resolves and registers tenants.
type CollegeRepo struct {
	store docstore.Store
	users *UserRepo
	log   *slog.Logger
}

// NewCollegeRepo constructs a CollegeRepo.
func NewCollegeRepo(store docstore.Store, users *UserRepo, logger *slog.Logger) *CollegeRepo {
	return &CollegeRepo{store: store, users: users, log: logger}
}

// Create registers a college keyed by its slug and creates the superadmin.
// The slug defaults to the slugified name. ErrCollegeExists is returned
// when the slug is in use.
func (r *CollegeRepo) Create(ctx context.Context, in NewCollege) (*model.College, *model.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.SuperAdminUsername = strings.TrimSpace(in.SuperAdminUsername)
	if err := validateStruct(in); err != nil {
		return nil, nil, err
	}
	slug := utils.Slugify(in.Slug)
	if slug == "" {
		slug = utils.Slugify(in.Name)
	}
	if slug == "" {
		return nil, nil, invalid("slug", "must contain letters or digits")
	}

	now := time.Now().UTC()
	err := r.store.Create(ctx, collegesColl, slug, map[string]any{
		"name":               in.Name,
		"slug":               slug,
		"superAdminUsername": in.SuperAdminUsername,
		"createdAt":          model.FormatTime(now),
	})
	if errors.Is(err, docstore.ErrAlreadyExists) {
		return nil, nil, ErrCollegeExists
	}
	if err != nil {
		return nil, nil, fmt.Errorf("create college: %w", err)
	}
	college := &model.College{ID: slug, Name: in.Name, Slug: slug, CreatedAt: now.Truncate(time.Millisecond)}

	admin, err := r.users.Create(ctx, slug, NewUser{
		Username: in.SuperAdminUsername,
		Password: in.SuperAdminPassword,
		Role:     model.RoleSuperAdmin,
	})
	if err != nil {
		if derr := r.store.Delete(context.WithoutCancel(ctx), collegesColl, slug); derr != nil {
			r.log.Error("release college after failed superadmin create", "college", slug, "err", derr)
		}
		return nil, nil, fmt.Errorf("create superadmin: %w", err)
	}
	r.log.Info("college registered", "college", slug)
	return college, admin, nil
}

// GetByID returns the college stored under id.
func (r *CollegeRepo) GetByID(ctx context.Context, id string) (*model.College, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrNotFound
	}
	doc, err := r.store.Get(ctx, collegesColl, id)
	if err != nil {
		return nil, notFound(err)
	}
	return collegeFromDoc(doc), nil
}

// Resolve maps the tenant segment of a URL onto a college. It tries, in
// order, the document id, the slug field, and the URL-decoded name for
// colleges created before slugs existed. A name shared by several
// colleges yields ErrAmbiguousCollege.
func (r *CollegeRepo) Resolve(ctx context.Context, slugOrID string) (*model.College, error) {
	key := strings.TrimSpace(slugOrID)
	if key == "" {
		return nil, ErrNotFound
	}
	if !strings.Contains(key, "/") {
		c, err := r.GetByID(ctx, key)
		if !errors.Is(err, ErrNotFound) {
			return c, err
		}
	}

	docs, err := r.store.Query(ctx, collegesColl, docstore.Query{
		Filters: []docstore.Filter{docstore.Eq("slug", key)},
		Limit:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("resolve college by slug: %w", err)
	}
	if len(docs) == 1 {
		return collegeFromDoc(docs[0]), nil
	}

	name := key
	if decoded, err := url.PathUnescape(key); err == nil {
		name = decoded
	}
	docs, err = r.store.Query(ctx, collegesColl, docstore.Query{
		Filters: []docstore.Filter{docstore.Eq("name", name)},
		Limit:   2,
	})
	if err != nil {
		return nil, fmt.Errorf("resolve college by name: %w", err)
	}
	switch len(docs) {
	case 0:
		return nil, ErrNotFound
	case 1:
		return collegeFromDoc(docs[0]), nil
	}
	r.log.Warn("college name matches several colleges", "name", name)
	return nil, ErrAmbiguousCollege
}

func collegeFromDoc(doc docstore.Document) *model.College {
	return &model.College{
		ID:        doc.Key,
		Name:      doc.String("name"),
		Slug:      firstString(doc, "slug"),
		CreatedAt: model.ParseTime(doc.String("createdAt")),
	}
}
