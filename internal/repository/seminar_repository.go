package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/docstore"
	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/model"
	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/seat"
	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/utils"
)

// maxSlugAttempts bounds the -2, -3, ... suffixes tried for a derived slug.
const maxSlugAttempts = 25

// NewSeminar is the input for creating a seminar. Exactly one of HallID
// and RowConfig must be set: either the seminar copies nothing and points
// at a hall template, or it carries its own row -> seats map.
type NewSeminar struct {
	Title       string      `json:"title" validate:"required,notblank,max=200"`
	Description string      `json:"description" validate:"max=5000"`
	Date        string      `json:"date" validate:"required,notblank,max=50"`
	Time        string      `json:"time" validate:"max=50"`
	Venue       string      `json:"venue" validate:"max=200"`
	Slug        string      `json:"slug" validate:"max=100"`
	Thumbnail   string      `json:"thumbnail" validate:"omitempty,url"`
	HallID      string      `json:"hallId"`
	RowConfig   map[int]int `json:"rowConfig"`
}

// SeminarRepo stores seminars under colleges/{cid}/seminars and resolves
// their seating layout.
type SeminarRepo struct {
	store docstore.Store
	halls *HallRepo
	log   *slog.Logger
}

// NewSeminarRepo constructs a SeminarRepo.
func NewSeminarRepo(store docstore.Store, halls *HallRepo, logger *slog.Logger) *SeminarRepo {
	return &SeminarRepo{store: store, halls: halls, log: logger}
}

// Create stores a seminar. An explicit slug that is already used in the
// college fails with ErrSlugTaken; a slug derived from the title gets a
// numeric suffix instead.
func (r *SeminarRepo) Create(ctx context.Context, collegeID string, in NewSeminar) (*model.Seminar, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.HallID = strings.TrimSpace(in.HallID)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	hasHall, hasGrid := in.HallID != "", len(in.RowConfig) > 0
	if hasHall == hasGrid {
		return nil, invalid("hallId", "exactly one of hallId and rowConfig is required")
	}

	now := time.Now().UTC()
	id := uuid.NewString()
	data := map[string]any{
		"collegeId":   collegeID,
		"title":       in.Title,
		"description": in.Description,
		"date":        in.Date,
		"time":        in.Time,
		"venue":       in.Venue,
		"thumbnail":   in.Thumbnail,
		"createdAt":   model.FormatTime(now),
	}
	var layout model.SeatingLayout
	if hasHall {
		hall, err := r.halls.GetByID(ctx, collegeID, in.HallID)
		if errors.Is(err, ErrNotFound) {
			return nil, invalid("hallId", "unknown hall")
		}
		if err != nil {
			return nil, err
		}
		layout = layoutFromHall(hall, r.log)
		data["hallId"] = hall.ID
		data["seatingLayout"] = nil
	} else {
		var err error
		if layout, err = layoutFromRowConfig(in.RowConfig); err != nil {
			return nil, err
		}
		stored := make(map[string]any, len(layout.RowConfig))
		for row, seats := range layout.RowConfig {
			stored[strconv.Itoa(row)] = seats
		}
		data["seatingLayout"] = stored
	}
	data["rows"] = layout.Rows
	data["cols"] = layout.Cols
	data["totalSeats"] = layout.TotalSeats

	slug, err := r.claimSlug(ctx, collegeID, id, in.Slug, in.Title)
	if err != nil {
		return nil, err
	}
	data["slug"] = slug
	if err := r.store.Create(ctx, seminarsColl(collegeID), id, data); err != nil {
		if derr := r.store.Delete(context.WithoutCancel(ctx), seminarSlugsColl(collegeID), slug); derr != nil {
			r.log.Error("release seminar slug", "college", collegeID, "slug", slug, "err", derr)
		}
		return nil, fmt.Errorf("create seminar: %w", err)
	}
	r.log.Info("seminar created", "college", collegeID, "seminar", id, "slug", slug, "seats", layout.TotalSeats)

	return &model.Seminar{
		ID:          id,
		CollegeID:   collegeID,
		Title:       in.Title,
		Description: in.Description,
		Date:        in.Date,
		Time:        in.Time,
		Venue:       in.Venue,
		Slug:        slug,
		Thumbnail:   in.Thumbnail,
		HallID:      in.HallID,
		Seating:     layout,
		CreatedAt:   now.Truncate(time.Millisecond),
	}, nil
}

func (r *SeminarRepo) claimSlug(ctx context.Context, collegeID, seminarID, explicit, title string) (string, error) {
	claim := func(slug string) error {
		return r.store.Create(ctx, seminarSlugsColl(collegeID), slug, map[string]any{
			"seminarId": seminarID,
			"createdAt": model.FormatTime(time.Now()),
		})
	}
	if s := utils.Slugify(explicit); s != "" {
		if err := r.checkLegacySlug(ctx, collegeID, s); err != nil {
			return "", err
		}
		err := claim(s)
		if errors.Is(err, docstore.ErrAlreadyExists) {
			return "", ErrSlugTaken
		}
		return s, err
	}
	base := utils.Slugify(title)
	if base == "" {
		base = "seminar"
	}
	for i := 1; i <= maxSlugAttempts; i++ {
		s := base
		if i > 1 {
			s = fmt.Sprintf("%s-%d", base, i)
		}
		if err := r.checkLegacySlug(ctx, collegeID, s); errors.Is(err, ErrSlugTaken) {
			continue
		} else if err != nil {
			return "", err
		}
		err := claim(s)
		if errors.Is(err, docstore.ErrAlreadyExists) {
			continue
		}
		return s, err
	}
	return "", ErrSlugTaken
}

// checkLegacySlug rejects slugs used by seminars stored without a claim.
func (r *SeminarRepo) checkLegacySlug(ctx context.Context, collegeID, slug string) error {
	docs, err := r.store.Query(ctx, seminarsColl(collegeID), docstore.Query{
		Filters: []docstore.Filter{docstore.Eq("slug", slug)},
		Limit:   1,
	})
	if err != nil {
		return err
	}
	if len(docs) > 0 {
		return ErrSlugTaken
	}
	return nil
}

// Get returns a seminar of the college with its layout resolved.
func (r *SeminarRepo) Get(ctx context.Context, collegeID, seminarID string) (*model.Seminar, error) {
	if strings.TrimSpace(seminarID) == "" || strings.Contains(seminarID, "/") {
		return nil, ErrNotFound
	}
	doc, err := r.store.Get(ctx, seminarsColl(collegeID), seminarID)
	if err != nil {
		return nil, notFound(err)
	}
	return r.fromDoc(ctx, collegeID, doc)
}

// GetBySlug returns the seminar whose slug matches.
func (r *SeminarRepo) GetBySlug(ctx context.Context, collegeID, slug string) (*model.Seminar, error) {
	docs, err := r.store.Query(ctx, seminarsColl(collegeID), docstore.Query{
		Filters: []docstore.Filter{docstore.Eq("slug", strings.TrimSpace(slug))},
		Limit:   1,
	})
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, ErrNotFound
	}
	return r.fromDoc(ctx, collegeID, docs[0])
}

// Resolve accepts either a seminar id or a slug.
func (r *SeminarRepo) Resolve(ctx context.Context, collegeID, idOrSlug string) (*model.Seminar, error) {
	s, err := r.Get(ctx, collegeID, idOrSlug)
	if !errors.Is(err, ErrNotFound) {
		return s, err
	}
	return r.GetBySlug(ctx, collegeID, idOrSlug)
}

// List returns the college's seminars, oldest first.
func (r *SeminarRepo) List(ctx context.Context, collegeID string) ([]model.Seminar, error) {
	docs, err := r.store.Query(ctx, seminarsColl(collegeID), docstore.Query{OrderBy: "createdAt"})
	if err != nil {
		return nil, fmt.Errorf("list seminars: %w", err)
	}
	out := make([]model.Seminar, 0, len(docs))
	for _, d := range docs {
		s, err := r.fromDoc(ctx, collegeID, d)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, nil
}

// ListIDs returns the ids of the college's seminars without resolving
// layouts.
func (r *SeminarRepo) ListIDs(ctx context.Context, collegeID string) ([]string, error) {
	docs, err := r.store.Query(ctx, seminarsColl(collegeID), docstore.Query{OrderBy: "createdAt"})
	if err != nil {
		return nil, fmt.Errorf("list seminars: %w", err)
	}
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.Key)
	}
	return ids, nil
}

func (r *SeminarRepo) fromDoc(ctx context.Context, collegeID string, doc docstore.Document) (*model.Seminar, error) {
	s := &model.Seminar{
		ID:          doc.Key,
		CollegeID:   collegeID,
		Title:       firstString(doc, "title", "name"),
		Description: doc.String("description"),
		Date:        doc.String("date"),
		Time:        doc.String("time"),
		Venue:       doc.String("venue"),
		Slug:        doc.String("slug"),
		Thumbnail:   doc.String("thumbnail"),
		HallID:      doc.String("hallId"),
		CreatedAt:   model.ParseTime(doc.String("createdAt")),
	}
	if s.HallID == "" {
		s.Seating = layoutFromDoc(doc)
		return s, nil
	}
	hall, err := r.halls.GetByID(ctx, collegeID, s.HallID)
	if errors.Is(err, ErrNotFound) {
		r.log.Error("seminar references missing hall", "college", collegeID, "seminar", s.ID, "hall", s.HallID)
		s.Seating = model.SeatingLayout{RowConfig: map[int]int{}}
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	s.Seating = layoutFromHall(hall, r.log)
	return s, nil
}

// layoutFromHall converts hall rows into a row index -> seats map. Rows
// with unreadable labels are skipped.
func layoutFromHall(h *model.Hall, logger *slog.Logger) model.SeatingLayout {
	l := model.SeatingLayout{RowConfig: map[int]int{}, TotalSeats: h.TotalSeats, Resolved: true}
	for _, row := range h.Rows {
		idx, err := seat.RowIndex(row.Label)
		if err != nil {
			logger.Warn("hall row with invalid label skipped", "hall", h.ID, "label", row.Label)
			continue
		}
		l.RowConfig[idx] = row.Seats
		l.Rows = max(l.Rows, idx)
		l.Cols = max(l.Cols, row.Seats)
	}
	return l
}

// layoutFromDoc reads an inline layout. seatingLayout is the current
// field; rowConfig is accepted for older documents. Without either, a
// uniform rows x cols grid is assumed.
func layoutFromDoc(doc docstore.Document) model.SeatingLayout {
	l := model.SeatingLayout{
		RowConfig:  map[int]int{},
		Rows:       doc.Int("rows"),
		Cols:       doc.Int("cols"),
		TotalSeats: doc.Int("totalSeats"),
		Resolved:   true,
	}
	raw, ok := doc.Data["seatingLayout"].(map[string]any)
	if !ok {
		raw, ok = doc.Data["rowConfig"].(map[string]any)
	}
	if ok {
		inner := docstore.Document{Data: raw}
		for k := range raw {
			row, err := strconv.Atoi(k)
			if err != nil || row < 1 {
				continue
			}
			if seats := inner.Int(k); seats > 0 {
				l.RowConfig[row] = seats
			}
		}
	} else {
		for row := 1; row <= l.Rows; row++ {
			l.RowConfig[row] = l.Cols
		}
	}
	sum, maxRow, maxCol := 0, 0, 0
	for row, seats := range l.RowConfig {
		sum += seats
		maxRow = max(maxRow, row)
		maxCol = max(maxCol, seats)
	}
	if l.Rows == 0 {
		l.Rows = maxRow
	}
	if l.Cols == 0 {
		l.Cols = maxCol
	}
	if l.TotalSeats == 0 {
		l.TotalSeats = sum
	}
	return l
}

func layoutFromRowConfig(cfg map[int]int) (model.SeatingLayout, error) {
	l := model.SeatingLayout{RowConfig: make(map[int]int, len(cfg)), Resolved: true}
	rows := make([]int, 0, len(cfg))
	for row := range cfg {
		rows = append(rows, row)
	}
	sort.Ints(rows)
	verr := &ValidationError{}
	for _, row := range rows {
		seats := cfg[row]
		field := fmt.Sprintf("rowConfig.%d", row)
		if row < 1 || row > seat.MaxRow {
			verr.Fields = append(verr.Fields, FieldError{Field: field, Error: fmt.Sprintf("row must be between 1 and %d", seat.MaxRow)})
			continue
		}
		if seats < 1 || seats > MaxSeatsPerRow {
			verr.Fields = append(verr.Fields, FieldError{Field: field, Error: fmt.Sprintf("seats must be between 1 and %d", MaxSeatsPerRow)})
			continue
		}
		l.RowConfig[row] = seats
		l.Rows = max(l.Rows, row)
		l.Cols = max(l.Cols, seats)
		l.TotalSeats += seats
	}
	if len(verr.Fields) > 0 {
		return model.SeatingLayout{}, verr
	}
	return l, nil
}
