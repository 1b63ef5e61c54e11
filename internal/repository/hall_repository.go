package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/docstore"
	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/model"
	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/seat"
)

// MaxSeatsPerRow bounds a single hall row.
const MaxSeatsPerRow = 999

// NewHall is the input for a hall template. Rows without a label are
// labelled by position (A, B, ...).
type NewHall struct {
	Name string          `json:"name" validate:"required,notblank,max=200"`
	Rows []model.HallRow `json:"rows" validate:"required,min=1"`
}

// HallRepo stores hall templates under colleges/{cid}/halls.
type HallRepo struct {
	store docstore.Store
	log   *slog.Logger
}

// NewHallRepo constructs a HallRepo.
func NewHallRepo(store docstore.Store, logger *slog.Logger) *HallRepo {
	return &HallRepo{store: store, log: logger}
}

// Create validates and stores a hall template.
func (r *HallRepo) Create(ctx context.Context, collegeID string, in NewHall) (*model.Hall, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	rows, total, err := normalizeHallRows(in.Rows)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	stored := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		stored = append(stored, map[string]any{"rowLabel": row.Label, "seats": row.Seats})
	}
	id, err := r.store.Insert(ctx, hallsColl(collegeID), map[string]any{
		"collegeId":  collegeID,
		"name":       in.Name,
		"rows":       stored,
		"totalSeats": total,
		"createdAt":  model.FormatTime(now),
	})
	if err != nil {
		return nil, fmt.Errorf("create hall: %w", err)
	}
	return &model.Hall{
		ID:         id,
		CollegeID:  collegeID,
		Name:       in.Name,
		Rows:       rows,
		TotalSeats: total,
		CreatedAt:  now.Truncate(time.Millisecond),
	}, nil
}

// GetByID returns a hall of the college or ErrNotFound.
func (r *HallRepo) GetByID(ctx context.Context, collegeID, hallID string) (*model.Hall, error) {
	if strings.TrimSpace(hallID) == "" || strings.Contains(hallID, "/") {
		return nil, ErrNotFound
	}
	doc, err := r.store.Get(ctx, hallsColl(collegeID), hallID)
	if err != nil {
		return nil, notFound(err)
	}
	return hallFromDoc(collegeID, doc), nil
}

// List returns the college's halls, oldest first.
func (r *HallRepo) List(ctx context.Context, collegeID string) ([]model.Hall, error) {
	docs, err := r.store.Query(ctx, hallsColl(collegeID), docstore.Query{OrderBy: "createdAt"})
	if err != nil {
		return nil, fmt.Errorf("list halls: %w", err)
	}
	out := make([]model.Hall, 0, len(docs))
	for _, d := range docs {
		out = append(out, *hallFromDoc(collegeID, d))
	}
	return out, nil
}

func normalizeHallRows(in []model.HallRow) ([]model.HallRow, int, error) {
	out := make([]model.HallRow, 0, len(in))
	seen := map[int]bool{}
	total := 0
	verr := &ValidationError{}
	for i, row := range in {
		field := fmt.Sprintf("rows[%d]", i)
		label := strings.ToUpper(strings.TrimSpace(row.Label))
		if label == "" {
			label, _ = seat.RowLabel(i + 1)
		}
		idx, err := seat.RowIndex(label)
		if err != nil {
			verr.Fields = append(verr.Fields, FieldError{Field: field + ".rowLabel", Error: "must be 1 to 3 letters"})
			continue
		}
		if seen[idx] {
			verr.Fields = append(verr.Fields, FieldError{Field: field + ".rowLabel", Error: "duplicate row " + label})
			continue
		}
		seen[idx] = true
		if row.Seats < 1 || row.Seats > MaxSeatsPerRow {
			verr.Fields = append(verr.Fields, FieldError{Field: field + ".seats", Error: fmt.Sprintf("must be between 1 and %d", MaxSeatsPerRow)})
			continue
		}
		total += row.Seats
		out = append(out, model.HallRow{Label: label, Seats: row.Seats})
	}
	if len(verr.Fields) > 0 {
		return nil, 0, verr
	}
	return out, total, nil
}

func hallFromDoc(collegeID string, doc docstore.Document) *model.Hall {
	h := &model.Hall{
		ID:         doc.Key,
		CollegeID:  collegeID,
		Name:       doc.String("name"),
		TotalSeats: doc.Int("totalSeats"),
		CreatedAt:  model.ParseTime(doc.String("createdAt")),
	}
	raw, _ := doc.Data["rows"].([]any)
	sum := 0
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		row := docstore.Document{Data: m}
		hr := model.HallRow{Label: row.String("rowLabel"), Seats: row.Int("seats")}
		sum += hr.Seats
		h.Rows = append(h.Rows, hr)
	}
	if h.TotalSeats == 0 {
		h.TotalSeats = sum
	}
	return h
}
