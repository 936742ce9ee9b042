package userdata

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/utmart-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/utmart-backend/pkg/errors"
	"gorm.io/gorm"
)

// RecordDTO is the client view of a stored document.
type RecordDTO struct {
	ID        uint            `json:"id"`
	UserID    uint            `json:"user_id"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Service manages per-user key-value documents.
type Service interface {
	Create(ctx context.Context, userID uint, data json.RawMessage) (*RecordDTO, error)
	List(ctx context.Context, userID uint) ([]RecordDTO, error)
	Get(ctx context.Context, userID, id uint) (*RecordDTO, error)
	Update(ctx context.Context, userID, id uint, data json.RawMessage) error
	Delete(ctx context.Context, userID, id uint) error
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user data repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, userID uint, data json.RawMessage) (*RecordDTO, error) {
	if userID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id and data are required")
	}
	normalized, err := normalizeDocument(data)
	if err != nil {
		return nil, err
	}
	record := &models.UserData{UserID: userID, Data: normalized}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert user data")
	}
	dto := toRecordDTO(record)
	return &dto, nil
}

func (s *service) List(ctx context.Context, userID uint) ([]RecordDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list user data")
	}
	out := make([]RecordDTO, 0, len(rows))
	for i := range rows {
		out = append(out, toRecordDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, userID, id uint) (*RecordDTO, error) {
	record, err := s.repo.Find(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "data not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load user data")
	}
	dto := toRecordDTO(record)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, userID, id uint, data json.RawMessage) error {
	normalized, err := normalizeDocument(data)
	if err != nil {
		return err
	}
	updated, err := s.repo.UpdateData(ctx, userID, id, normalized)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update user data")
	}
	if !updated {
		return pkgerrors.New(pkgerrors.CodeNotFound, "data not found")
	}
	return nil
}

func (s *service) Delete(ctx context.Context, userID, id uint) error {
	deleted, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete user data")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "data not found")
	}
	return nil
}

// normalizeDocument accepts only a JSON object and returns it compacted.
func normalizeDocument(data json.RawMessage) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "data is required")
	}
	var obj map[string]any
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "data must be a JSON object")
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "data must be a JSON object")
	}
	return json.RawMessage(buf.Bytes()), nil
}

func toRecordDTO(m *models.UserData) RecordDTO {
	return RecordDTO{
		ID:        m.ID,
		UserID:    m.UserID,
		Data:      m.Data,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
