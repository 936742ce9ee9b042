package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/angelmondragon/utmart-backend/pkg/db"
	"github.com/angelmondragon/utmart-backend/pkg/db/dbtest"
	"gorm.io/gorm"
)

func TestRepositoryCreateAndFind(t *testing.T) {
	client := dbtest.Open(t)
	repo := NewRepository(client.DB())
	ctx := context.Background()

	user, err := repo.Create(ctx, CreateUserDTO{Name: " Asha ", Email: " Asha@Example.COM ", PasswordHash: "hash"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if user.ID == 0 || user.Email != "asha@example.com" || user.Name != "Asha" {
		t.Fatalf("unexpected user %+v", user)
	}

	found, err := repo.FindByEmail(ctx, "asha@example.com")
	if err != nil {
		t.Fatalf("find by email: %v", err)
	}
	if found.ID != user.ID {
		t.Fatalf("expected id %d, got %d", user.ID, found.ID)
	}

	if _, err := repo.FindByID(ctx, user.ID+100); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	_, err = repo.Create(ctx, CreateUserDTO{Name: "Dup", Email: "ASHA@example.com", PasswordHash: "hash"})
	if !db.IsUniqueViolation(err, "") {
		t.Fatalf("expected unique violation, got %v", err)
	}
}

func TestRepositoryUpdateLastLogin(t *testing.T) {
	client := dbtest.Open(t)
	repo := NewRepository(client.DB())
	ctx := context.Background()

	user, err := repo.Create(ctx, CreateUserDTO{Name: "Ravi", Email: "ravi@example.com", PasswordHash: "hash"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := repo.UpdateLastLogin(ctx, user.ID, at); err != nil {
		t.Fatalf("update last login: %v", err)
	}

	reloaded, err := repo.FindByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if reloaded.LastLoginAt == nil || !reloaded.LastLoginAt.Equal(at) {
		t.Fatalf("expected last login %v, got %v", at, reloaded.LastLoginAt)
	}
	if dto := FromModel(reloaded); dto.Email != "ravi@example.com" {
		t.Fatalf("unexpected dto %+v", dto)
	}
}

func TestRepositoryLookupsNormalizeAndReportMissing(t *testing.T) {
	client := dbtest.Open(t)
	repo := NewRepository(client.DB())
	ctx := context.Background()

	user, err := repo.Create(ctx, CreateUserDTO{Name: "Meera", Email: "meera@example.com", PasswordHash: "hash"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	found, err := repo.FindByEmail(ctx, "  MEERA@example.com ")
	if err != nil || found.ID != user.ID {
		t.Fatalf("expected normalized lookup to match, got %v %v", found, err)
	}
	if err := repo.UpdateLastLogin(ctx, user.ID+50, time.Now()); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found for unknown user, got %v", err)
	}
}
