package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/utmart-backend/internal/users"
	pkgAuth "github.com/angelmondragon/utmart-backend/pkg/auth"
	"github.com/angelmondragon/utmart-backend/pkg/config"
	"github.com/angelmondragon/utmart-backend/pkg/db"
	"github.com/angelmondragon/utmart-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/utmart-backend/pkg/errors"
	"gorm.io/gorm"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth controller.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
}

type userRepository interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type passwordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo  userRepository
	Tx        txRunner
	// NewTxRepo binds a user repository to a transaction. Defaults to users.NewRepository.
	NewTxRepo func(tx *gorm.DB) userRepository
	Hasher    passwordHasher
	JWTConfig config.JWTConfig
	Now       func() time.Time
}

type service struct {
	users     userRepository
	tx        txRunner
	newTxRepo func(tx *gorm.DB) userRepository
	hasher    passwordHasher
	jwtCfg    config.JWTConfig
	now       func() time.Time
}

// NewService constructs an auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.Hasher == nil {
		return nil, fmt.Errorf("password hasher is required")
	}
	svc := &service{
		users:     params.UserRepo,
		tx:        params.Tx,
		newTxRepo: params.NewTxRepo,
		hasher:    params.Hasher,
		jwtCfg:    params.JWTConfig,
		now:       params.Now,
	}
	if svc.newTxRepo == nil {
		svc.newTxRepo = func(tx *gorm.DB) userRepository { return users.NewRepository(tx) }
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	return svc, nil
}

// NewDBService wires the service against the database-backed user repository.
func NewDBService(client *db.Client, hasher passwordHasher, jwtCfg config.JWTConfig) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("db client is required")
	}
	return NewService(ServiceParams{
		UserRepo:  users.NewRepository(client.DB()),
		Tx:        client,
		Hasher:    hasher,
		JWTConfig: jwtCfg,
	})
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	email := users.NormalizeEmail(req.Email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var user *models.User
	create := func(repo userRepository) error {
		if _, err := repo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check user email")
		}

		created, err := repo.Create(ctx, users.CreateUserDTO{
			Name:         req.Name,
			Email:        email,
			PasswordHash: passwordHash,
		})
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
		}
		user = created
		return nil
	}

	if s.tx != nil {
		err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			return create(s.newTxRepo(tx))
		})
	} else {
		err = create(s.users)
	}
	if err != nil {
		return nil, err
	}

	return s.issue(user, "user registered successfully")
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	email := users.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}

	ok, err := s.hasher.Verify(req.Password, user.PasswordHash)
	if err != nil || !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	now := s.now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record login")
	}
	user.LastLoginAt = &now

	return s.issue(user, "login successful")
}

func (s *service) issue(user *models.User, message string) (*AuthResponse, error) {
	token, err := pkgAuth.MintAccessToken(s.jwtCfg, s.now(), pkgAuth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return &AuthResponse{
		Message:   message,
		Token:     token,
		ExpiresIn: int64(s.jwtCfg.TTL().Seconds()),
		User:      users.FromModel(user),
	}, nil
}
