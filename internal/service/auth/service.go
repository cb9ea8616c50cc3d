package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/hospital-api/internal/email"
	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/internal/service/access"
	"github.com/jwalitptl/hospital-api/internal/service/audit"
	"github.com/jwalitptl/hospital-api/internal/service/sequence"
	"github.com/jwalitptl/hospital-api/pkg/auth"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
	"github.com/jwalitptl/hospital-api/pkg/security"
)

const (
	msgInvalidCredentials = "Invalid email or password"
	msgDeactivated        = "Account is deactivated"
	msgEmailTaken         = "User with this email already exists"
	msgDoctorFields       = "Specialization, license number, and department are required for doctors"

	welcomeTimeout = 10 * time.Second
)

type Service struct {
	tx       repository.Transactor
	accounts repository.AccountRepository
	doctors  repository.DoctorRepository
	patients repository.PatientRepository
	assigner *sequence.Assigner
	hasher   security.PasswordHasher
	jwtSvc   auth.JWTService
	emailSvc email.Service
	auditor  *audit.Logger
	metrics  *metrics.Metrics
}

func NewService(tx repository.Transactor, accounts repository.AccountRepository,
	doctors repository.DoctorRepository, patients repository.PatientRepository,
	assigner *sequence.Assigner, hasher security.PasswordHasher, jwtSvc auth.JWTService,
	emailSvc email.Service, auditor *audit.Logger, m *metrics.Metrics) *Service {
	if emailSvc == nil {
		emailSvc = email.NoopService{}
	}
	return &Service{
		tx:       tx,
		accounts: accounts,
		doctors:  doctors,
		patients: patients,
		assigner: assigner,
		hasher:   hasher,
		jwtSvc:   jwtSvc,
		emailSvc: emailSvc,
		auditor:  auditor,
		metrics:  m,
	}
}

// Register creates the account and its role profile in one transaction and
// returns a session token for it.
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	req.Email = model.NormalizeEmail(req.Email)
	if req.Email == "" {
		return nil, apperrors.BadRequest("Email is required", nil)
	}
	if !req.Role.Valid() {
		return nil, apperrors.BadRequest("Invalid role", nil)
	}

	account := &model.Account{
		Email:       req.Email,
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		Role:        req.Role,
		Phone:       req.Phone,
		DateOfBirth: req.DateOfBirth,
		Gender:      req.Gender,
		IsActive:    true,
	}
	account.ID = uuid.New()
	if req.Address != nil {
		account.Address = *req.Address
	}

	profile, err := newProfile(req.Role, account, req)
	if err != nil {
		return nil, err
	}

	if _, err := s.accounts.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperrors.BadRequest(msgEmailTaken, nil)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Internal("Failed to register user", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		if errors.Is(err, security.ErrPasswordTooShort) {
			return nil, apperrors.BadRequest(fmt.Sprintf("Password must be at least %d characters", security.MinPasswordLen), nil)
		}
		return nil, apperrors.Internal("Failed to register user", err)
	}
	account.PasswordHash = hash

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.accounts.Create(ctx, account); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperrors.BadRequest(msgEmailTaken, err)
			}
			return err
		}
		return profile.save(ctx, s)
	})
	if err != nil {
		if _, ok := apperrors.As(err); ok {
			return nil, err
		}
		return nil, apperrors.Internal("Failed to register user", err)
	}

	token, err := s.jwtSvc.GenerateToken(account.ID, string(account.Role))
	if err != nil {
		return nil, apperrors.Internal("Failed to generate token", err)
	}

	if s.metrics != nil {
		s.metrics.Registrations.WithLabelValues(string(account.Role)).Inc()
	}
	s.auditor.Record(ctx, audit.Entry{
		ActorID:    account.ID,
		Role:       account.Role,
		Action:     "register",
		Resource:   string(access.KindAccount),
		ResourceID: account.ID.String(),
		Decision:   access.Allow.String(),
	})
	s.sendWelcome(ctx, account)

	log.Info().Str("account_id", account.ID.String()).Str("role", string(account.Role)).Msg("user registered")

	return &model.AuthResponse{User: account.Info(), Token: token}, nil
}

func (s *Service) sendWelcome(ctx context.Context, account *model.Account) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), welcomeTimeout)
	go func() {
		defer cancel()
		if err := s.emailSvc.SendWelcome(ctx, account.Email, account.FullName()); err != nil {
			log.Warn().Err(err).Str("account_id", account.ID.String()).Msg("welcome email not sent")
		}
	}()
}

// Login verifies the credentials before looking at the account state so a
// caller without the password learns nothing about the account.
func (s *Service) Login(ctx context.Context, emailAddr, password string) (*model.AuthResponse, error) {
	account, err := s.accounts.GetByEmail(ctx, model.NormalizeEmail(emailAddr))
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Internal("Failed to login", err)
	}

	var hash string
	if account != nil {
		hash = account.PasswordHash
	}
	if err := s.hasher.Compare(hash, password); err != nil {
		s.countLogin("invalid_credentials")
		return nil, apperrors.Unauthorized(msgInvalidCredentials, nil)
	}

	if !account.IsActive {
		s.countLogin("deactivated")
		return nil, apperrors.Unauthorized(msgDeactivated, nil)
	}

	token, err := s.jwtSvc.GenerateToken(account.ID, string(account.Role))
	if err != nil {
		return nil, apperrors.Internal("Failed to generate token", err)
	}

	s.countLogin("success")
	s.auditor.Record(ctx, audit.Entry{
		ActorID:    account.ID,
		Role:       account.Role,
		Action:     "login",
		Resource:   string(access.KindAccount),
		ResourceID: account.ID.String(),
		Decision:   access.Allow.String(),
	})

	return &model.AuthResponse{User: account.Info(), Token: token}, nil
}

func (s *Service) countLogin(outcome string) {
	if s.metrics != nil {
		s.metrics.Logins.WithLabelValues(outcome).Inc()
	}
}

// Profile returns the caller's account with its role profile.
func (s *Service) Profile(ctx context.Context, accountID uuid.UUID) (*model.ProfileResponse, error) {
	account, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("User not found", err)
		}
		return nil, apperrors.Internal("Failed to get profile", err)
	}

	resp := &model.ProfileResponse{User: account}
	switch account.Role {
	case model.RoleDoctor:
		doctor, err := s.doctors.GetByAccountID(ctx, account.ID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Internal("Failed to get profile", err)
		}
		resp.DoctorProfile = doctor
	case model.RolePatient:
		patient, err := s.patients.GetByAccountID(ctx, account.ID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Internal("Failed to get profile", err)
		}
		resp.PatientProfile = patient
	}
	return resp, nil
}

// Authenticate validates a bearer token and resolves the caller.
func (s *Service) Authenticate(ctx context.Context, token string) (*access.Actor, error) {
	accountID, err := s.ParseToken(token)
	if err != nil {
		return nil, err
	}
	return s.ResolveActor(ctx, accountID)
}

// ParseToken verifies the token signature and expiry and returns the
// account id it was issued for.
func (s *Service) ParseToken(token string) (uuid.UUID, error) {
	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return uuid.Nil, apperrors.Unauthorized("Token expired", err)
		}
		return uuid.Nil, apperrors.Unauthorized("Invalid token", err)
	}

	accountID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, apperrors.Unauthorized("Invalid token", err)
	}
	return accountID, nil
}

// ResolveActor loads the account and its profile ids. The role comes from
// the stored account, not from the token.
func (s *Service) ResolveActor(ctx context.Context, accountID uuid.UUID) (*access.Actor, error) {
	account, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Unauthorized("User not found", err)
		}
		return nil, apperrors.Internal("Failed to authenticate", err)
	}
	if !account.IsActive {
		return nil, apperrors.Unauthorized(msgDeactivated, nil)
	}

	actor := &access.Actor{AccountID: account.ID, Role: account.Role}
	switch account.Role {
	case model.RoleDoctor:
		doctor, err := s.doctors.GetByAccountID(ctx, account.ID)
		switch {
		case err == nil:
			actor.DoctorID = &doctor.ID
		case !errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.Internal("Failed to authenticate", err)
		}
	case model.RolePatient:
		patient, err := s.patients.GetByAccountID(ctx, account.ID)
		switch {
		case err == nil:
			actor.PatientID = &patient.ID
		case !errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.Internal("Failed to authenticate", err)
		}
	}
	return actor, nil
}
