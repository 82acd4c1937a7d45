package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ward-rounds/internal/apperr"
	"ward-rounds/internal/models"
	"ward-rounds/internal/repository"
	"ward-rounds/pkg/utils"
)

// DefaultStaffName is used when login is submitted without a name
const DefaultStaffName = "Plantonista"

type AuthService struct {
	staffRepo *repository.StaffRepository
	tokens    *utils.TokenIssuer
	defaults  models.Staff
	audit     Auditor
}

func NewAuthService(staffRepo *repository.StaffRepository, tokens *utils.TokenIssuer, defaults models.Staff, audit Auditor) *AuthService {
	return &AuthService{
		staffRepo: staffRepo,
		tokens:    tokens,
		defaults:  defaults,
		audit:     audit,
	}
}

// LoginResponse represents the response structure for login
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	ExpiresAt   time.Time    `json:"expires_at"`
	Staff       models.Staff `json:"staff"`
}

type ProfileInput struct {
	Name       string
	Role       string
	Department string
	AvatarURL  string
}

// Login opens a session for the named staff member. There are no credentials.
func (s *AuthService) Login(ctx context.Context, name string) (*LoginResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultStaffName
	}

	defaults := s.defaults
	defaults.ID = 0
	defaults.Name = name
	if defaults.Theme == "" {
		defaults.Theme = models.ThemeLight
	}
	staff, err := s.staffRepo.UpsertByName(ctx, name, defaults)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.tokens.Generate(staff.ID, staff.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	s.audit.record(ctx, &staff.ID, "staff_login", "Staff %s logged in", staff.Name)
	return &LoginResponse{AccessToken: token, ExpiresAt: expiresAt, Staff: *staff}, nil
}

func (s *AuthService) Profile(ctx context.Context, staffID uint) (*models.Staff, error) {
	return s.staffRepo.GetByID(ctx, staffID)
}

func (s *AuthService) UpdateProfile(ctx context.Context, staffID uint, in ProfileInput) (*models.Staff, error) {
	name, err := required("name", in.Name)
	if err != nil {
		return nil, err
	}
	staff, err := s.staffRepo.GetByID(ctx, staffID)
	if err != nil {
		return nil, err
	}
	taken, err := s.staffRepo.NameTaken(ctx, name, staffID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Validation("name", "%q is already in use", name)
	}

	staff.Name = name
	staff.Role = strings.TrimSpace(in.Role)
	staff.Department = strings.TrimSpace(in.Department)
	staff.AvatarURL = strings.TrimSpace(in.AvatarURL)
	if err := s.staffRepo.Update(ctx, staff); err != nil {
		return nil, err
	}

	s.audit.record(ctx, &staffID, "profile_updated", "Staff %d updated profile", staffID)
	return staff, nil
}

// SetTheme stores theme, or flips the current one when theme is empty
func (s *AuthService) SetTheme(ctx context.Context, staffID uint, theme models.Theme) (*models.Staff, error) {
	staff, err := s.staffRepo.GetByID(ctx, staffID)
	if err != nil {
		return nil, err
	}

	switch theme {
	case "":
		if staff.Theme == models.ThemeDark {
			theme = models.ThemeLight
		} else {
			theme = models.ThemeDark
		}
	case models.ThemeLight, models.ThemeDark:
	default:
		return nil, apperr.Validation("theme", "must be light or dark, got %q", theme)
	}

	staff.Theme = theme
	if err := s.staffRepo.Update(ctx, staff); err != nil {
		return nil, err
	}
	return staff, nil
}

// Identify resolves a bearer token to a staff ID
func (s *AuthService) Identify(token string) (uint, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return 0, err
	}
	return claims.StaffID, nil
}
