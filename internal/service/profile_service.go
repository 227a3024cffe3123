package service

import (
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/dersly/dersly-api/internal/models"
	"github.com/dersly/dersly-api/internal/store"
	appErrors "github.com/dersly/dersly-api/pkg/errors"
)

var studentIDPattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// SaveProfileRequest carries the payload for creating or replacing the
// session profile.
type SaveProfileRequest struct {
	Name           string `json:"name" validate:"required,min=2,max=100"`
	Email          string `json:"email" validate:"required,email"`
	StudentID      string `json:"student_id" validate:"omitempty,max=20"`
	Department     string `json:"department" validate:"omitempty,max=100"`
	ClassYear      int    `json:"class_year" validate:"omitempty,min=1,max=8"`
	PreferredScale string `json:"preferred_scale" validate:"omitempty"`
}

// ProfileService manages the single profile of a session.
type ProfileService struct {
	store        *store.Store
	validator    *validator.Validate
	logger       *zap.Logger
	defaultScale string
	now          func() time.Time
}

// NewProfileService constructs ProfileService. defaultScale is applied when
// a saved profile declares no grading scale; empty falls back to the
// built-in default.
func NewProfileService(st *store.Store, defaultScale string, validate *validator.Validate, logger *zap.Logger) *ProfileService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultScale == "" {
		defaultScale = models.DefaultScaleName
	}
	return &ProfileService{
		store:        st,
		validator:    validate,
		logger:       logger,
		defaultScale: defaultScale,
		now:          time.Now,
	}
}

// Get returns the session profile.
func (s *ProfileService) Get(sessionID string) (*models.Profile, error) {
	profile := s.store.Session(sessionID).Profile()
	if profile == nil {
		return nil, appErrors.New(appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "profile not set")
	}
	return profile, nil
}

// Save validates and stores the profile, replacing any previous one.
func (s *ProfileService) Save(sessionID string, req SaveProfileRequest) (*models.Profile, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
	}
	if req.StudentID != "" && !studentIDPattern.MatchString(req.StudentID) {
		return nil, appErrors.New(appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "student id must be alphanumeric")
	}
	scale := req.PreferredScale
	if scale == "" {
		scale = s.defaultScale
	}
	if _, ok := models.ScaleByName(scale); !ok {
		return nil, appErrors.New(appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unknown grading scale: "+scale)
	}

	sess := s.store.Session(sessionID)
	createdAt := s.now().UTC()
	if existing := sess.Profile(); existing != nil {
		createdAt = existing.CreatedAt
	}
	profile := &models.Profile{
		Name:           req.Name,
		Email:          req.Email,
		StudentID:      req.StudentID,
		Department:     req.Department,
		ClassYear:      req.ClassYear,
		PreferredScale: scale,
		CreatedAt:      createdAt,
	}
	sess.SetProfile(profile)
	return profile, nil
}

// Delete removes the session profile.
func (s *ProfileService) Delete(sessionID string) error {
	sess := s.store.Session(sessionID)
	if sess.Profile() == nil {
		return appErrors.New(appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "profile not set")
	}
	sess.SetProfile(nil)
	return nil
}
