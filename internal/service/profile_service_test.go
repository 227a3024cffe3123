package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dersly/dersly-api/internal/models"
	"github.com/dersly/dersly-api/internal/store"
	appErrors "github.com/dersly/dersly-api/pkg/errors"
)

func newProfileService() *ProfileService {
	return NewProfileService(store.New(0, nil), "", nil, nil)
}

func validProfileRequest() SaveProfileRequest {
	return SaveProfileRequest{
		Name:      "Ada Lovelace",
		Email:     "ada@example.edu",
		StudentID: "20260042",
		ClassYear: 2,
	}
}

func TestSaveProfileDefaultsScale(t *testing.T) {
	svc := newProfileService()

	profile, err := svc.Save("s1", validProfileRequest())
	require.NoError(t, err)
	assert.Equal(t, models.DefaultScaleName, profile.PreferredScale)
	assert.False(t, profile.CreatedAt.IsZero())
}

func TestSaveProfileKeepsCreatedAtOnReplace(t *testing.T) {
	svc := newProfileService()

	first, err := svc.Save("s1", validProfileRequest())
	require.NoError(t, err)

	req := validProfileRequest()
	req.Name = "Ada L."
	second, err := svc.Save("s1", req)
	require.NoError(t, err)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.Equal(t, "Ada L.", second.Name)
}

func TestSaveProfileValidation(t *testing.T) {
	svc := newProfileService()

	cases := map[string]func(*SaveProfileRequest){
		"short name":     func(r *SaveProfileRequest) { r.Name = "A" },
		"bad email":      func(r *SaveProfileRequest) { r.Email = "not-an-email" },
		"bad student id": func(r *SaveProfileRequest) { r.StudentID = "2026-0042" },
		"class year":     func(r *SaveProfileRequest) { r.ClassYear = 9 },
		"unknown scale":  func(r *SaveProfileRequest) { r.PreferredScale = "base-13" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := validProfileRequest()
			mutate(&req)
			_, err := svc.Save("s1", req)
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
		})
	}
}

func TestGetAndDeleteProfile(t *testing.T) {
	svc := newProfileService()

	_, err := svc.Get("s1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	_, err = svc.Save("s1", validProfileRequest())
	require.NoError(t, err)

	profile, err := svc.Get("s1")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", profile.Name)

	require.NoError(t, svc.Delete("s1"))
	assert.Error(t, svc.Delete("s1"))
}
