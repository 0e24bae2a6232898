package domain_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrupp/foro/internal/domain"
)

func TestSignupRequest_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		req        domain.SignupRequest
		wantFields []string
	}{
		{
			name: "valid",
			req:  domain.SignupRequest{Email: "user@example.com", Password: "password123", Username: "user"},
		},
		{
			name:       "all missing",
			req:        domain.SignupRequest{},
			wantFields: []string{"email", "password", "nombreUsuario"},
		},
		{
			name:       "short password",
			req:        domain.SignupRequest{Email: "user@example.com", Password: "short", Username: "user"},
			wantFields: []string{"password"},
		},
		{
			name:       "password over bcrypt limit",
			req:        domain.SignupRequest{Email: "user@example.com", Password: strings.Repeat("ñ", 40), Username: "user"},
			wantFields: []string{"password"},
		},
		{
			name:       "malformed email",
			req:        domain.SignupRequest{Email: "not-an-email", Password: "password123", Username: "user"},
			wantFields: []string{"email"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.req.Validate()
			if len(tt.wantFields) == 0 {
				require.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrValidation))

			fields, ok := domain.ValidationErrors(err)
			require.True(t, ok)

			for _, field := range tt.wantFields {
				assert.Contains(t, fields, field)
			}
		})
	}
}

func TestLoginRequest_Validate(t *testing.T) {
	t.Parallel()

	require.NoError(t, domain.LoginRequest{Email: "a@b.c", Password: "x"}.Validate())

	err := domain.LoginRequest{}.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestTopicRequest_Validate(t *testing.T) {
	t.Parallel()

	valid := domain.TopicRequest{Message: "How do I use goroutines?", Course: "Go"}.WithDefaults()
	require.NoError(t, valid.Validate())
	assert.Equal(t, domain.TopicStatusOpen, valid.Status)

	err := domain.TopicRequest{Message: "short", Status: "UNKNOWN", Course: "G"}.Validate()
	require.Error(t, err)

	fields, ok := domain.ValidationErrors(err)
	require.True(t, ok)
	assert.Contains(t, fields, "mensaje")
	assert.Contains(t, fields, "statusActual")
	assert.Contains(t, fields, "curso")
}

func TestParseTopicStatus(t *testing.T) {
	t.Parallel()

	status, err := domain.ParseTopicStatus("CERRADO")
	require.NoError(t, err)
	assert.Equal(t, domain.TopicStatusClosed, status)

	_, err = domain.ParseTopicStatus("cerrado")
	assert.True(t, errors.Is(err, domain.ErrInvalidTopicStatus))
}

func TestValidateCourseSearch(t *testing.T) {
	t.Parallel()

	require.NoError(t, domain.ValidateCourseSearch("go"))

	err := domain.ValidateCourseSearch("")
	require.ErrorIs(t, err, domain.ErrValidation)

	fields, ok := domain.ValidationErrors(err)
	require.True(t, ok)
	assert.Contains(t, fields, "curso")
}

func TestTopicRequest_MergeInto(t *testing.T) {
	t.Parallel()

	existing := domain.Topic{
		ID:      7,
		Message: "original message text",
		Status:  domain.TopicStatusOpen,
		Author:  domain.Author{ID: 3, Username: "alice"},
		Course:  "Go",
	}

	merged := domain.TopicRequest{Status: domain.TopicStatusSolved}.MergeInto(existing)
	assert.Equal(t, domain.TopicStatusSolved, merged.Status)
	assert.Equal(t, existing.Message, merged.Message)
	assert.Equal(t, existing.Course, merged.Course)
	assert.Equal(t, existing.Author, merged.Author)
	assert.Equal(t, existing.ID, merged.ID)

	merged = domain.TopicRequest{Message: "a brand new message", Course: "Rust"}.MergeInto(existing)
	assert.Equal(t, "a brand new message", merged.Message)
	assert.Equal(t, "Rust", merged.Course)
	assert.Equal(t, domain.TopicStatusOpen, merged.Status)
	assert.Equal(t, existing.Request(), domain.TopicRequest{}.MergeInto(existing).Request())
}
