// Copyright (c) 2025 iReserve
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	emailErrors "github.com/ireserve/email-api/emails/errors"
	"github.com/ireserve/email-api/emails/models"
	"github.com/ireserve/email-api/emails/repository"
	"github.com/ireserve/email-api/internal/testutil"
)

func newTestDispatch(mockRepo *MockDirectoryRepository, sender *testutil.FakeEmailSender) DispatchService {
	resolver := NewAudienceResolver(mockRepo)
	renderer := NewRenderer()
	pool := NewDeliveryPool(sender, testPoolConfig())
	return NewDispatchService(resolver, renderer, pool)
}

func TestDispatchService_Dispatch(t *testing.T) {
	ctx := context.Background()
	tmpl := models.MessageTemplate{Subject: "Notice", BodyHTML: "Hello {{.DisplayName}}."}

	t.Run("broadcast produces one outcome per recipient in resolved order", func(t *testing.T) {
		mockRepo := new(MockDirectoryRepository)
		mockRepo.On("ListStaff", ctx).Return([]repository.DirectoryEntry{
			{Email: "alex@example.com", FullName: "Alex", Role: models.RoleStaff},
			{Email: "sam@example.com", FullName: "Sam", Role: models.RoleStaff},
			{Email: "jo@example.com", FullName: "Jo", Role: models.RoleStaff},
		}, nil)
		sender := testutil.NewFakeEmailSender()

		result, err := newTestDispatch(mockRepo, sender).Dispatch(ctx, models.CategoryAudience(models.CategoryStaff), tmpl)

		require.NoError(t, err)
		assert.Equal(t, 3, result.Total)
		assert.Equal(t, 3, result.Sent)
		assert.Zero(t, result.Failed)
		require.Len(t, result.Outcomes, 3)
		assert.Equal(t, "alex@example.com", result.Outcomes[0].Recipient.Address)
		assert.Equal(t, "sam@example.com", result.Outcomes[1].Recipient.Address)
		assert.Equal(t, "jo@example.com", result.Outcomes[2].Recipient.Address)
	})

	t.Run("partial failure never fails the request", func(t *testing.T) {
		mockRepo := new(MockDirectoryRepository)
		mockRepo.On("ListStaff", ctx).Return([]repository.DirectoryEntry{
			{Email: "ok1@example.com", Role: models.RoleStaff},
			{Email: "gone@example.com", Role: models.RoleStaff},
			{Email: "ok2@example.com", Role: models.RoleStaff},
		}, nil)
		sender := testutil.NewFakeEmailSender()
		sender.FailWith("gone@example.com", permanentErr())

		result, err := newTestDispatch(mockRepo, sender).Dispatch(ctx, models.CategoryAudience(models.CategoryStaff), tmpl)

		require.NoError(t, err)
		assert.Equal(t, 3, result.Total)
		assert.Equal(t, 2, result.Sent)
		assert.Equal(t, 1, result.Failed)

		failed := outcomeFor(t, result.Outcomes, "gone@example.com")
		assert.ErrorIs(t, failed.Err, emailErrors.ErrPermanentDelivery)
	})

	t.Run("empty category opens no SMTP session", func(t *testing.T) {
		mockRepo := new(MockDirectoryRepository)
		mockRepo.On("ListStaff", ctx).Return([]repository.DirectoryEntry{}, nil)
		sender := testutil.NewFakeEmailSender()

		result, err := newTestDispatch(mockRepo, sender).Dispatch(ctx, models.CategoryAudience(models.CategoryStaff), tmpl)

		require.NoError(t, err)
		assert.Zero(t, result.Total)
		assert.Zero(t, result.Sent)
		assert.Zero(t, result.Failed)
		assert.Empty(t, result.Outcomes)
		assert.Zero(t, sender.SentCount())
	})

	t.Run("resolution failure aborts with no partial result", func(t *testing.T) {
		mockRepo := new(MockDirectoryRepository)
		mockRepo.On("ListAll", ctx).Return(nil, errors.New("dial tcp: connection refused"))
		sender := testutil.NewFakeEmailSender()

		result, err := newTestDispatch(mockRepo, sender).Dispatch(ctx, models.CategoryAudience(models.CategoryAll), tmpl)

		assert.Nil(t, result)
		assert.ErrorIs(t, err, emailErrors.ErrResolution)
		assert.Zero(t, sender.SentCount())
	})

	t.Run("invalid individual address makes no DB or SMTP call", func(t *testing.T) {
		mockRepo := new(MockDirectoryRepository)
		sender := testutil.NewFakeEmailSender()

		result, err := newTestDispatch(mockRepo, sender).Dispatch(ctx, models.IndividualAudience("not-an-address"), tmpl)

		assert.Nil(t, result)
		assert.ErrorIs(t, err, emailErrors.ErrInvalidAddress)
		assert.Zero(t, sender.SentCount())
		mockRepo.AssertNotCalled(t, "ListAll")
		mockRepo.AssertNotCalled(t, "ListResidents")
		mockRepo.AssertNotCalled(t, "ListStaff")
	})

	t.Run("render failure is localized to one recipient", func(t *testing.T) {
		mockRepo := new(MockDirectoryRepository)
		mockRepo.On("ListResidents", ctx).Return([]repository.DirectoryEntry{
			{Email: "a@example.com", FullName: "A", Role: models.RoleResident},
			{Email: "b@example.com", FullName: "B", Role: models.RoleResident},
		}, nil)
		sender := testutil.NewFakeEmailSender()

		// Unknown field: every render fails, no job reaches the pool.
		badTmpl := models.MessageTemplate{Subject: "x", BodyHTML: "{{.Nope}}"}

		result, err := newTestDispatch(mockRepo, sender).Dispatch(ctx, models.CategoryAudience(models.CategoryResidents), badTmpl)

		require.NoError(t, err)
		assert.Equal(t, 2, result.Total)
		assert.Zero(t, result.Sent)
		assert.Equal(t, 2, result.Failed)
		for _, outcome := range result.Outcomes {
			assert.ErrorIs(t, outcome.Err, emailErrors.ErrTemplate)
			assert.Zero(t, outcome.Attempts)
		}
		assert.Zero(t, sender.SentCount())
	})

	t.Run("individual send carries reply-to and cc", func(t *testing.T) {
		mockRepo := new(MockDirectoryRepository)
		sender := testutil.NewFakeEmailSender()

		indTmpl := models.MessageTemplate{
			Subject:    "Question",
			BodyHTML:   "Hi there",
			Layout:     models.LayoutIndividual,
			ReplyTo:    "client@example.com",
			Cc:         []string{"cc@example.com"},
			SenderName: "iReserve System",
		}

		result, err := newTestDispatch(mockRepo, sender).Dispatch(ctx, models.IndividualAudience("dest@example.com"), indTmpl)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Sent)
		last := sender.LastSent()
		require.NotNil(t, last)
		assert.Equal(t, "dest@example.com", last.To)
		assert.Equal(t, "client@example.com", last.ReplyTo)
		assert.Equal(t, []string{"cc@example.com"}, last.Cc)
	})
}

func TestDispatchService_Preview(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockDirectoryRepository)
	mockRepo.On("ListStaff", ctx).Return([]repository.DirectoryEntry{
		{Email: "alex@example.com", FullName: "Alex", Role: models.RoleStaff},
	}, nil)
	sender := testutil.NewFakeEmailSender()

	recipients, err := newTestDispatch(mockRepo, sender).Preview(ctx, models.CategoryAudience(models.CategoryStaff))

	require.NoError(t, err)
	assert.Len(t, recipients, 1)
	assert.Zero(t, sender.SentCount())
}
