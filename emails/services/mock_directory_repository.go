// Copyright (c) 2025 iReserve
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ireserve/email-api/emails/repository"
)

// MockDirectoryRepository is a mock implementation of DirectoryRepository for testing
type MockDirectoryRepository struct {
	mock.Mock
}

// Ensure MockDirectoryRepository implements DirectoryRepository
var _ repository.DirectoryRepository = (*MockDirectoryRepository)(nil)

// ListResidents mocks the ListResidents method
func (m *MockDirectoryRepository) ListResidents(ctx context.Context) ([]repository.DirectoryEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.DirectoryEntry), args.Error(1)
}

// ListStaff mocks the ListStaff method
func (m *MockDirectoryRepository) ListStaff(ctx context.Context) ([]repository.DirectoryEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.DirectoryEntry), args.Error(1)
}

// ListAll mocks the ListAll method
func (m *MockDirectoryRepository) ListAll(ctx context.Context) ([]repository.DirectoryEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.DirectoryEntry), args.Error(1)
}
