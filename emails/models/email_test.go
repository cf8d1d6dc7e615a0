// Copyright (c) 2025 iReserve
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCategoryKind(t *testing.T) {
	for name, want := range map[string]CategoryKind{
		"ALL":       CategoryAll,
		"RESIDENTS": CategoryResidents,
		"STAFF":     CategoryStaff,
	} {
		kind, ok := ParseCategoryKind(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, kind)
		assert.Equal(t, name, kind.String())
	}

	_, ok := ParseCategoryKind("EVERYONE")
	assert.False(t, ok)
}

func TestAudience(t *testing.T) {
	individual := IndividualAudience("user@example.com")
	assert.True(t, individual.IsIndividual())
	assert.Equal(t, "user@example.com", individual.Address())

	broadcast := CategoryAudience(CategoryStaff)
	assert.False(t, broadcast.IsIndividual())
	assert.Equal(t, CategoryStaff, broadcast.Category())
}
