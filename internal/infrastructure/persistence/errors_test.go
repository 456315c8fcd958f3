package persistence

import (
	"errors"
	"fmt"
	"testing"

	"github.com/menswear/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslateError(t *testing.T) {
	other := errors.New("connection reset")
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil stays nil", nil, nil},
		{"record not found", gorm.ErrRecordNotFound, shared.ErrNotFound},
		{"wrapped record not found", fmt.Errorf("query: %w", gorm.ErrRecordNotFound), shared.ErrNotFound},
		{"duplicate key", gorm.ErrDuplicatedKey, shared.ErrAlreadyExists},
		{"check constraint", gorm.ErrCheckConstraintViolated, shared.ErrConflict},
		{"foreign key", gorm.ErrForeignKeyViolated, shared.ErrInvalidInput},
		{"unknown passes through", other, other},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, translateError(tt.in))
		})
	}
}

func TestSearchPattern(t *testing.T) {
	assert.Equal(t, "%navy suit%", searchPattern("  Navy Suit "))
	assert.Equal(t, `%50\%\_off%`, searchPattern("50%_off"))
	assert.Equal(t, `%a\\b%`, searchPattern(`a\b`))
}
