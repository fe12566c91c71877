package dberr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/feinledger/fein/pkg/domain"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMapGormErrorToDomain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    error
		expected error
	}{
		{"duplicate key", gorm.ErrDuplicatedKey, domain.ErrAlreadyExists},
		{"record not found", gorm.ErrRecordNotFound, domain.ErrNotFound},
		{"foreign key violated", gorm.ErrForeignKeyViolated, domain.ErrNotFound},
		{"joined duplicate key", errors.Join(errors.New("outer"), gorm.ErrDuplicatedKey), domain.ErrAlreadyExists},
		{"wrapped not found", fmt.Errorf("load account: %w", gorm.ErrRecordNotFound), domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.ErrorIs(t, MapGormErrorToDomain(tt.input), tt.expected)
		})
	}
}

func TestMapGormErrorToDomain_PassThrough(t *testing.T) {
	t.Parallel()

	assert.NoError(t, MapGormErrorToDomain(nil))

	other := errors.New("connection reset")
	assert.Same(t, other, MapGormErrorToDomain(other))
}

func TestWrapError(t *testing.T) {
	t.Parallel()

	assert.NoError(t, WrapError(func() error { return nil }))
	assert.ErrorIs(t, WrapError(func() error { return gorm.ErrRecordNotFound }), domain.ErrNotFound)
	assert.EqualError(t, WrapError(func() error { return errors.New("custom error") }), "custom error")
}
