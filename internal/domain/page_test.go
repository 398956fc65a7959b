package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkordes/itinerary/internal/domain"
)

func intPtr(i int) *int { return &i }

func TestNewPaginationParams(t *testing.T) {
	assert.Equal(t, domain.PaginationParams{Page: 1, Limit: 20}, domain.NewPaginationParams(nil, nil))
	assert.Equal(t, domain.PaginationParams{Page: 3, Limit: 5}, domain.NewPaginationParams(intPtr(3), intPtr(5)))
	assert.Equal(t, domain.PaginationParams{Page: 1, Limit: 100}, domain.NewPaginationParams(intPtr(0), intPtr(500)))
}

func TestPaginationParams_Window(t *testing.T) {
	p := domain.PaginationParams{Page: 2, Limit: 2}

	start, end := p.Window(5)
	assert.Equal(t, 2, start)
	assert.Equal(t, 4, end)

	start, end = p.Window(3)
	assert.Equal(t, 2, start)
	assert.Equal(t, 3, end)

	start, end = domain.PaginationParams{Page: 9, Limit: 10}.Window(3)
	assert.Equal(t, start, end)
}
