package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prestanaute/backend/internal/domain"
	"github.com/prestanaute/backend/internal/service"
)

func TestWorksiteService_Search(t *testing.T) {
	worksites := &mockWorksiteRepo{
		search: func(_ context.Context, term string) ([]domain.Worksite, error) {
			assert.Equal(t, "louise", term)
			return []domain.Worksite{
				{ID: "WS-2001", Name: "Louise tunnel lighting"},
				{ID: "WS-1001", Name: "Avenue Louise renovation"},
			}, nil
		},
	}
	svc := service.NewWorksiteService(worksites)

	got, err := svc.Search(context.Background(), "louise")

	require.NoError(t, err)
	assert.Equal(t, []string{
		"WS-2001 | Louise tunnel lighting",
		"WS-1001 | Avenue Louise renovation",
	}, got)
}

func TestWorksiteService_Search_NoMatch(t *testing.T) {
	worksites := &mockWorksiteRepo{
		search: func(context.Context, string) ([]domain.Worksite, error) { return nil, nil },
	}
	svc := service.NewWorksiteService(worksites)

	got, err := svc.Search(context.Background(), "nothing")

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestWorksiteService_Search_RepoError(t *testing.T) {
	worksites := &mockWorksiteRepo{
		search: func(context.Context, string) ([]domain.Worksite, error) {
			return nil, errors.New("connection refused")
		},
	}
	svc := service.NewWorksiteService(worksites)

	_, err := svc.Search(context.Background(), "louise")

	assert.Error(t, err)
}
