package categorize_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/drepessoal/internal/categorize"
)

func TestService_Suggest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := categorize.NewMockRepository(ctrl)
	svc := categorize.NewService(repo)

	repo.EXPECT().FindCategory(gomock.Any(), "UBER *TRIP SAO PAULO").Return("transporte", nil)

	got, err := svc.Suggest(context.Background(), "UBER *TRIP SAO PAULO")
	require.NoError(t, err)
	assert.Equal(t, "transporte", got)

	got, err = svc.Suggest(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestService_Learn(t *testing.T) {
	type testCase struct {
		name      string
		pattern   string
		category  string
		setupMock func(m *categorize.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name:     "Success",
			pattern:  " IFOOD ",
			category: "Alimentacao",
			setupMock: func(m *categorize.MockRepository) {
				m.EXPECT().CreateRule(gomock.Any(), "IFOOD", "alimentacao").Return(nil)
			},
		},
		{name: "EmptyPattern", pattern: "  ", category: "lazer", wantErr: categorize.ErrEmptyPattern},
		{name: "UnknownCategory", pattern: "NETFLIX", category: "streaming", wantErr: categorize.ErrUnknownCategory},
		{
			name:     "RepoError",
			pattern:  "NETFLIX",
			category: "lazer",
			setupMock: func(m *categorize.MockRepository) {
				m.EXPECT().CreateRule(gomock.Any(), "NETFLIX", "lazer").Return(errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := categorize.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			err := categorize.NewService(repo).Learn(context.Background(), tt.pattern, tt.category)
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
				return
			}

			assert.NoError(t, err)
		})
	}
}
