package recommendation

import (
	"context"
	"fmt"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

type mockRepository struct {
	l log.Logger
}

// NewMockRepository initializes a new mock recommendation repository to test the caching locally without Algolia
// credentials
func NewMockRepository(l log.Logger) *mockRepository {
	return &mockRepository{
		l: l,
	}
}

func (s *mockRepository) Related(ctx context.Context, subject string) ([]Recommendation, error) {
	level.Info(s.l).Log("msg", "mocked recommendations requested", "subject", subject)
	published := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	recos := make([]Recommendation, 0, 3)
	for i := 1; i <= 3; i++ {
		recos = append(recos, Recommendation{
			Date:  published.AddDate(0, 0, -i),
			URL:   fmt.Sprintf("https://example.com/%s/related-%d", published.AddDate(0, 0, -i).Format("2006/01/02"), i),
			Title: fmt.Sprintf("Related post %d", i),
		})
	}
	return recos, nil
}
