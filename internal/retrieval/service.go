package retrieval

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_service.go -package=mocks vectorvision/internal/retrieval Service

import (
	"context"
	"fmt"
	"os"
	"strings"

	"vectorvision/internal/collection"
	"vectorvision/internal/contextutil"
	"vectorvision/internal/navigation"
	"vectorvision/internal/service"
)

// DefaultLimit is the number of results returned when none is configured.
const DefaultLimit = 10

// Result is one ranked image. Rank 0 is the most similar.
type Result struct {
	Path     string  `json:"path"`
	Rank     int     `json:"rank"`
	Distance float32 `json:"distance"`
}

// QueryResult is the ordered answer to a query, nearest first.
type QueryResult []Result

// Paths returns the result paths in rank order.
func (r QueryResult) Paths() []string {
	paths := make([]string, len(r))
	for i, res := range r {
		paths[i] = res.Path
	}
	return paths
}

// Searcher is the part of the vector collection queries run against.
type Searcher interface {
	QueryTexts(ctx context.Context, texts []string, n int) ([][]collection.Match, error)
	QueryURIs(ctx context.Context, uris []string, n int) ([][]collection.Match, error)
	Count(ctx context.Context) (int, error)
}

// Service answers text and image similarity queries.
type Service interface {
	// QueryByText ranks indexed images against a free-text description.
	QueryByText(ctx context.Context, text string) (QueryResult, error)
	// QueryByImage ranks indexed images against the image at imagePath.
	QueryByImage(ctx context.Context, imagePath string) (QueryResult, error)
}

// retrievalService implements the Service interface.
type retrievalService struct {
	searcher  Searcher
	navigator *navigation.Navigator
	limit     int
}

// NewService creates a retrieval service. Successful queries are published
// to navigator when it is not nil.
func NewService(searcher Searcher, navigator *navigation.Navigator, limit int) Service {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &retrievalService{
		searcher:  searcher,
		navigator: navigator,
		limit:     limit,
	}
}

// QueryByText ranks indexed images by cosine distance to text.
func (s *retrievalService) QueryByText(ctx context.Context, text string) (QueryResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	text = strings.TrimSpace(text)
	if text == "" {
		s.publish(QueryResult{})
		return QueryResult{}, nil
	}

	empty, err := s.indexEmpty(ctx)
	if err != nil {
		return nil, err
	}
	if empty {
		s.publish(QueryResult{})
		return QueryResult{}, nil
	}

	matches, err := s.searcher.QueryTexts(ctx, []string{text}, s.limit)
	if err != nil {
		logger.ErrorContext(ctx, "text query failed", "error", err)
		return nil, err
	}

	result := toQueryResult(matches)
	logger.InfoContext(ctx, "text query", "query", text, "results", len(result))
	s.publish(result)
	return result, nil
}

// QueryByImage ranks indexed images by cosine distance to the image at
// imagePath. A missing or unreadable file fails with
// service.ErrInvalidQueryInput and leaves the navigator untouched.
func (s *retrievalService) QueryByImage(ctx context.Context, imagePath string) (QueryResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if err := checkReadable(imagePath); err != nil {
		return nil, err
	}

	empty, err := s.indexEmpty(ctx)
	if err != nil {
		return nil, err
	}
	if empty {
		s.publish(QueryResult{})
		return QueryResult{}, nil
	}

	matches, err := s.searcher.QueryURIs(ctx, []string{imagePath}, s.limit)
	if err != nil {
		logger.ErrorContext(ctx, "image query failed", "image_path", imagePath, "error", err)
		return nil, err
	}

	result := toQueryResult(matches)
	logger.InfoContext(ctx, "image query", "image_path", imagePath, "results", len(result))
	s.publish(result)
	return result, nil
}

func (s *retrievalService) indexEmpty(ctx context.Context) (bool, error) {
	n, err := s.searcher.Count(ctx)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

func (s *retrievalService) publish(result QueryResult) {
	if s.navigator == nil {
		return
	}
	items := make([]navigation.Item, len(result))
	for i, r := range result {
		items[i] = navigation.Item{Path: r.Path, Rank: r.Rank, Distance: r.Distance}
	}
	s.navigator.ShowResults(items)
}

func checkReadable(path string) error {
	if strings.TrimSpace(path) == "" {
		return &service.ValidationError{Field: "image_path", Message: "cannot be empty"}
	}
	info, err := os.Stat(path)
	if err != nil {
		return service.InvalidQueryInput(err, path)
	}
	if !info.Mode().IsRegular() {
		return service.InvalidQueryInput(fmt.Errorf("%s is not a regular file", path), path)
	}
	return nil
}

func toQueryResult(matches [][]collection.Match) QueryResult {
	if len(matches) == 0 {
		return QueryResult{}
	}
	result := make(QueryResult, 0, len(matches[0]))
	for i, m := range matches[0] {
		result = append(result, Result{
			Path:     m.Metadata.Path,
			Rank:     i,
			Distance: m.Distance,
		})
	}
	return result
}
