package backend

import (
	"context"
	"sync"

	"github.com/p-n-ai/pai-tube/internal/model"
)

// MockGateway is a test double for Gateway.
type MockGateway struct {
	Analysis   model.AnalysisResult
	Quiz       model.QuizSet
	AnalyzeErr error
	QuizErr    error

	// Block, when set, holds calls until it is closed.
	Block chan struct{}

	mu   sync.Mutex
	urls []string
}

func (m *MockGateway) Analyze(ctx context.Context, url string) (model.AnalysisResult, error) {
	m.record(url)
	if err := m.wait(ctx); err != nil {
		return model.AnalysisResult{}, err
	}
	if m.AnalyzeErr != nil {
		return model.AnalysisResult{}, m.AnalyzeErr
	}
	return m.Analysis, nil
}

func (m *MockGateway) GenerateQuiz(ctx context.Context, url string) (model.QuizSet, error) {
	m.record(url)
	if err := m.wait(ctx); err != nil {
		return model.QuizSet{}, err
	}
	if m.QuizErr != nil {
		return model.QuizSet{}, m.QuizErr
	}
	return m.Quiz, nil
}

// URLs returns every url the mock was called with, in order.
func (m *MockGateway) URLs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.urls...)
}

func (m *MockGateway) record(url string) {
	m.mu.Lock()
	m.urls = append(m.urls, url)
	m.mu.Unlock()
}

func (m *MockGateway) wait(ctx context.Context) error {
	if m.Block == nil {
		return nil
	}
	select {
	case <-m.Block:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
