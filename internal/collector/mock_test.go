package collector

import (
	"context"
	"io"
	"strings"

	"github.com/stretchr/testify/mock"
)

// --- RunLog Mock ---

type mockRunLog struct {
	mock.Mock
}

func (m *mockRunLog) StartRun(ctx context.Context, mode string) (string, error) {
	args := m.Called(ctx, mode)
	return args.String(0), args.Error(1)
}

func (m *mockRunLog) CompleteRun(ctx context.Context, runID string, result RunResult) error {
	args := m.Called(ctx, runID, result)
	return args.Error(0)
}

func (m *mockRunLog) FailRun(ctx context.Context, runID string, errMsg string) error {
	args := m.Called(ctx, runID, errMsg)
	return args.Error(0)
}

// --- Fetcher Mock ---

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) Download(ctx context.Context, url string) (io.ReadCloser, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return io.NopCloser(strings.NewReader(args.String(0))), args.Error(1)
}
