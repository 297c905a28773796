package jobs_test

import (
	"errors"
	"testing"

	"stockledger/internal/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockJob is a mock implementation of Job interface.
type MockJob struct {
	mock.Mock
}

func (m *MockJob) Name() string {
	return m.Called().String(0)
}

func (m *MockJob) Start() error {
	return m.Called().Error(0)
}

func (m *MockJob) Stop() {
	m.Called()
}

func TestJobManager_StartAllAndStopAll(t *testing.T) {
	first := &MockJob{}
	second := &MockJob{}
	first.On("Start").Return(nil)
	second.On("Start").Return(nil)
	first.On("Stop").Return()
	second.On("Stop").Return()

	manager := jobs.NewJobManager(nil, first, second)

	require.NoError(t, manager.StartAll())
	manager.StopAll()

	first.AssertExpectations(t)
	second.AssertExpectations(t)
}

func TestJobManager_FailedStartStopsStartedJobs(t *testing.T) {
	first := &MockJob{}
	second := &MockJob{}
	first.On("Start").Return(nil)
	first.On("Stop").Return()
	second.On("Start").Return(errors.New("bad schedule"))
	second.On("Name").Return("broken")

	manager := jobs.NewJobManager(nil, first, second)

	err := manager.StartAll()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
	first.AssertCalled(t, "Stop")
	second.AssertNotCalled(t, "Stop")
}
