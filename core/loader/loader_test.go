package loader

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type mockFeature struct {
	mock.Mock
}

func (m *mockFeature) Name() string    { return m.Called().String(0) }
func (m *mockFeature) IsEnabled() bool { return m.Called().Bool(0) }
func (m *mockFeature) Load(app fiber.Router) error {
	return m.Called(app).Error(0)
}

func TestManager_LoadAll(t *testing.T) {
	app := fiber.New()

	enabled := &mockFeature{}
	enabled.On("Name").Return("runs")
	enabled.On("IsEnabled").Return(true)
	enabled.On("Load", app).Return(nil)

	disabled := &mockFeature{}
	disabled.On("Name").Return("other")
	disabled.On("IsEnabled").Return(false)

	m := NewManager(zap.NewNop())
	m.Register(enabled)
	m.Register(disabled)

	assert.NoError(t, m.LoadAll(app))
	enabled.AssertExpectations(t)
	disabled.AssertNotCalled(t, "Load", mock.Anything)
}

func TestManager_LoadAllError(t *testing.T) {
	app := fiber.New()
	f := &mockFeature{}
	f.On("Name").Return("runs")
	f.On("IsEnabled").Return(true)
	f.On("Load", app).Return(errors.New("boom"))

	m := NewManager(zap.NewNop())
	m.Register(f)

	assert.EqualError(t, m.LoadAll(app), "failed to load feature runs: boom")
}
