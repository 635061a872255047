package tests

import (
	"context"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	httpadapter "workops/internal/adapter/http"
	"workops/internal/adapter/http/handlers"
	"workops/internal/adapter/http/middleware"
	"workops/internal/core/domain"
	"workops/internal/notify"
)

var testSecret = []byte("handler-test-secret")

type taskServiceMock struct {
	mock.Mock
}

func (m *taskServiceMock) ListTasks(ctx context.Context, query domain.ListTasksQuery) (domain.TaskPage, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(domain.TaskPage), args.Error(1)
}

func (m *taskServiceMock) GetTask(ctx context.Context, id uint64) (domain.Task, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskServiceMock) CreateTask(ctx context.Context, principal domain.Principal, input domain.CreateTaskInput) (domain.Task, error) {
	args := m.Called(ctx, principal, input)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskServiceMock) UpdateTask(ctx context.Context, id uint64, input domain.UpdateTaskInput) error {
	args := m.Called(ctx, id, input)
	return args.Error(0)
}

func (m *taskServiceMock) DeleteTask(ctx context.Context, id uint64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// newRouter wires the real middleware chain around the mocked service so
// handler tests exercise authentication, policies, and translation the
// way production requests do.
func newRouter(t *testing.T, serviceMock *taskServiceMock) *gin.Engine {
	t.Helper()

	authenticator := middleware.NewAuthenticator("", "", testSecret, []string{"workops-api"})

	router := gin.New()

	hub := notify.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	httpadapter.RegisterRoutes(
		router,
		authenticator,
		handlers.NewHealthHandler(nil),
		handlers.NewTaskHandler(serviceMock),
		handlers.NewAuthHandler(),
		handlers.NewNotificationsHandler(hub),
	)
	return router
}

// signToken mints an HS256 token for the test authenticator.
func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	if _, ok := claims["exp"]; !ok {
		claims["exp"] = time.Now().Add(time.Hour).Unix()
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return token
}

func userToken(t *testing.T, sub string) string {
	return signToken(t, jwt.MapClaims{
		"sub":   sub,
		"roles": []any{"user"},
	})
}

func adminToken(t *testing.T, sub string) string {
	return signToken(t, jwt.MapClaims{
		"sub":   sub,
		"roles": []any{"admin"},
	})
}
