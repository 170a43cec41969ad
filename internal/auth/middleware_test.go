package auth

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedro17pedroo/tts-sub001/internal/domain"
)

type capturingUserRepo struct {
	user   *domain.User
	gotCtx context.Context
}

func (r *capturingUserRepo) Create(ctx context.Context, user *domain.User) error {
	return nil
}

func (r *capturingUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.gotCtx = ctx
	if r.user == nil || r.user.ID != id {
		return nil, pgx.ErrNoRows
	}
	copied := *r.user
	return &copied, nil
}

func (r *capturingUserRepo) GetByEmail(ctx context.Context, tenantID, email string) (*domain.User, error) {
	return nil, pgx.ErrNoRows
}

type ctxKey string

func TestHandleLoadsUserOnRequestContext(t *testing.T) {
	user := testUser()
	user.IsActive = true
	repo := &capturingUserRepo{user: user}
	tm := NewTokenManager("test-secret", 60)

	token, _, err := tm.GenerateToken(user)
	require.NoError(t, err)

	const key = ctxKey("request-scope")
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.SetUserContext(context.WithValue(c.UserContext(), key, "wired"))
		return c.Next()
	})
	app.Use(NewAuthMiddleware(tm, repo).Handle)
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// The user lookup must run on the per-request context so deadlines and
	// values installed by outer middleware reach the database call.
	require.NotNil(t, repo.gotCtx)
	assert.Equal(t, "wired", repo.gotCtx.Value(key))
}

func TestHandleRejectsMissingHeader(t *testing.T) {
	repo := &capturingUserRepo{}
	app := fiber.New()
	app.Use(NewAuthMiddleware(NewTokenManager("test-secret", 60), repo).Handle)
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.NotEqual(t, fiber.StatusOK, resp.StatusCode)
	assert.Nil(t, repo.gotCtx)
}
