package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prassaaa/dashboard-rokokgs-sub000/internal/domain"
	"github.com/prassaaa/dashboard-rokokgs-sub000/internal/domain/entity"
	apphttp "github.com/prassaaa/dashboard-rokokgs-sub000/internal/interfaces/http"
	pkgjwt "github.com/prassaaa/dashboard-rokokgs-sub000/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testBranchID  = "00000000-0000-0000-0000-0000000000b1"
	testIssuer    = "rokokgs-test"
	testExpMin    = 60
)

// stubResolver devuelve actores fijos por user id.
type stubResolver struct {
	actors map[string]*entity.Actor
	err    error
}

func (s stubResolver) Resolve(_ context.Context, userID string) (*entity.Actor, error) {
	if s.err != nil {
		return nil, s.err
	}
	a, ok := s.actors[userID]
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return a, nil
}

func branchEditor() *entity.Actor {
	return entity.NewActor(testUserID, "Admin Centro", entity.RoleBranchAdmin, testBranchID,
		entity.CapabilityViewStock, entity.CapabilityEditStock)
}

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para parsear el JWT
//   - ActorMiddleware para cargar el actor
//   - RequireCapability para exigir la capacidad indicada
func buildTestApp(resolver stubResolver, capability string) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret, testIssuer),
		apphttp.ActorMiddleware(resolver),
		apphttp.RequireCapability(capability),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{
				"ok":     true,
				"role":   apphttp.GetActor(c).Role,
				"branch": apphttp.GetActor(c).BranchID,
			})
		},
	)
	return app
}

func bearer(t *testing.T, userID, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, userID, testBranchID, role, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// doRequest lanza una petición GET /protected y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireCapability_ActorConCapacidadPasa(t *testing.T) {
	app := buildTestApp(stubResolver{actors: map[string]*entity.Actor{testUserID: branchEditor()}}, entity.CapabilityEditStock)
	resp := doRequest(t, app, bearer(t, testUserID, entity.RoleBranchAdmin))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, entity.RoleBranchAdmin, body["role"])
	assert.Equal(t, testBranchID, body["branch"])
}

func TestRequireCapability_SinCapacidad_Retorna403(t *testing.T) {
	app := buildTestApp(stubResolver{actors: map[string]*entity.Actor{testUserID: branchEditor()}}, entity.CapabilityCreateStock)
	resp := doRequest(t, app, bearer(t, testUserID, entity.RoleBranchAdmin))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

func TestActorMiddleware_UsuarioInactivo_Retorna401(t *testing.T) {
	app := buildTestApp(stubResolver{actors: map[string]*entity.Actor{}}, entity.CapabilityViewStock)
	resp := doRequest(t, app, bearer(t, testUserID, entity.RoleBranchAdmin))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestActorMiddleware_FalloDeBD_Retorna500(t *testing.T) {
	app := buildTestApp(stubResolver{err: domain.NewStorageError("resolve actor", errors.New("timeout"))}, entity.CapabilityViewStock)
	resp := doRequest(t, app, bearer(t, testUserID, entity.RoleBranchAdmin))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.NotContains(t, string(body), "timeout", "la causa no se expone al cliente")
}

func TestAuthMiddleware_SinAuthHeader_Retorna401(t *testing.T) {
	app := buildTestApp(stubResolver{}, entity.CapabilityViewStock)
	resp := doRequest(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_TOKEN")
}

func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	app := buildTestApp(stubResolver{}, entity.CapabilityViewStock)

	for _, header := range []string{"Bearer token.invalido.aqui", "Basic abc", "Bearer "} {
		resp := doRequest(t, app, header)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, header)
		resp.Body.Close()
	}
}

func TestAuthMiddleware_TokenExpirado_Retorna401(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testBranchID, entity.RoleBranchAdmin, testIssuer, -1)
	require.NoError(t, err)

	app := buildTestApp(stubResolver{actors: map[string]*entity.Actor{testUserID: branchEditor()}}, entity.CapabilityViewStock)
	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_ExtraeClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret, testIssuer), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": apphttp.GetUserID(c)})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", bearer(t, testUserID, entity.RoleSuperAdmin))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
}

func TestAuthMiddleware_EmisorDistinto_Retorna401(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testBranchID, entity.RoleBranchAdmin, "otro-sistema", testExpMin)
	require.NoError(t, err)

	app := buildTestApp(stubResolver{actors: map[string]*entity.Actor{testUserID: branchEditor()}}, entity.CapabilityViewStock)
	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INVALID_TOKEN")
}
