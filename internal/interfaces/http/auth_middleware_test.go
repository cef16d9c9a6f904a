package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/Gestion-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Gestion-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	secretDePrueba  = "secreto-solo-para-tests-de-middleware"
	usuarioID       = "11111111-2222-3333-4444-555555555501"
	empresaID       = "11111111-2222-3333-4444-555555555502"
	emisorDePrueba  = "gestion-pro-test"
	minutosVigencia = 15
)

// appProtegida monta GET /recurso detrás de AuthMiddleware + RequireRole y
// responde 200 con los claims extraídos si ambos middlewares dejan pasar.
func appProtegida(allowedRoles ...string) *fiber.App {
	app := fiber.New()
	app.Get("/recurso",
		apphttp.AuthMiddleware(secretDePrueba),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{
				"user_id":    apphttp.GetUserID(c),
				"company_id": apphttp.GetCompanyID(c),
				"role":       apphttp.GetRole(c),
			})
		},
	)
	return app
}

func tokenConRol(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(secretDePrueba, usuarioID, empresaID, role, emisorDePrueba, minutosVigencia)
	require.NoError(t, err)
	return tok
}

// pedir lanza GET /recurso con el header Authorization dado (vacío = sin header).
func pedir(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/recurso", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func cuerpo(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

// ──────────────────────────────────────────────────────────────────────────────
// RequireRole — matriz de autorización por rol
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_MatrizDeRoles(t *testing.T) {
	casos := []struct {
		nombre     string
		permitidos []string
		rolToken   string
		esperado   int
	}{
		{"admin en ruta de admin", []string{"admin"}, "admin", http.StatusOK},
		{"bodeguero en ruta admin o bodeguero", []string{"admin", "bodeguero"}, "bodeguero", http.StatusOK},
		{"vendedor en ruta de ventas", []string{"admin", "vendedor"}, "vendedor", http.StatusOK},
		{"vendedor bloqueado en ruta de admin", []string{"admin"}, "vendedor", http.StatusForbidden},
		{"bodeguero bloqueado en ruta de ventas", []string{"admin", "vendedor"}, "bodeguero", http.StatusForbidden},
		{"admin bloqueado si la ruta no lo lista", []string{"vendedor"}, "admin", http.StatusForbidden},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			app := appProtegida(c.permitidos...)
			resp := pedir(t, app, "Bearer "+tokenConRol(t, c.rolToken))
			body := cuerpo(t, resp)

			assert.Equal(t, c.esperado, resp.StatusCode)
			if c.esperado == http.StatusForbidden {
				assert.Contains(t, body, "FORBIDDEN",
					"el rechazo por rol debe llevar el código FORBIDDEN")
			}
		})
	}
}

func TestRequireRole_TokenSinRol_Retorna401(t *testing.T) {
	// Un token legacy sin claim de rol pasa la autenticación pero no el RBAC.
	app := appProtegida("admin")
	resp := pedir(t, app, "Bearer "+tokenConRol(t, ""))
	body := cuerpo(t, resp)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "MISSING_ROLE")
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware — header Authorization y extracción de claims
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_HeadersInvalidos(t *testing.T) {
	app := appProtegida("admin")
	valido := tokenConRol(t, "admin")

	casos := []struct {
		nombre string
		header string
		codigo string
	}{
		{"sin header Authorization", "", "MISSING_TOKEN"},
		{"esquema distinto de Bearer", "Token " + valido, "INVALID_TOKEN"},
		{"token a secas sin esquema", valido, "INVALID_TOKEN"},
		{"Bearer con token vacío", "Bearer ", "MISSING_TOKEN"},
		{"token malformado", "Bearer ni.siquiera.jwt", "INVALID_TOKEN"},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			resp := pedir(t, app, c.header)
			body := cuerpo(t, resp)

			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Contains(t, body, c.codigo)
		})
	}
}

func TestAuthMiddleware_TokenManipulado_Retorna401(t *testing.T) {
	app := appProtegida("admin")
	tok := tokenConRol(t, "admin")

	// Alterar el último carácter invalida la firma.
	ultimo := tok[len(tok)-1]
	reemplazo := byte('A')
	if ultimo == 'A' {
		reemplazo = 'B'
	}
	manipulado := tok[:len(tok)-1] + string(reemplazo)

	resp := pedir(t, app, "Bearer "+manipulado)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode,
		"una firma que no verifica debe rechazarse")
}

func TestAuthMiddleware_CargaClaimsEnLocals(t *testing.T) {
	app := appProtegida("vendedor")
	resp := pedir(t, app, "Bearer "+tokenConRol(t, "vendedor"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	var claims map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&claims))
	assert.Equal(t, usuarioID, claims["user_id"])
	assert.Equal(t, empresaID, claims["company_id"])
	assert.Equal(t, "vendedor", claims["role"])
}

func TestGetters_SinMiddleware_DevuelvenVacio(t *testing.T) {
	app := fiber.New()
	app.Get("/abierto", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":    apphttp.GetUserID(c),
			"company_id": apphttp.GetCompanyID(c),
			"role":       apphttp.GetRole(c),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/abierto", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var claims map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&claims))
	assert.Empty(t, claims["user_id"], "sin middleware no hay claims en el contexto")
	assert.Empty(t, claims["company_id"])
	assert.Empty(t, claims["role"])
}

// ──────────────────────────────────────────────────────────────────────────────
// pkg/jwt — generate/parse
// ──────────────────────────────────────────────────────────────────────────────

func TestJWT_GenerateParse_Integridad(t *testing.T) {
	tok, err := pkgjwt.Generate(secretDePrueba, usuarioID, empresaID, "bodeguero", emisorDePrueba, minutosVigencia)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	userID, companyID, role, err := pkgjwt.Parse(secretDePrueba, tok)
	require.NoError(t, err)
	assert.Equal(t, usuarioID, userID)
	assert.Equal(t, empresaID, companyID)
	assert.Equal(t, "bodeguero", role)
}

func TestJWT_Rechazos(t *testing.T) {
	expirado, err := pkgjwt.Generate(secretDePrueba, usuarioID, empresaID, "admin", emisorDePrueba, -5)
	require.NoError(t, err)
	_, _, _, err = pkgjwt.Parse(secretDePrueba, expirado)
	assert.Error(t, err, "un token expirado no debe verificar")

	valido, err := pkgjwt.Generate(secretDePrueba, usuarioID, empresaID, "admin", emisorDePrueba, minutosVigencia)
	require.NoError(t, err)
	_, _, _, err = pkgjwt.Parse("otro-secreto-distinto", valido)
	assert.Error(t, err, "el secret equivocado debe invalidar la firma")
}
