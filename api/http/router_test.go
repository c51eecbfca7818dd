package http_test

import (
	"context"
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	router "github.com/cvfolio/cvfolio/api/http"
	"github.com/cvfolio/cvfolio/api/http/handlers"
	"github.com/cvfolio/cvfolio/api/http/middleware"
	"github.com/cvfolio/cvfolio/api/http/views"
	"github.com/cvfolio/cvfolio/pkg/auth"
	"github.com/cvfolio/cvfolio/pkg/contact"
	"github.com/cvfolio/cvfolio/pkg/cv"
	"github.com/cvfolio/cvfolio/pkg/document"
	"github.com/cvfolio/cvfolio/pkg/health"
	"github.com/cvfolio/cvfolio/pkg/health/checkers"
	"github.com/cvfolio/cvfolio/pkg/product"
	"github.com/cvfolio/cvfolio/pkg/recordstore"
	"github.com/cvfolio/cvfolio/pkg/repository/records"
	"github.com/cvfolio/cvfolio/pkg/security/jwt"
	"github.com/cvfolio/cvfolio/pkg/storage/blob"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "secret123"
)

type envelope struct {
	Status  string            `json:"status"`
	Data    json.RawMessage   `json:"data"`
	Message string            `json:"message"`
	Error   string            `json:"error"`
	Count   *int              `json:"count"`
	Errors  map[string]string `json:"errors"`
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	backend := recordstore.NewMemoryBackend()
	store := recordstore.New(backend)

	engine := views.New()
	require.NoError(t, engine.Load())
	app := router.NewApp(router.AppConfig{Views: engine})

	blobs, err := blob.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	cvSvc := cv.NewService(store)
	contactSvc := contact.NewService(store)
	docSvc := document.NewService(records.NewDocumentRepository(store), blobs, cvSvc)
	users := records.NewUserRepository(store)
	authUC := auth.NewAuthService(users, jwt.NewGenerator("test-secret", "cvfolio", time.Hour))
	_, err = authUC.Register(context.Background(), auth.RegisterInput{
		Nom: "Martin", Prenom: "Camille", Email: adminEmail, Password: adminPassword, Confirm: adminPassword,
	})
	require.NoError(t, err)

	sessions := middleware.NewSessions(time.Hour, nil, false)
	router.Register(app, router.Handlers{
		Pages:     handlers.NewPageHandler(cvSvc, contactSvc, docSvc, sessions),
		Admin:     handlers.NewAdminHandler(cvSvc, contactSvc, sessions),
		Auth:      handlers.NewAuthHandler(authUC, sessions, true),
		Health:    handlers.NewHealthHandler(health.NewService(checkers.NewStoreChecker(backend)), "memory"),
		CV:        handlers.NewCVHandler(cvSvc),
		Contact:   handlers.NewContactHandler(contactSvc),
		Documents: handlers.NewDocumentsHandler(docSvc),
		Users:     handlers.NewUsersHandler(auth.NewUserService(users)),
		Products:  handlers.NewProductsHandler(product.NewService(records.NewProductRepository(store))),
		Sessions:  sessions,
		Verifier:  jwt.NewVerifier("test-secret", "cvfolio"),
	})
	return app
}

func do(t *testing.T, app *fiber.App, req *nethttp.Request) (*nethttp.Response, string) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	return resp, string(body)
}

func jsonRequest(method, target, body, token string) *nethttp.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func formRequest(target string, form url.Values, cookies ...*nethttp.Cookie) *nethttp.Request {
	req := httptest.NewRequest(nethttp.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func decode(t *testing.T, body string) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal([]byte(body), &env), body)
	return env
}

func token(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp, body := do(t, app, jsonRequest(nethttp.MethodPost, "/api/auth/token",
		`{"email":"`+adminEmail+`","password":"`+adminPassword+`"}`, ""))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body)
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(decode(t, body).Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func sessionCookie(resp *nethttp.Response) *nethttp.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == middleware.CookieName {
			return c
		}
	}
	return nil
}

func TestContactAPI_Flow(t *testing.T) {
	app := newTestApp(t)

	resp, body := do(t, app, jsonRequest(nethttp.MethodPost, "/api/contact",
		`{"nom":"Durand","sujet":"Bonjour","message":"Salut"}`, ""))
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode, body)
	env := decode(t, body)
	assert.Equal(t, "error", env.Status)
	assert.Contains(t, env.Errors, "email")

	resp, body = do(t, app, jsonRequest(nethttp.MethodPost, "/api/contact",
		`{"nom":"Durand","email":"lea@example.com","sujet":"Un bug sur le site","message":"La page plante"}`, ""))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, body)
	var msg contact.Message
	require.NoError(t, json.Unmarshal(decode(t, body).Data, &msg))
	assert.False(t, msg.Lu)
	assert.False(t, msg.Repondu)
	assert.Equal(t, contact.CategorySupport, msg.Categorie)
	assert.Equal(t, 1, msg.ID)

	resp, _ = do(t, app, jsonRequest(nethttp.MethodGet, "/api/contact", "", ""))
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	tok := token(t, app)
	resp, body = do(t, app, jsonRequest(nethttp.MethodGet, "/api/contact", "", tok))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body)
	env = decode(t, body)
	require.NotNil(t, env.Count)
	assert.Equal(t, 1, *env.Count)

	resp, body = do(t, app, jsonRequest(nethttp.MethodPut, "/api/contact/1/read", "", tok))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body)
	require.NoError(t, json.Unmarshal(decode(t, body).Data, &msg))
	assert.True(t, msg.Lu)

	resp, body = do(t, app, jsonRequest(nethttp.MethodGet, "/api/contact/filter/unread", "", tok))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body)
	assert.Equal(t, 0, *decode(t, body).Count)

	resp, body = do(t, app, jsonRequest(nethttp.MethodGet, "/api/contact/search/query", "", tok))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, body)

	resp, body = do(t, app, jsonRequest(nethttp.MethodPost, "/api/contact/delete-multiple", `{"ids":[1,7]}`, tok))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body)
	assert.JSONEq(t, `{"deleted":1}`, string(decode(t, body).Data))
}

func TestAPI_NotFound(t *testing.T) {
	app := newTestApp(t)
	tok := token(t, app)

	for _, target := range []string{"/api/contact/abc", "/api/contact/42"} {
		resp, body := do(t, app, jsonRequest(nethttp.MethodGet, target, "", tok))
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode, target)
		assert.Equal(t, "error", decode(t, body).Status)
	}

	resp, body := do(t, app, jsonRequest(nethttp.MethodGet, "/api/nope", "", ""))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Route introuvable", decode(t, body).Message)

	resp, body = do(t, app, httptest.NewRequest(nethttp.MethodGet, "/nope", nil))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "<html")
}

func TestCVAPI(t *testing.T) {
	app := newTestApp(t)

	resp, body := do(t, app, jsonRequest(nethttp.MethodGet, "/api/cv", "", ""))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var got cv.CV
	require.NoError(t, json.Unmarshal(decode(t, body).Data, &got))
	assert.Equal(t, "Camille Martin", got.Nom)

	resp, _ = do(t, app, jsonRequest(nethttp.MethodPut, "/api/cv", `{"titre":"Architecte"}`, ""))
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	tok := token(t, app)
	resp, body = do(t, app, jsonRequest(nethttp.MethodPut, "/api/cv", `{"titre":"Architecte"}`, tok))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body)
	require.NoError(t, json.Unmarshal(decode(t, body).Data, &got))
	assert.Equal(t, "Architecte", got.Titre)
	assert.Equal(t, "Camille Martin", got.Nom)

	resp, body = do(t, app, jsonRequest(nethttp.MethodPost, "/api/cv/loisirs", `{"nom":"Escalade"}`, tok))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, body)
	var l cv.Loisir
	require.NoError(t, json.Unmarshal(decode(t, body).Data, &l))
	assert.Equal(t, 3, l.ID)

	resp, _ = do(t, app, jsonRequest(nethttp.MethodDelete, "/api/cv/loisirs/99", "", tok))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestProductsAPI(t *testing.T) {
	app := newTestApp(t)

	resp, body := do(t, app, jsonRequest(nethttp.MethodGet, "/api/products", "", ""))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, *decode(t, body).Count)

	resp, _ = do(t, app, jsonRequest(nethttp.MethodPost, "/api/products", `{"nom":"Stylo","prix":1.5,"stock":10}`, ""))
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	tok := token(t, app)
	resp, body = do(t, app, jsonRequest(nethttp.MethodPost, "/api/products", `{"nom":"Stylo","prix":1.5,"stock":10}`, tok))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, body)

	resp, body = do(t, app, jsonRequest(nethttp.MethodPut, "/api/products/1", `{"stock":-1}`, tok))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, body)

	resp, body = do(t, app, jsonRequest(nethttp.MethodGet, "/api/products/1", "", ""))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var p product.Product
	require.NoError(t, json.Unmarshal(decode(t, body).Data, &p))
	assert.Equal(t, 10, p.Stock)
}

func TestUsersAPI_HidesPasswordHash(t *testing.T) {
	app := newTestApp(t)
	tok := token(t, app)

	resp, body := do(t, app, jsonRequest(nethttp.MethodGet, "/api/users", "", tok))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotContains(t, body, "passwordHash")
	assert.Contains(t, body, adminEmail)

	resp, _ = do(t, app, jsonRequest(nethttp.MethodPost, "/api/users", `{"nom":"Autre","prenom":"Alex","email":"`+adminEmail+`"}`, tok))
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)

	resp, body := do(t, app, jsonRequest(nethttp.MethodGet, "/api/health", "", ""))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"backend":"memory"`)

	resp, _ = do(t, app, jsonRequest(nethttp.MethodGet, "/api/ready", "", ""))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestPublicPages(t *testing.T) {
	app := newTestApp(t)

	for _, target := range []string{"/", "/experience", "/formation", "/loisirs", "/contact", "/login", "/register"} {
		resp, body := do(t, app, httptest.NewRequest(nethttp.MethodGet, target, nil))
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, target)
		assert.Contains(t, body, "<!DOCTYPE html>", target)
	}

	resp, body := do(t, app, httptest.NewRequest(nethttp.MethodGet, "/", nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Camille Martin")

	resp, _ = do(t, app, httptest.NewRequest(nethttp.MethodGet, "/cv/document", nil))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, app, httptest.NewRequest(nethttp.MethodGet, "/static/style.css", nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestContactForm(t *testing.T) {
	app := newTestApp(t)

	resp, body := do(t, app, formRequest("/contact", url.Values{"nom": {"Durand"}, "sujet": {"Projet"}, "message": {"Bonjour"}}))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, `value="Durand"`)

	resp, _ = do(t, app, formRequest("/contact", url.Values{
		"nom": {"Durand"}, "email": {"lea@example.com"}, "sujet": {"Projet web"}, "message": {"Bonjour"},
	}))
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/contact", resp.Header.Get("Location"))

	cookie := sessionCookie(resp)
	require.NotNil(t, cookie)
	req := httptest.NewRequest(nethttp.MethodGet, "/contact", nil)
	req.AddCookie(cookie)
	_, body = do(t, app, req)
	assert.Contains(t, body, "votre message a bien été envoyé")

	// The flash is shown once.
	req = httptest.NewRequest(nethttp.MethodGet, "/contact", nil)
	req.AddCookie(cookie)
	_, body = do(t, app, req)
	assert.NotContains(t, body, "votre message a bien été envoyé")
}

func TestAdmin_RequiresLogin(t *testing.T) {
	app := newTestApp(t)

	resp, _ := do(t, app, httptest.NewRequest(nethttp.MethodGet, "/admin", nil))
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	anonymous := sessionCookie(resp)
	require.NotNil(t, anonymous)

	resp, body := do(t, app, formRequest("/login", url.Values{"email": {adminEmail}, "password": {"wrong-pass"}}, anonymous))
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "email ou mot de passe incorrect")

	// Signing in from an existing anonymous session issues a new session id.
	resp, _ = do(t, app, formRequest("/login", url.Values{"email": {adminEmail}, "password": {adminPassword}}, anonymous))
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin", resp.Header.Get("Location"))
	cookie := sessionCookie(resp)
	require.NotNil(t, cookie)
	assert.NotEqual(t, anonymous.Value, cookie.Value)

	req := httptest.NewRequest(nethttp.MethodGet, "/admin", nil)
	req.AddCookie(cookie)
	resp, body = do(t, app, req)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Tableau de bord")
	assert.Contains(t, body, "Bienvenue Camille Martin")

	resp, _ = do(t, app, formRequest("/admin/loisirs", url.Values{"nom": {"Escalade"}}, cookie))
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin/loisirs", resp.Header.Get("Location"))

	req = httptest.NewRequest(nethttp.MethodGet, "/admin/loisirs", nil)
	req.AddCookie(cookie)
	_, body = do(t, app, req)
	assert.Contains(t, body, "Escalade")

	// The session also authorises the JSON API.
	req = httptest.NewRequest(nethttp.MethodGet, "/api/contact/stats/overview", nil)
	req.AddCookie(cookie)
	resp, _ = do(t, app, req)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRegister_ShortPassword(t *testing.T) {
	app := newTestApp(t)
	resp, body := do(t, app, formRequest("/register", url.Values{
		"nom": {"X"}, "email": {"x@example.com"}, "password": {"abc"}, "confirmPassword": {"abc"},
	}))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, body)
}
