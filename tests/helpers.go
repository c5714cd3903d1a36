package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nkarpov/timebox-api/internal/handler"
	"github.com/nkarpov/timebox-api/internal/repo"
	"github.com/nkarpov/timebox-api/internal/service"
)

// SetupServer поднимает приложение целиком на in-memory хранилище
func SetupServer(t *testing.T) (*httptest.Server, func()) {
	t.Helper()

	store := repo.NewStore()
	logger := zap.NewNop()

	authHandler := handler.NewAuthHandler(service.NewAuthService(), logger)
	listHandler := handler.NewTaskListHandler(service.NewTaskListService(store.TaskLists()), logger)
	taskHandler := handler.NewTaskHandler(service.NewTaskService(store.Tasks()), logger)

	server := httptest.NewServer(handler.NewRouter(authHandler, listHandler, taskHandler))
	return server, server.Close
}

// Login логинится демо-учеткой и возвращает сессионную куку.
// Куку пробрасываем вручную: она помечена Secure, и jar не
// отдал бы ее обратно по plain http.
func Login(t *testing.T, server *httptest.Server) *http.Cookie {
	t.Helper()

	body, _ := json.Marshal(map[string]string{
		"email":    "admin@test.com",
		"password": "Admin123*$",
	})
	resp, err := http.Post(server.URL+"/auth/login", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for _, c := range resp.Cookies() {
		if c.Name == "auth-token" {
			return c
		}
	}
	t.Fatal("login response did not set the session cookie")
	return nil
}

// Do шлет запрос с сессионной кукой и декодирует JSON-ответ в out (если не nil)
func Do(t *testing.T, server *httptest.Server, cookie *http.Cookie, method, path string, body, out interface{}) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}
