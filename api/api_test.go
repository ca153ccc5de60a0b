package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/andrebq/taskbox/auth"
	authapi "github.com/andrebq/taskbox/auth/api"
	"github.com/andrebq/taskbox/internal/testutil"
	"github.com/andrebq/taskbox/store"
	"github.com/steinfletcher/apitest"
	jsonpath "github.com/steinfletcher/apitest-jsonpath"
)

func TestRegister(t *testing.T) {
	ctx := context.Background()
	handler, cleanup := testHandler(ctx, t)
	defer cleanup()

	apitest.Handler(handler).Post("/register").
		JSON(`{"username":"alice","password":"pw1"}`).
		Expect(t).
		Status(http.StatusOK).
		Body(`{"message": "User registered successfully"}`).
		End()
	apitest.Handler(handler).Post("/register").
		JSON(`{"username":"alice","password":"other"}`).
		Expect(t).
		Status(http.StatusBadRequest).
		Body(`{"message": "User already exists"}`).
		End()
	apitest.Handler(handler).Post("/register").
		JSON(`{"username":"bob"}`).
		Expect(t).
		Status(http.StatusBadRequest).
		Body(`{"message": "Username and password are required"}`).
		End()
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	handler, cleanup := testHandler(ctx, t)
	defer cleanup()
	registerUser(t, handler, "alice", "pw1")

	// unknown user and wrong password are indistinguishable
	apitest.Handler(handler).Post("/login").
		JSON(`{"username":"alice","password":"wrong"}`).
		Expect(t).
		Status(http.StatusUnauthorized).
		Body(`{"message": "Invalid credentials"}`).
		End()
	apitest.Handler(handler).Post("/login").
		JSON(`{"username":"nobody","password":"pw1"}`).
		Expect(t).
		Status(http.StatusUnauthorized).
		Body(`{"message": "Invalid credentials"}`).
		End()

	token := loginToken(t, handler, "alice", "pw1")
	if token == "" {
		t.Fatal("login should return a token")
	}
}

func TestAuthRequired(t *testing.T) {
	ctx := context.Background()
	handler, cleanup := testHandler(ctx, t)
	defer cleanup()

	apitest.Handler(handler).Get("/tasks").
		Expect(t).
		Status(http.StatusUnauthorized).
		Body(`{"message": "No token provided"}`).
		End()
	apitest.Handler(handler).Get("/tasks").
		Header("Authorization", "Bearer garbage").
		Expect(t).
		Status(http.StatusUnauthorized).
		Body(`{"message": "Invalid token"}`).
		End()
}

func TestTaskDefaults(t *testing.T) {
	ctx := context.Background()
	handler, cleanup := testHandler(ctx, t)
	defer cleanup()
	registerUser(t, handler, "alice", "pw1")
	token := loginToken(t, handler, "alice", "pw1")

	apitest.Handler(handler).Post("/tasks").
		Header("Authorization", bearer(token)).
		JSON(`{"text":"buy milk"}`).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal(`$.status`, "pending")).
		Assert(jsonpath.Equal(`$.priority`, "medium")).
		Assert(jsonpath.Equal(`$.text`, "buy milk")).
		End()
	apitest.Handler(handler).Post("/tasks").
		Header("Authorization", bearer(token)).
		JSON(`{"text":"water plants","status":"done"}`).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal(`$.status`, "done")).
		Assert(jsonpath.Equal(`$.priority`, "medium")).
		End()
	apitest.Handler(handler).Get("/tasks").
		Header("Authorization", bearer(token)).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Len(`$`, 2)).
		End()

	apitest.Handler(handler).Post("/tasks").
		Header("Authorization", bearer(token)).
		JSON(`{"status":"done"}`).
		Expect(t).
		Status(http.StatusBadRequest).
		Body(`{"message": "Task text is required"}`).
		End()
}

func TestTaskLifecycle(t *testing.T) {
	ctx := context.Background()
	handler, cleanup := testHandler(ctx, t)
	defer cleanup()
	registerUser(t, handler, "alice", "pw1")
	token := loginToken(t, handler, "alice", "pw1")

	task := createTestTask(t, handler, token, `{"text":"buy milk"}`)
	apitest.Handler(handler).Patch(fmt.Sprintf("/tasks/%v/status", task.ID)).
		Header("Authorization", bearer(token)).
		JSON(`{"status":"done"}`).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal(`$.status`, "done")).
		End()
	apitest.Handler(handler).Patch(fmt.Sprintf("/tasks/%v/priority", task.ID)).
		Header("Authorization", bearer(token)).
		JSON(`{"priority":"high"}`).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal(`$.status`, "done")).
		Assert(jsonpath.Equal(`$.priority`, "high")).
		End()
	apitest.Handler(handler).Delete(fmt.Sprintf("/tasks/%v", task.ID)).
		Header("Authorization", bearer(token)).
		Expect(t).
		Status(http.StatusOK).
		Body(`{"message": "Task deleted successfully"}`).
		End()
	apitest.Handler(handler).Delete(fmt.Sprintf("/tasks/%v", task.ID)).
		Header("Authorization", bearer(token)).
		Expect(t).
		Status(http.StatusNotFound).
		Body(`{"message": "Task not found"}`).
		End()
	apitest.Handler(handler).Get("/tasks").
		Header("Authorization", bearer(token)).
		Expect(t).
		Status(http.StatusOK).
		Body(`[]`).
		End()
}

func TestOwnerScoping(t *testing.T) {
	ctx := context.Background()
	handler, cleanup := testHandler(ctx, t)
	defer cleanup()
	registerUser(t, handler, "alice", "pw1")
	registerUser(t, handler, "bob", "pw2")
	aliceToken := loginToken(t, handler, "alice", "pw1")
	bobToken := loginToken(t, handler, "bob", "pw2")

	task := createTestTask(t, handler, aliceToken, `{"text":"buy milk"}`)

	// bob cannot see, modify or delete alice's task, and the response
	// never reveals that the task exists
	apitest.Handler(handler).Get("/tasks").
		Header("Authorization", bearer(bobToken)).
		Expect(t).
		Status(http.StatusOK).
		Body(`[]`).
		End()
	apitest.Handler(handler).Patch(fmt.Sprintf("/tasks/%v/status", task.ID)).
		Header("Authorization", bearer(bobToken)).
		JSON(`{"status":"done"}`).
		Expect(t).
		Status(http.StatusNotFound).
		Body(`{"message": "Task not found"}`).
		End()
	apitest.Handler(handler).Delete(fmt.Sprintf("/tasks/%v", task.ID)).
		Header("Authorization", bearer(bobToken)).
		Expect(t).
		Status(http.StatusNotFound).
		Body(`{"message": "Task not found"}`).
		End()

	// the task is still there for alice
	apitest.Handler(handler).Get("/tasks").
		Header("Authorization", bearer(aliceToken)).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Len(`$`, 1)).
		End()
}

func TestPatchValidation(t *testing.T) {
	ctx := context.Background()
	handler, cleanup := testHandler(ctx, t)
	defer cleanup()
	registerUser(t, handler, "alice", "pw1")
	token := loginToken(t, handler, "alice", "pw1")
	task := createTestTask(t, handler, token, `{"text":"buy milk"}`)

	apitest.Handler(handler).Patch(fmt.Sprintf("/tasks/%v/status", task.ID)).
		Header("Authorization", bearer(token)).
		JSON(`{}`).
		Expect(t).
		Status(http.StatusBadRequest).
		Body(`{"message": "Status is required"}`).
		End()
	apitest.Handler(handler).Patch(fmt.Sprintf("/tasks/%v/priority", task.ID)).
		Header("Authorization", bearer(token)).
		JSON(`{}`).
		Expect(t).
		Status(http.StatusBadRequest).
		Body(`{"message": "Priority is required"}`).
		End()
	apitest.Handler(handler).Delete("/tasks/not-a-number").
		Header("Authorization", bearer(token)).
		Expect(t).
		Status(http.StatusNotFound).
		Body(`{"message": "Task not found"}`).
		End()
}

func TestPermissiveCORS(t *testing.T) {
	ctx := context.Background()
	handler, cleanup := testHandler(ctx, t)
	defer cleanup()

	apitest.Handler(handler).Method(http.MethodOptions).URL("/tasks").
		Header("Origin", "https://example.com").
		Expect(t).
		Status(http.StatusNoContent).
		Header("Access-Control-Allow-Origin", "*").
		End()
	apitest.Handler(handler).Post("/register").
		JSON(`{"username":"alice","password":"pw1"}`).
		Expect(t).
		Status(http.StatusOK).
		Header("Access-Control-Allow-Origin", "*").
		End()
}

func testHandler(ctx context.Context, t *testing.T) (http.Handler, func()) {
	db, cleanup := testutil.AcquireStore(ctx, t, "api")
	tokens := auth.NewTokens([]byte("test-secret"))
	handler := AsHandler(ctx, db, tokens, authapi.NewRealm(tokens))
	return handler, cleanup
}

func registerUser(t *testing.T, handler http.Handler, username, password string) {
	t.Helper()
	apitest.Handler(handler).Post("/register").
		JSON(fmt.Sprintf(`{"username":%q,"password":%q}`, username, password)).
		Expect(t).
		Status(http.StatusOK).
		End()
}

func loginToken(t *testing.T, handler http.Handler, username, password string) string {
	t.Helper()
	result := apitest.Handler(handler).Post("/login").
		JSON(fmt.Sprintf(`{"username":%q,"password":%q}`, username, password)).
		Expect(t).
		Status(http.StatusOK).
		End()
	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(result.Response.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	return body.Token
}

func createTestTask(t *testing.T, handler http.Handler, token string, payload string) store.Task {
	t.Helper()
	result := apitest.Handler(handler).Post("/tasks").
		Header("Authorization", bearer(token)).
		JSON(payload).
		Expect(t).
		Status(http.StatusOK).
		End()
	var task store.Task
	if err := json.NewDecoder(result.Response.Body).Decode(&task); err != nil {
		t.Fatal(err)
	}
	return task
}

func bearer(token string) string {
	return fmt.Sprintf("Bearer %v", token)
}
