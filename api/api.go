package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/andrebq/taskbox/auth"
	authapi "github.com/andrebq/taskbox/auth/api"
	"github.com/andrebq/taskbox/internal/logutil"
	"github.com/andrebq/taskbox/store"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"
)

type (
	credentials struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	taskBody struct {
		Text     string `json:"text"`
		Status   string `json:"status"`
		Priority string `json:"priority"`
	}
)

// AsHandler exposes the task tracker as an http.Handler. Registration and
// login are open, every /tasks route runs behind the security realm.
func AsHandler(ctx context.Context, db *store.Store, tokens *auth.Tokens, realm *authapi.SecurityRealm) http.Handler {
	log := logutil.GetOrDefault(ctx)
	router := httprouter.New()
	router.HandlerFunc("POST", "/register", register(db, log))
	router.HandlerFunc("POST", "/login", login(db, tokens, log))
	router.Handler("GET", "/tasks", realm.Protect(listTasks(db, log)))
	router.Handler("POST", "/tasks", realm.Protect(createTask(db, log)))
	router.Handler("DELETE", "/tasks/:id", realm.Protect(deleteTask(db, log)))
	router.Handler("PATCH", "/tasks/:id/status", realm.Protect(updateTaskField(db, log, store.FieldStatus)))
	router.Handler("PATCH", "/tasks/:id/priority", realm.Protect(updateTaskField(db, log, store.FieldPriority)))
	return allowAnyOrigin(router)
}

func register(db *store.Store, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body credentials
		if !decodeBody(w, r, &body) {
			return
		}
		if body.Username == "" || body.Password == "" {
			writeMessage(w, http.StatusBadRequest, "Username and password are required")
			return
		}
		passwd := auth.PlainText(body.Password)
		defer passwd.Zero()
		hash, err := auth.HashPassword(passwd)
		if err != nil {
			storeError(w, log, err)
			return
		}
		_, err = db.CreateUser(r.Context(), body.Username, hash)
		var dup store.UserAlreadyExists
		if errors.As(err, &dup) {
			writeMessage(w, http.StatusBadRequest, "User already exists")
			return
		} else if err != nil {
			storeError(w, log, err)
			return
		}
		writeMessage(w, http.StatusOK, "User registered successfully")
	}
}

func login(db *store.Store, tokens *auth.Tokens, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body credentials
		if !decodeBody(w, r, &body) {
			return
		}
		passwd := auth.PlainText(body.Password)
		defer passwd.Zero()
		user, err := db.FindUserByUsername(r.Context(), body.Username)
		var missing store.UserNotFound
		if errors.As(err, &missing) || (err == nil && !auth.VerifyPassword(passwd, user.PasswordHash)) {
			writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
			return
		} else if err != nil {
			storeError(w, log, err)
			return
		}
		token, err := tokens.Issue(user.ID)
		if err != nil {
			storeError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"token": token})
	}
}

func listTasks(db *store.Store, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, _ := auth.UserID(r.Context())
		tasks, err := db.ListTasks(r.Context(), owner)
		if err != nil {
			storeError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, tasks)
	}
}

func createTask(db *store.Store, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, _ := auth.UserID(r.Context())
		var body taskBody
		if !decodeBody(w, r, &body) {
			return
		}
		if body.Text == "" {
			writeMessage(w, http.StatusBadRequest, "Task text is required")
			return
		}
		task, err := db.CreateTask(r.Context(), owner, body.Text, body.Status, body.Priority)
		if err != nil {
			storeError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, task)
	}
}

func deleteTask(db *store.Store, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, _ := auth.UserID(r.Context())
		id, ok := taskID(r)
		if !ok {
			writeMessage(w, http.StatusNotFound, "Task not found")
			return
		}
		_, err := db.DeleteTask(r.Context(), id, owner)
		var missing store.TaskNotFound
		if errors.As(err, &missing) {
			writeMessage(w, http.StatusNotFound, "Task not found")
			return
		} else if err != nil {
			storeError(w, log, err)
			return
		}
		writeMessage(w, http.StatusOK, "Task deleted successfully")
	}
}

func updateTaskField(db *store.Store, log zerolog.Logger, field store.TaskField) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, _ := auth.UserID(r.Context())
		id, ok := taskID(r)
		if !ok {
			writeMessage(w, http.StatusNotFound, "Task not found")
			return
		}
		var body taskBody
		if !decodeBody(w, r, &body) {
			return
		}
		value := body.Status
		if field == store.FieldPriority {
			value = body.Priority
		}
		if value == "" {
			writeMessage(w, http.StatusBadRequest, capitalize(string(field))+" is required")
			return
		}
		task, err := db.UpdateTaskField(r.Context(), id, owner, field, value)
		var missing store.TaskNotFound
		if errors.As(err, &missing) {
			writeMessage(w, http.StatusNotFound, "Task not found")
			return
		} else if err != nil {
			storeError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, task)
	}
}

func taskID(r *http.Request) (int64, bool) {
	params := httprouter.ParamsFromContext(r.Context())
	id, err := strconv.ParseInt(params.ByName("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func capitalize(v string) string {
	if v == "" {
		return v
	}
	return strings.ToUpper(v[:1]) + v[1:]
}
