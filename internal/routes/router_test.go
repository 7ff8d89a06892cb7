package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/grievance_system/internal/auth"
	"github.com/grievance_system/internal/models"
	"github.com/grievance_system/internal/repositories"
	"github.com/grievance_system/internal/services"
	"github.com/grievance_system/pkg/db"
	"github.com/grievance_system/pkg/logger"
)

const testPassword = "Passw0rd!"

type apiFixture struct {
	db     *gorm.DB
	router *gin.Engine
	users  services.AuthService
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gormDB, err := db.OpenInMemory(uuid.NewString())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close(gormDB) })

	lg := logger.Discard()
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	tokens := auth.NewTokenManager("test-secret", time.Hour, "grievance_test", auth.NewGormDenylist(gormDB))

	router := SetupRouter(
		NewHandlers(gormDB, hasher, tokens, lg),
		Options{AllowedOrigins: []string{"http://localhost:3000"}, Logger: lg, Tokens: tokens},
	)
	return &apiFixture{
		db:     gormDB,
		router: router,
		users:  services.NewAuthService(repositories.NewGormUserRepository(gormDB), hasher, tokens),
	}
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func (f *apiFixture) register(t *testing.T, email string) {
	t.Helper()
	w, _ := f.do(t, http.MethodPost, "/api/register", "", map[string]string{
		"name": "Citizen " + email, "email": email, "phone": "5551234567", "password": testPassword,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func (f *apiFixture) staff(t *testing.T, email, role string) *models.User {
	t.Helper()
	user, err := f.users.CreateUser(context.Background(), services.RegisterInput{
		Name: "Staff " + email, Email: email, Phone: "5559876543", Password: testPassword,
	}, role)
	require.NoError(t, err)
	return user
}

func (f *apiFixture) login(t *testing.T, path, email string) string {
	t.Helper()
	w, env := f.do(t, http.MethodPost, path, "", map[string]string{"email": email, "password": testPassword})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func (f *apiFixture) submit(t *testing.T, token, description, category string) models.Complaint {
	t.Helper()
	w, env := f.do(t, http.MethodPost, "/api/complaints", token, map[string]string{
		"title": "Problem", "description": description, "category": category,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var data struct {
		ComplaintID uint             `json:"complaint_id"`
		Complaint   models.Complaint `json:"complaint"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Equal(t, data.ComplaintID, data.Complaint.ID)
	return data.Complaint
}

func TestHealth(t *testing.T) {
	f := newAPIFixture(t)

	w, _ := f.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","message":"Server is running"}`, w.Body.String())
}

func TestSwaggerDoc(t *testing.T) {
	f := newAPIFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var doc struct {
		Swagger  string                 `json:"swagger"`
		BasePath string                 `json:"basePath"`
		Paths    map[string]interface{} `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "2.0", doc.Swagger)
	assert.Equal(t, "/api", doc.BasePath)
	assert.Contains(t, doc.Paths, "/admin/complaints/{id}/status")
}

func TestUnknownRoute(t *testing.T) {
	f := newAPIFixture(t)

	w, env := f.do(t, http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Route not found", env.Error)
}

func TestRegister(t *testing.T) {
	f := newAPIFixture(t)
	f.register(t, "alice@example.com")

	t.Run("duplicate email", func(t *testing.T) {
		w, env := f.do(t, http.MethodPost, "/api/register", "", map[string]string{
			"name": "Again", "email": "ALICE@example.com", "phone": "5551234567", "password": testPassword,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, services.ErrEmailTaken.Error(), env.Error)
	})

	t.Run("missing fields", func(t *testing.T) {
		w, env := f.do(t, http.MethodPost, "/api/register", "", map[string]string{"email": "b@example.com"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid request parameters", env.Error)
	})

	t.Run("response hides the password hash", func(t *testing.T) {
		w, _ := f.do(t, http.MethodPost, "/api/register", "", map[string]string{
			"name": "Carol", "email": "carol@example.com", "phone": "5551234567", "password": testPassword,
		})
		require.Equal(t, http.StatusCreated, w.Code)
		assert.NotContains(t, w.Body.String(), "password")
		assert.Contains(t, w.Body.String(), `"role":"citizen"`)
	})
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	f := newAPIFixture(t)
	f.register(t, "alice@example.com")

	wrongPassword, _ := f.do(t, http.MethodPost, "/api/login", "", map[string]string{"email": "alice@example.com", "password": "nope"})
	unknownEmail, _ := f.do(t, http.MethodPost, "/api/login", "", map[string]string{"email": "ghost@example.com", "password": "nope"})

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, wrongPassword.Code, unknownEmail.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
	assert.JSONEq(t, `{"error":"Invalid credentials"}`, wrongPassword.Body.String())

	w, env := f.do(t, http.MethodPost, "/api/login", "", map[string]string{"email": "alice@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "email and password are required", env.Error)
}

func TestAdminLoginRejectsCitizens(t *testing.T) {
	f := newAPIFixture(t)
	f.register(t, "alice@example.com")
	f.staff(t, "boss@example.com", models.RoleAdmin)

	w, env := f.do(t, http.MethodPost, "/api/admin/login", "", map[string]string{"email": "alice@example.com", "password": testPassword})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid admin credentials", env.Error)

	assert.NotEmpty(t, f.login(t, "/api/admin/login", "boss@example.com"))
}

func TestLogoutRevokesToken(t *testing.T) {
	f := newAPIFixture(t)
	f.register(t, "alice@example.com")
	token := f.login(t, "/api/login", "alice@example.com")

	w, _ := f.do(t, http.MethodGet, "/api/complaints", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = f.do(t, http.MethodPost, "/api/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, env := f.do(t, http.MethodGet, "/api/complaints", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid or expired token", env.Error)

	// a fresh login still works
	fresh := f.login(t, "/api/login", "alice@example.com")
	w, _ = f.do(t, http.MethodGet, "/api/complaints", fresh, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestComplaintsRequireToken(t *testing.T) {
	f := newAPIFixture(t)

	w, env := f.do(t, http.MethodGet, "/api/complaints", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Access token required", env.Error)

	w, _ = f.do(t, http.MethodGet, "/api/complaints", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCitizenComplaintFlow(t *testing.T) {
	f := newAPIFixture(t)
	f.register(t, "alice@example.com")
	f.register(t, "bob@example.com")
	alice := f.login(t, "/api/login", "alice@example.com")
	bob := f.login(t, "/api/login", "bob@example.com")

	urgent := f.submit(t, alice, "Urgent: exposed wires near school", "Roads")
	assert.Equal(t, "High", string(urgent.Priority))
	assert.Equal(t, "Pending", string(urgent.Status))

	routine := f.submit(t, alice, "Please repaint the bench", "parks")
	assert.Equal(t, "Low", string(routine.Priority))

	t.Run("list returns newest first", func(t *testing.T) {
		w, env := f.do(t, http.MethodGet, "/api/complaints", alice, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var data struct {
			Complaints []models.Complaint `json:"complaints"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &data))
		require.Len(t, data.Complaints, 2)
		assert.Equal(t, routine.ID, data.Complaints[0].ID)
	})

	t.Run("other users see 404", func(t *testing.T) {
		w, env := f.do(t, http.MethodGet, fmt.Sprintf("/api/complaints/%d", urgent.ID), bob, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Complaint not found", env.Error)

		missing, _ := f.do(t, http.MethodGet, "/api/complaints/9999", bob, nil)
		assert.Equal(t, w.Body.String(), missing.Body.String())
	})

	t.Run("bad id is 400", func(t *testing.T) {
		w, _ := f.do(t, http.MethodGet, "/api/complaints/abc", alice, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		w, _ := f.do(t, http.MethodPost, "/api/complaints", alice, map[string]string{"title": "x"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("closing an unresolved complaint conflicts", func(t *testing.T) {
		w, _ := f.do(t, http.MethodPut, fmt.Sprintf("/api/complaints/%d/close", urgent.ID), alice, nil)
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestAdminRoutesEnforceRoles(t *testing.T) {
	f := newAPIFixture(t)
	f.register(t, "alice@example.com")
	f.staff(t, "olga@example.com", models.RoleOfficer)
	citizen := f.login(t, "/api/login", "alice@example.com")
	officer := f.login(t, "/api/admin/login", "olga@example.com")

	w, _ := f.do(t, http.MethodGet, "/api/admin/complaints", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env := f.do(t, http.MethodGet, "/api/admin/complaints", citizen, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Access denied for role 'citizen'", env.Error)

	w, _ = f.do(t, http.MethodPut, "/api/admin/complaints/9999/status", citizen, map[string]string{"status": "Resolved"})
	assert.Equal(t, http.StatusForbidden, w.Code, "role check runs before lookup")

	w, _ = f.do(t, http.MethodGet, "/api/admin/stats", officer, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = f.do(t, http.MethodPut, "/api/admin/complaints/1/sla", officer, map[string]string{"sla_deadline": "2030-01-01"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestStaffLifecycle(t *testing.T) {
	f := newAPIFixture(t)
	f.register(t, "alice@example.com")
	officerUser := f.staff(t, "olga@example.com", models.RoleOfficer)
	f.staff(t, "boss@example.com", models.RoleAdmin)
	citizen := f.login(t, "/api/login", "alice@example.com")
	officer := f.login(t, "/api/admin/login", "olga@example.com")
	admin := f.login(t, "/api/admin/login", "boss@example.com")

	complaint := f.submit(t, citizen, "Streetlight broken", "roads")
	statusPath := fmt.Sprintf("/api/admin/complaints/%d/status", complaint.ID)

	// the officer is not assigned yet
	w, _ := f.do(t, http.MethodPut, statusPath, officer, map[string]string{"status": "In Progress"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = f.do(t, http.MethodPut, fmt.Sprintf("/api/admin/complaints/%d/assign", complaint.ID), admin, map[string]uint{"assigned_to": officerUser.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, _ = f.do(t, http.MethodPut, statusPath, officer, map[string]string{"status": "Bogus"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = f.do(t, http.MethodPut, statusPath, officer, map[string]string{"status": "Closed"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = f.do(t, http.MethodPut, statusPath, officer, map[string]string{"status": "In Progress"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, _ = f.do(t, http.MethodPut, statusPath, officer, map[string]interface{}{"status": "Resolved", "version": 1})
	assert.Equal(t, http.StatusConflict, w.Code, "stale version")

	w, env := f.do(t, http.MethodPut, statusPath, officer, map[string]string{"status": "Resolved"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resolved models.Complaint
	require.NoError(t, json.Unmarshal(env.Data, &resolved))
	assert.NotNil(t, resolved.ResolvedAt)

	w, _ = f.do(t, http.MethodPut, fmt.Sprintf("/api/complaints/%d/close", complaint.ID), citizen, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	t.Run("owner is notified of every change", func(t *testing.T) {
		w, env := f.do(t, http.MethodGet, "/api/notifications?unread=true", citizen, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var data struct {
			Items       []models.Notification `json:"items"`
			UnreadCount int64                 `json:"unread_count"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Len(t, data.Items, 3)
		assert.EqualValues(t, 3, data.UnreadCount)

		w, _ = f.do(t, http.MethodPut, fmt.Sprintf("/api/notifications/%d/read", data.Items[0].ID), citizen, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		w, _ = f.do(t, http.MethodPut, "/api/notifications/9999/read", citizen, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("closed complaints cannot change", func(t *testing.T) {
		w, _ := f.do(t, http.MethodPut, statusPath, admin, map[string]string{"status": "In Progress"})
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestAdminListingAndStats(t *testing.T) {
	f := newAPIFixture(t)
	f.register(t, "alice@example.com")
	f.staff(t, "boss@example.com", models.RoleAdmin)
	citizen := f.login(t, "/api/login", "alice@example.com")
	admin := f.login(t, "/api/admin/login", "boss@example.com")

	high := f.submit(t, citizen, "Emergency flooding", "water")
	f.submit(t, citizen, "Pothole is a problem", "roads")
	f.submit(t, citizen, "Paint fading", "parks")

	w, _ := f.do(t, http.MethodPut, fmt.Sprintf("/api/admin/complaints/%d/sla", high.ID), admin, map[string]string{"sla_deadline": "2000-01-01"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, env := f.do(t, http.MethodGet, "/api/admin/complaints?limit=2&page=1", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Items      []models.ComplaintWithOwner `json:"items"`
		Pagination struct {
			TotalItems int64 `json:"totalItems"`
			TotalPages int64 `json:"totalPages"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Len(t, page.Items, 2)
	assert.EqualValues(t, 3, page.Pagination.TotalItems)
	assert.EqualValues(t, 2, page.Pagination.TotalPages)
	assert.Equal(t, "alice@example.com", page.Items[0].UserEmail)

	w, env = f.do(t, http.MethodGet, "/api/admin/complaints?overdue=true", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, high.ID, page.Items[0].ID)
	assert.True(t, page.Items[0].Overdue)

	w, _ = f.do(t, http.MethodGet, "/api/admin/complaints?status=Nope", admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = f.do(t, http.MethodGet, "/api/admin/stats", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats models.ComplaintStats
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.EqualValues(t, 1, stats.TotalUsers)
	assert.EqualValues(t, 3, stats.TotalComplaints)
	assert.EqualValues(t, 3, stats.Pending)
	assert.EqualValues(t, 1, stats.Overdue)
	assert.EqualValues(t, 1, stats.HighPriority)
	assert.EqualValues(t, 1, stats.MediumPriority)
	assert.EqualValues(t, 1, stats.LowPriority)
}

func TestCORSPreflight(t *testing.T) {
	f := newAPIFixture(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/complaints", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
