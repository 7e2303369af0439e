package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/hotel-staff-service/internal/api/http"
	"github.com/spec-kit/hotel-staff-service/internal/api/http/handlers"
	"github.com/spec-kit/hotel-staff-service/internal/domain"
	"github.com/spec-kit/hotel-staff-service/internal/events"
	"github.com/spec-kit/hotel-staff-service/internal/identity"
	"github.com/spec-kit/hotel-staff-service/internal/observability"
	"github.com/spec-kit/hotel-staff-service/internal/persistence"
	"github.com/spec-kit/hotel-staff-service/internal/service"
	"github.com/spec-kit/hotel-staff-service/internal/worker"
)

type fakeProfileRepo struct {
	profiles    map[string]*domain.Profile
	insertErr   error
	lookupCalls int
	insertCalls int
	inserted    []domain.Profile
}

func (f *fakeProfileRepo) GetByEmail(_ context.Context, email string) (*domain.Profile, error) {
	f.lookupCalls++
	profile, ok := f.profiles[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *profile
	return &copied, nil
}

func (f *fakeProfileRepo) InsertStaff(_ context.Context, profile *domain.Profile) error {
	f.insertCalls++
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, *profile)
	return nil
}

type fakeIdentityProvider struct {
	nextID string
	err    error
	calls  int
}

func (f *fakeIdentityProvider) CreateUser(_ context.Context, email string) (*identity.CreatedUser, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &identity.CreatedUser{ID: f.nextID, Email: email}, nil
}

type fakeOrphanRepo struct {
	orphans map[string]domain.OrphanedIdentity
}

func (f *fakeOrphanRepo) Record(_ context.Context, orphan *domain.OrphanedIdentity) error {
	f.orphans[orphan.UserID] = *orphan
	return nil
}

func (f *fakeOrphanRepo) Get(_ context.Context, userID string) (*domain.OrphanedIdentity, error) {
	orphan, ok := f.orphans[userID]
	if !ok {
		return nil, redis.Nil
	}
	return &orphan, nil
}

func (f *fakeOrphanRepo) List(_ context.Context) ([]domain.OrphanedIdentity, error) {
	result := make([]domain.OrphanedIdentity, 0, len(f.orphans))
	for _, orphan := range f.orphans {
		result = append(result, orphan)
	}
	return result, nil
}

func (f *fakeOrphanRepo) Remove(_ context.Context, userID string) error {
	delete(f.orphans, userID)
	return nil
}

func strPtr(s string) *string { return &s }

type testEnv struct {
	app      *fiber.App
	profiles *fakeProfileRepo
	provider *fakeIdentityProvider
	orphans  *fakeOrphanRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	profiles := &fakeProfileRepo{profiles: map[string]*domain.Profile{
		"admin@x.com": {ID: "a-1", Email: "admin@x.com", Role: domain.RoleAdmin, HotelID: strPtr("H1")},
		"staff@x.com": {ID: "s-1", Email: "staff@x.com", Role: domain.RoleStaff, HotelID: strPtr("H1")},
	}}
	provider := &fakeIdentityProvider{nextID: "u-456"}
	orphans := &fakeOrphanRepo{orphans: make(map[string]domain.OrphanedIdentity)}

	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	provisioningService := service.NewProvisioningService(service.ProvisioningDependencies{
		ProfileRepo: profiles,
		Identity:    provider,
		Dispatcher:  dispatcher,
		Logger:      logger,
		Metrics:     metrics,
	})
	reconciliationService := service.NewReconciliationService(service.ReconciliationDependencies{
		ProfileRepo: profiles,
		OrphanRepo:  orphans,
		Dispatcher:  dispatcher,
		Logger:      logger,
		Metrics:     metrics,
	})
	worker.StartReconciliationWorker(reconciliationService)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, 5*time.Second)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler("hotel-staff-service", "test", &persistence.Postgres{}, &persistence.Redis{}),
		Staff:          handlers.NewStaffHandler(provisioningService),
		Reconciliation: handlers.NewReconciliationHandler(reconciliationService),
		Metrics:        metrics,
	})

	return &testEnv{app: app, profiles: profiles, provider: provider, orphans: orphans}
}

func (e *testEnv) post(t *testing.T, path, body string) (int, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(raw, &parsed))
	return resp.StatusCode, parsed
}

func TestCreateStaff_MissingFieldsReturn400(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.post(t, "/create-staff", `{"email":"new@x.com","role":"staff"}`)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "missing required fields", body["error"])
	require.Contains(t, body["detail"], "admin_email")

	require.Zero(t, env.profiles.lookupCalls)
	require.Zero(t, env.provider.calls)
}

func TestCreateStaff_UnknownAdminReturns403(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.post(t, "/create-staff", `{"admin_email":"ghost@x.com","email":"new@x.com","role":"staff"}`)
	require.Equal(t, http.StatusForbidden, status)
	require.NotEmpty(t, body["error"])
	require.NotContains(t, body, "detail")
	require.Zero(t, env.provider.calls)
}

func TestCreateStaff_NonAdminReturns403(t *testing.T) {
	env := newTestEnv(t)

	status, _ := env.post(t, "/create-staff", `{"admin_email":"staff@x.com","email":"new@x.com","role":"staff"}`)
	require.Equal(t, http.StatusForbidden, status)
}

func TestCreateStaff_ProviderRejectionReturns400(t *testing.T) {
	env := newTestEnv(t)
	env.provider.err = &identity.ProviderError{StatusCode: 422, Message: "email already registered"}

	status, body := env.post(t, "/create-staff", `{"admin_email":"admin@x.com","email":"dup@x.com","role":"staff"}`)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "email already registered", body["detail"])
	require.Zero(t, env.profiles.insertCalls)
}

func TestCreateStaff_InsertFailureReturns500WithOrphanID(t *testing.T) {
	env := newTestEnv(t)
	env.provider.nextID = "u-123"
	env.profiles.insertErr = errors.New("insert failed")

	status, body := env.post(t, "/create-staff", `{"admin_email":"admin@x.com","email":"new@x.com","role":"staff"}`)
	require.Equal(t, http.StatusInternalServerError, status)
	require.Equal(t, "u-123", body["auth_user_id"])

	// The orphan also landed in the reconciliation store.
	require.Contains(t, env.orphans.orphans, "u-123")
}

func TestCreateStaff_Success(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.post(t, "/create-staff", `{"admin_email":"admin@x.com","email":"new@x.com","role":"staff","full_name":"Jane"}`)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, body["success"])
	require.Equal(t, "u-456", body["user_id"])
	require.Equal(t, "H1", body["hotel_id"])

	require.Len(t, env.profiles.inserted, 1)
	require.Equal(t, strPtr("Jane"), env.profiles.inserted[0].FullName)
}

func TestCreateStaff_BodyCannotOverrideTenant(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.post(t, "/create-staff", `{"admin_email":"admin@x.com","email":"new@x.com","role":"staff","hotel_id":"EVIL"}`)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "H1", body["hotel_id"])
	require.Equal(t, strPtr("H1"), env.profiles.inserted[0].HotelID)
}

func TestCreateStaff_MalformedJSONReturns400(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.post(t, "/create-staff", `{"admin_email":`)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "invalid payload", body["error"])
}

func TestRootLivenessString(t *testing.T) {
	env := newTestEnv(t)

	req, err := http.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, err)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(raw), "running")
}

func TestReconciliationEndpoints(t *testing.T) {
	env := newTestEnv(t)
	env.provider.nextID = "u-123"
	env.profiles.insertErr = errors.New("insert failed")

	status, _ := env.post(t, "/create-staff", `{"admin_email":"admin@x.com","email":"new@x.com","role":"staff"}`)
	require.Equal(t, http.StatusInternalServerError, status)

	// Listing requires an authorized admin.
	req, err := http.NewRequest(http.MethodGet, "/reconciliation/orphans?admin_email=staff@x.com", nil)
	require.NoError(t, err)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	req, err = http.NewRequest(http.MethodGet, "/reconciliation/orphans?admin_email=admin@x.com", nil)
	require.NoError(t, err)
	resp, err = env.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listed struct {
		Orphans []map[string]any `json:"orphans"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listed))
	require.Len(t, listed.Orphans, 1)
	require.Equal(t, "u-123", listed.Orphans[0]["user_id"])

	// Completing the orphan performs the missing insert.
	env.profiles.insertErr = nil
	status, body := env.post(t, "/reconciliation/orphans/u-123/complete", `{"admin_email":"admin@x.com"}`)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, body["success"])
	require.Equal(t, "u-123", body["user_id"])
	require.Len(t, env.profiles.inserted, 1)
	require.Empty(t, env.orphans.orphans)
}
