package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook/internal/database"
	"staybook/internal/notification"
	"staybook/internal/pkg/jwt"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []notification.Email
}

func (m *recordingMailer) Send(_ context.Context, e notification.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, e)
	return nil
}

func (m *recordingMailer) subjects() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.sent))
	for _, e := range m.sent {
		out = append(out, e.Subject)
	}
	return out
}

type envelope struct {
	Success bool           `json:"success"`
	Data    map[string]any `json:"data"`
	Error   struct {
		Code string `json:"code"`
	} `json:"error"`
}

type testServer struct {
	router     *gin.Engine
	mailer     *recordingMailer
	queue      *notification.MemoryQueue
	dispatcher *notification.Dispatcher
}

func setupServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:server_test_%s?mode=memory&cache=shared", t.Name())
	db, err := database.Connect(dsn)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	mailer := &recordingMailer{}
	queue := notification.NewMemoryQueue(notification.NewDeliverer(mailer, "noreply@travelapp.com", 1, time.Millisecond), 1, 16)
	queue.Start(context.Background())
	t.Cleanup(func() { _ = queue.Close() })

	dispatcher := notification.NewDispatcher(queue, nil)

	r := NewRouter(Deps{
		DB:       db,
		JWT:      jwt.New("test-secret", time.Hour),
		Notifier: dispatcher,
	})
	return &testServer{router: r, mailer: mailer, queue: queue, dispatcher: dispatcher}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func (s *testServer) register(t *testing.T, username, role string) string {
	t.Helper()
	code, env := s.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, code)
	return env.Data["token"].(string)
}

func id(t *testing.T, env envelope, key string) int64 {
	t.Helper()
	obj, ok := env.Data[key].(map[string]any)
	require.True(t, ok, "missing %s", key)
	return int64(obj["id"].(float64))
}

func TestBookingAndReviewFlow(t *testing.T) {
	s := setupServer(t)

	hostToken := s.register(t, "hostess", "host")
	guestToken := s.register(t, "traveller", "guest")

	code, env := s.do(t, http.MethodPost, "/api/v1/listings", guestToken, gin.H{
		"title": "Nope", "location": "Paris", "price_per_night": 10,
		"available_from": "2024-01-01", "available_to": "2024-02-01",
	})
	assert.Equal(t, http.StatusForbidden, code)

	code, env = s.do(t, http.MethodPost, "/api/v1/listings", hostToken, gin.H{
		"title": "Loft", "location": "Paris", "price_per_night": 100,
		"available_from": "2024-01-01", "available_to": "2024-02-01",
	})
	require.Equal(t, http.StatusCreated, code)
	listingID := id(t, env, "listing")

	code, env = s.do(t, http.MethodGet, "/api/v1/listings?location=Paris", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, env.Data["listings"], 1)

	code, env = s.do(t, http.MethodPost, "/api/v1/bookings", guestToken, gin.H{
		"listing_id": listingID, "check_in": "2024-01-01", "check_out": "2024-01-04", "number_of_guests": 2,
	})
	require.Equal(t, http.StatusCreated, code)
	booking := env.Data["booking"].(map[string]any)
	assert.Equal(t, 600.0, booking["total_price"])
	bookingID := int64(booking["id"].(float64))

	code, env = s.do(t, http.MethodPost, "/api/v1/bookings", guestToken, gin.H{
		"listing_id": listingID, "check_in": "2024-01-04", "check_out": "2024-01-04", "number_of_guests": 2,
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "INVALID_DATE_RANGE", env.Error.Code)

	code, _ = s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/bookings/%d/pay", bookingID), guestToken, nil)
	require.Equal(t, http.StatusOK, code)

	code, env = s.do(t, http.MethodPost, "/api/v1/reviews", guestToken, gin.H{"listing_id": listingID, "rating": 6})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "INVALID_RATING", env.Error.Code)

	code, _ = s.do(t, http.MethodPost, "/api/v1/reviews", guestToken, gin.H{"listing_id": listingID, "rating": 3, "comment": "fine"})
	require.Equal(t, http.StatusCreated, code)

	code, env = s.do(t, http.MethodPost, "/api/v1/reviews", guestToken, gin.H{"listing_id": listingID, "rating": 4})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "DUPLICATE_REVIEW", env.Error.Code)

	code, env = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/listings/%d/reviews", listingID), "", nil)
	require.Equal(t, http.StatusOK, code)
	summary := env.Data["summary"].(map[string]any)
	assert.Equal(t, 1.0, summary["count"])
	assert.Equal(t, 3.0, summary["average"])

	s.dispatcher.Wait()
	require.NoError(t, s.queue.Close())
	assert.ElementsMatch(t, []string{"Booking Confirmation", "Payment Confirmation"}, s.mailer.subjects())
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := setupServer(t)

	code, env := s.do(t, http.MethodGet, "/api/v1/bookings/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "AUTH_HEADER_MISSING", env.Error.Code)

	code, env = s.do(t, http.MethodGet, "/api/v1/bookings/me", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "INVALID_TOKEN", env.Error.Code)
}

func TestLogin(t *testing.T) {
	s := setupServer(t)
	s.register(t, "walker", "")

	code, env := s.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "WALKER@example.com", "password": "password123"})
	require.Equal(t, http.StatusOK, code)
	assert.NotEmpty(t, env.Data["token"])

	code, env = s.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "walker@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "INVALID_CREDENTIALS", env.Error.Code)
}
