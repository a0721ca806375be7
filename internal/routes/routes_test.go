package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/petshop-scheduler/internal/cache"
	"github.com/BruksfildServices01/petshop-scheduler/internal/config"
	"github.com/BruksfildServices01/petshop-scheduler/internal/metrics"
	"github.com/BruksfildServices01/petshop-scheduler/internal/models"
	"github.com/BruksfildServices01/petshop-scheduler/internal/storage"
	"github.com/BruksfildServices01/petshop-scheduler/internal/testutil"
	"github.com/BruksfildServices01/petshop-scheduler/internal/timezone"
)

type api struct {
	t      *testing.T
	router *gin.Engine
	db     *gorm.DB
	token  string
	loc    *time.Location
	closed []time.Weekday
}

func newAPI(t *testing.T) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
		ShopTimezone:    "America/Sao_Paulo",
		ClosedWeekdays:  []time.Weekday{time.Sunday},
		StatsCacheTTL:   time.Minute,
	}

	db := testutil.NewDB(t)
	r := gin.New()
	RegisterRoutes(r, Deps{
		DB:      db,
		Config:  cfg,
		Metrics: metrics.New(),
		Cache:   cache.NewMemory(),
		Photos:  storage.NewMemory(),
	})

	return &api{
		t:      t,
		router: r,
		db:     db,
		loc:    timezone.Location(cfg.ShopTimezone),
		closed: cfg.ClosedWeekdays,
	}
}

func (a *api) do(method, path string, body any) *httptest.ResponseRecorder {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type idBody struct {
	ID uint `json:"id"`
}

type errBody struct {
	Code string `json:"error_code"`
}

func (a *api) login() {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/auth/register", map[string]any{
		"username": "recepcao",
		"password": "senha123",
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	a.token = decode[struct {
		Access string `json:"access"`
	}](a.t, w).Access
	require.NotEmpty(a.t, a.token)
}

func (a *api) mustCreate(path string, body any) uint {
	a.t.Helper()
	w := a.do(http.MethodPost, path, body)
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[idBody](a.t, w).ID
}

// seedBasics creates service Banho, client Ana and her dog Rex.
func (a *api) seedBasics() (serviceID, clientID, petID uint) {
	serviceID = a.mustCreate("/api/services", map[string]any{
		"name": "Banho", "price": 35, "duration_min": 60,
	})
	clientID = a.mustCreate("/api/clients", map[string]any{
		"name": "Ana", "email": "ana@x.com", "phone": "11999990000",
	})
	petID = a.mustCreate("/api/pets", map[string]any{
		"name": "Rex", "species": "dog", "client_id": clientID,
	})
	return
}

// openDay is the first day after today on which the shop is open.
func (a *api) openDay() time.Time {
	d := time.Now().In(a.loc).AddDate(0, 0, 1)
	for {
		open := true
		for _, wd := range a.closed {
			if d.Weekday() == wd {
				open = false
			}
		}
		if open {
			return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, a.loc)
		}
		d = d.AddDate(0, 0, 1)
	}
}

func slotAt(day time.Time, hour int) string {
	return fmt.Sprintf("%sT%02d:00", day.Format("2006-01-02"), hour)
}

// ======================================================
// AUTH
// ======================================================

func TestAuth_RegisterLoginAndProtectedRoutes(t *testing.T) {
	a := newAPI(t)

	w := a.do(http.MethodGet, "/api/clients", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	a.login()

	w = a.do(http.MethodPost, "/api/auth/register", map[string]any{
		"username": "recepcao", "password": "outrasenha",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "username_exists", decode[errBody](t, w).Code)

	w = a.do(http.MethodPost, "/api/auth/login", map[string]any{
		"username": "recepcao", "password": "errada",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid_credentials", decode[errBody](t, w).Code)

	w = a.do(http.MethodPost, "/api/auth/login", map[string]any{
		"username": "recepcao", "password": "senha123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	tokens := decode[struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
		User    struct {
			Username string `json:"username"`
		} `json:"user"`
	}](t, w)
	assert.NotEmpty(t, tokens.Access)
	assert.NotEmpty(t, tokens.Refresh)
	assert.Equal(t, "recepcao", tokens.User.Username)

	w = a.do(http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// A refresh token is not accepted as a bearer token.
	a.token = tokens.Refresh
	w = a.do(http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	a.token = ""
	w = a.do(http.MethodPost, "/api/auth/refresh", map[string]any{"refresh": tokens.Refresh})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealth_IsPublic(t *testing.T) {
	a := newAPI(t)

	w := a.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = a.do(http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

// ======================================================
// APPOINTMENTS
// ======================================================

type appointmentBody struct {
	ID     uint   `json:"id"`
	Status string `json:"status"`
}

func TestAppointments_BookingFlow(t *testing.T) {
	a := newAPI(t)
	a.login()
	serviceID, _, petID := a.seedBasics()
	day := a.openDay()

	w := a.do(http.MethodPost, "/api/appointments", map[string]any{
		"pet_id": petID, "service_id": serviceID, "scheduled_at": slotAt(day, 10),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	ap := decode[appointmentBody](t, w)
	assert.Equal(t, "scheduled", ap.Status)

	w = a.do(http.MethodPost, "/api/appointments", map[string]any{
		"pet_id": petID, "service_id": serviceID, "scheduled_at": slotAt(day, 10),
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "double_booking", decode[errBody](t, w).Code)

	w = a.do(http.MethodPost, "/api/appointments", map[string]any{
		"pet_id": petID, "service_id": serviceID, "scheduled_at": slotAt(day, 19),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "out_of_hours", decode[errBody](t, w).Code)

	w = a.do(http.MethodPost, "/api/appointments", map[string]any{
		"pet_id": petID, "service_id": serviceID, "scheduled_at": "amanhã cedo",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_datetime", decode[errBody](t, w).Code)

	w = a.do(http.MethodPost, "/api/appointments", map[string]any{
		"pet_id": 999, "service_id": serviceID, "scheduled_at": slotAt(day, 11),
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(http.MethodPost, fmt.Sprintf("/api/appointments/%d/confirm", ap.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "confirmed", decode[appointmentBody](t, w).Status)

	w = a.do(http.MethodPost, fmt.Sprintf("/api/appointments/%d/cancel", ap.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cancelled", decode[appointmentBody](t, w).Status)

	// The cancelled slot is free again.
	w = a.do(http.MethodPost, "/api/appointments", map[string]any{
		"pet_id": petID, "service_id": serviceID, "scheduled_at": slotAt(day, 10),
	})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = a.do(http.MethodPost, "/api/appointments/999/complete", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(http.MethodGet, "/api/appointments?status=pending", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodGet, fmt.Sprintf("/api/appointments?pet_id=%d", petID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decode[struct {
		Total int `json:"total"`
	}](t, w).Total)
}

func TestAppointments_AvailableSlots(t *testing.T) {
	a := newAPI(t)
	a.login()
	serviceID, _, petID := a.seedBasics()
	day := a.openDay()

	for _, hour := range []int{9, 14} {
		w := a.do(http.MethodPost, "/api/appointments", map[string]any{
			"pet_id": petID, "service_id": serviceID, "scheduled_at": slotAt(day, hour),
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		if hour == 14 {
			id := decode[appointmentBody](t, w).ID
			w = a.do(http.MethodPost, fmt.Sprintf("/api/appointments/%d/cancel", id), nil)
			require.Equal(t, http.StatusOK, w.Code)
		}
	}

	w := a.do(http.MethodGet, fmt.Sprintf(
		"/api/appointments/available-slots?date=%s&service_id=%d", day.Format("2006-01-02"), serviceID,
	), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	got := decode[struct {
		Service string   `json:"service"`
		Slots   []string `json:"available_slots"`
		Total   int      `json:"total_slots"`
	}](t, w)
	assert.Equal(t, "Banho", got.Service)
	assert.Equal(t, 9, got.Total)
	assert.NotContains(t, got.Slots, "09:00")
	assert.Contains(t, got.Slots, "14:00")
	assert.Contains(t, got.Slots, "08:00")
	assert.Contains(t, got.Slots, "17:00")

	w = a.do(http.MethodGet, "/api/appointments/available-slots?date=2030-01-01", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "missing_parameters", decode[errBody](t, w).Code)

	w = a.do(http.MethodGet, fmt.Sprintf("/api/appointments/available-slots?date=01/01/2030&service_id=%d", serviceID), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_date", decode[errBody](t, w).Code)
}

// ======================================================
// CLIENTS / PETS
// ======================================================

func TestClients_EmailIsUnique(t *testing.T) {
	a := newAPI(t)
	a.login()
	a.mustCreate("/api/clients", map[string]any{"name": "Ana", "email": "ana@x.com"})

	w := a.do(http.MethodPost, "/api/clients", map[string]any{"name": "Outra Ana", "email": " ANA@X.com "})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "email_already_exists", decode[errBody](t, w).Code)

	w = a.do(http.MethodPost, "/api/clients", map[string]any{"name": "Bia", "email": "não-é-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_email", decode[errBody](t, w).Code)
}

func TestClients_DeleteCascades(t *testing.T) {
	a := newAPI(t)
	a.login()
	serviceID, clientID, petID := a.seedBasics()
	day := a.openDay()

	apID := a.mustCreate("/api/appointments", map[string]any{
		"pet_id": petID, "service_id": serviceID, "scheduled_at": slotAt(day, 10),
	})

	w := a.do(http.MethodGet, fmt.Sprintf("/api/clients/%d/details", clientID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[struct {
		TotalPets int `json:"total_pets"`
	}](t, w).TotalPets)

	w = a.do(http.MethodDelete, fmt.Sprintf("/api/clients/%d", clientID), nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = a.do(http.MethodGet, fmt.Sprintf("/api/pets/%d", petID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(http.MethodGet, fmt.Sprintf("/api/appointments/%d", apID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// The service itself survives.
	w = a.do(http.MethodGet, fmt.Sprintf("/api/services/%d", serviceID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = a.do(http.MethodDelete, fmt.Sprintf("/api/clients/%d", clientID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPets_PhotoUpload(t *testing.T) {
	a := newAPI(t)
	a.login()
	_, _, petID := a.seedBasics()

	img := image.NewRGBA(image.Rect(0, 0, 32, 16))
	for x := 0; x < 32; x++ {
		for y := 0; y < 16; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 8), G: 120, B: 200, A: 255})
		}
	}
	var pngBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, img))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("photo", "rex.png")
	require.NoError(t, err)
	_, err = part.Write(pngBuf.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/api/pets/%d/photo", petID), &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+a.token)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, decode[struct {
		HasPhoto bool `json:"has_photo"`
	}](t, w).HasPhoto)

	w = a.do(http.MethodGet, fmt.Sprintf("/api/pets/%d/photo", petID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/webp", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Body.Bytes())
}

// ======================================================
// DASHBOARD
// ======================================================

func TestDashboard_StatsFollowWrites(t *testing.T) {
	a := newAPI(t)
	a.login()

	type stats struct {
		TotalClients  int64 `json:"total_clients"`
		TotalPets     int64 `json:"total_pets"`
		TotalServices int64 `json:"total_services"`
		Confirmed     int64 `json:"confirmed_appointments"`
		NewClients    int64 `json:"new_clients_30_days"`
	}

	w := a.do(http.MethodGet, "/api/dashboard/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, stats{}, decode[stats](t, w))

	serviceID, _, petID := a.seedBasics()
	apID := a.mustCreate("/api/appointments", map[string]any{
		"pet_id": petID, "service_id": serviceID, "scheduled_at": slotAt(a.openDay(), 10),
	})
	w = a.do(http.MethodPost, fmt.Sprintf("/api/appointments/%d/confirm", apID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = a.do(http.MethodGet, "/api/dashboard/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, stats{
		TotalClients:  1,
		TotalPets:     1,
		TotalServices: 1,
		Confirmed:     1,
		NewClients:    1,
	}, decode[stats](t, w))

	w = a.do(http.MethodGet, "/api/dashboard/upcoming", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[struct {
		Total int `json:"total"`
	}](t, w).Total)
}

// ======================================================
// LIST FILTERS / ORDERING
// ======================================================

type listBody[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

type namedBody struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func names(items []namedBody) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Name)
	}
	return out
}

func TestClients_ListSearchAndOrdering(t *testing.T) {
	a := newAPI(t)
	a.login()

	anaID := a.mustCreate("/api/clients", map[string]any{"name": "Ana", "email": "ana@x.com", "phone": "1111"})
	a.mustCreate("/api/clients", map[string]any{"name": "Bruno", "email": "bruno@y.com", "phone": "3333"})
	a.mustCreate("/api/clients", map[string]any{"name": "Carla", "email": "carla@x.com", "phone": "2222"})
	a.mustCreate("/api/pets", map[string]any{"name": "Rex", "species": "dog", "client_id": anaID})

	w := a.do(http.MethodGet, "/api/clients", nil)
	require.Equal(t, http.StatusOK, w.Code)
	all := decode[listBody[struct {
		Name      string `json:"name"`
		TotalPets int    `json:"total_pets"`
	}]](t, w)
	require.Equal(t, 3, all.Total)
	assert.Equal(t, "Ana", all.Data[0].Name)
	assert.Equal(t, 1, all.Data[0].TotalPets)
	assert.Equal(t, 0, all.Data[1].TotalPets)

	cases := []struct {
		query string
		want  []string
	}{
		{"search=X.COM", []string{"Ana", "Carla"}},
		{"search=2222", []string{"Carla"}},
		{"search=bru", []string{"Bruno"}},
		{"ordering=-name", []string{"Carla", "Bruno", "Ana"}},
		{"ordering=bogus", []string{"Ana", "Bruno", "Carla"}},
		{"search=x.com&ordering=-name", []string{"Carla", "Ana"}},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			w := a.do(http.MethodGet, "/api/clients?"+tc.query, nil)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tc.want, names(decode[listBody[namedBody]](t, w).Data))
		})
	}
}

func TestPets_ListFilters(t *testing.T) {
	a := newAPI(t)
	a.login()

	anaID := a.mustCreate("/api/clients", map[string]any{"name": "Ana", "email": "ana@x.com"})
	biaID := a.mustCreate("/api/clients", map[string]any{"name": "Bia", "email": "bia@x.com"})
	a.mustCreate("/api/pets", map[string]any{"name": "Rex", "species": "dog", "client_id": anaID})
	a.mustCreate("/api/pets", map[string]any{"name": "Mia", "species": "cat", "breed": "Siamês", "client_id": anaID})
	a.mustCreate("/api/pets", map[string]any{"name": "Max", "species": "dog", "breed": "Labrador", "client_id": biaID})

	cases := []struct {
		query string
		want  []string
	}{
		{"", []string{"Max", "Mia", "Rex"}},
		{fmt.Sprintf("client_id=%d", anaID), []string{"Mia", "Rex"}},
		{fmt.Sprintf("client_id=%d&search=m", anaID), []string{"Mia"}},
		{"species=cat", []string{"Mia"}},
		{"species=DOG", []string{"Max", "Rex"}},
		{"search=labr", []string{"Max"}},
		{fmt.Sprintf("client_id=%d&species=cat", biaID), []string{}},
	}
	for _, tc := range cases {
		t.Run("query "+tc.query, func(t *testing.T) {
			w := a.do(http.MethodGet, "/api/pets?"+tc.query, nil)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tc.want, names(decode[listBody[namedBody]](t, w).Data))
		})
	}

	w := a.do(http.MethodGet, "/api/pets?client_id=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_client_id", decode[errBody](t, w).Code)

	w = a.do(http.MethodPost, "/api/pets", map[string]any{"name": "Piu", "species": "bird", "client_id": anaID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_species", decode[errBody](t, w).Code)
}

func TestServices_ListActiveAndOrdering(t *testing.T) {
	a := newAPI(t)
	a.login()

	a.mustCreate("/api/services", map[string]any{"name": "Banho", "price": 35, "duration_min": 60})
	a.mustCreate("/api/services", map[string]any{"name": "Tosa", "description": "Tosa higiênica", "price": 50, "duration_min": 90})

	w := a.do(http.MethodPost, "/api/services", map[string]any{
		"name": "Hidratação", "price": 60.456, "duration_min": 30, "active": false,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[struct {
		ID     uint    `json:"id"`
		Price  float64 `json:"price"`
		Active bool    `json:"active"`
	}](t, w)
	assert.False(t, created.Active)
	assert.Equal(t, 60.46, created.Price)

	w = a.do(http.MethodGet, fmt.Sprintf("/api/services/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[struct {
		Active bool `json:"active"`
	}](t, w).Active)

	cases := []struct {
		query string
		want  []string
	}{
		{"", []string{"Banho", "Tosa"}},
		{"search=banho", []string{"Banho"}},
		{"search=higi", []string{"Tosa"}},
		{"ordering=-price", []string{"Tosa", "Banho"}},
		{"include_inactive=true", []string{"Banho", "Hidratação", "Tosa"}},
		{"include_inactive=true&ordering=-price", []string{"Hidratação", "Tosa", "Banho"}},
		{"include_inactive=true&ordering=price", []string{"Banho", "Tosa", "Hidratação"}},
		{"include_inactive=true&search=hidr", []string{"Hidratação"}},
	}
	for _, tc := range cases {
		t.Run("query "+tc.query, func(t *testing.T) {
			w := a.do(http.MethodGet, "/api/services?"+tc.query, nil)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tc.want, names(decode[listBody[namedBody]](t, w).Data))
		})
	}
}

func TestAppointments_ListFiltersAndOrdering(t *testing.T) {
	a := newAPI(t)
	a.login()
	banhoID, anaID, rexID := a.seedBasics()
	tosaID := a.mustCreate("/api/services", map[string]any{"name": "Tosa", "price": 50, "duration_min": 90})
	miaID := a.mustCreate("/api/pets", map[string]any{"name": "Mia", "species": "cat", "client_id": anaID})
	day := a.openDay()

	first := a.mustCreate("/api/appointments", map[string]any{
		"pet_id": rexID, "service_id": banhoID, "scheduled_at": slotAt(day, 9),
	})
	second := a.mustCreate("/api/appointments", map[string]any{
		"pet_id": rexID, "service_id": tosaID, "scheduled_at": slotAt(day, 11),
	})
	third := a.mustCreate("/api/appointments", map[string]any{
		"pet_id": miaID, "service_id": banhoID, "scheduled_at": slotAt(day, 14),
	})

	w := a.do(http.MethodPost, fmt.Sprintf("/api/appointments/%d/confirm", second), nil)
	require.Equal(t, http.StatusOK, w.Code)

	ids := func(query string) []uint {
		t.Helper()
		w := a.do(http.MethodGet, "/api/appointments?"+query, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var out []uint
		for _, ap := range decode[listBody[appointmentBody]](t, w).Data {
			out = append(out, ap.ID)
		}
		return out
	}

	assert.Equal(t, []uint{third, second, first}, ids(""))
	assert.Equal(t, []uint{first, second, third}, ids("ordering=scheduled_at"))
	assert.Equal(t, []uint{second, first}, ids(fmt.Sprintf("pet_id=%d", rexID)))
	assert.Equal(t, []uint{third, first}, ids(fmt.Sprintf("service_id=%d", banhoID)))
	assert.Equal(t, []uint{second}, ids("status=confirmed"))
	assert.Equal(t, []uint{first}, ids(fmt.Sprintf("pet_id=%d&service_id=%d&status=scheduled", rexID, banhoID)))

	w = a.do(http.MethodGet, "/api/appointments?service_id=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_service_id", decode[errBody](t, w).Code)
}

func TestAppointments_AvailableSlotsRejectsBadService(t *testing.T) {
	a := newAPI(t)
	a.login()
	date := a.openDay().Format("2006-01-02")

	w := a.do(http.MethodGet, "/api/appointments/available-slots?date="+date+"&service_id=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodGet, "/api/appointments/available-slots?date="+date+"&service_id=999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "service_not_found", decode[errBody](t, w).Code)
}

// ======================================================
// PET DETAILS
// ======================================================

func TestPets_DetailsShowsRecentAppointments(t *testing.T) {
	a := newAPI(t)
	a.login()
	banhoID, _, rexID := a.seedBasics()
	tosaID := a.mustCreate("/api/services", map[string]any{"name": "Tosa", "price": 50, "duration_min": 90})
	day := a.openDay()

	for hour := 8; hour <= 17; hour++ {
		a.mustCreate("/api/appointments", map[string]any{
			"pet_id": rexID, "service_id": banhoID, "scheduled_at": slotAt(day, hour),
		})
	}
	for _, hour := range []int{8, 9} {
		a.mustCreate("/api/appointments", map[string]any{
			"pet_id": rexID, "service_id": tosaID, "scheduled_at": slotAt(day, hour),
		})
	}

	w := a.do(http.MethodGet, fmt.Sprintf("/api/pets/%d/details", rexID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	details := decode[struct {
		Pet struct {
			Name       string `json:"name"`
			ClientName string `json:"client_name"`
		} `json:"pet"`
		TotalAppointments int `json:"total_appointments"`
		Appointments      []struct {
			PetName     string    `json:"pet_name"`
			ServiceName string    `json:"service_name"`
			ScheduledAt time.Time `json:"scheduled_at"`
		} `json:"appointments"`
	}](t, w)

	assert.Equal(t, "Rex", details.Pet.Name)
	assert.Equal(t, "Ana", details.Pet.ClientName)
	assert.Equal(t, 12, details.TotalAppointments)
	require.Len(t, details.Appointments, 10)

	latest := details.Appointments[0]
	assert.True(t, latest.ScheduledAt.Equal(day.Add(17*time.Hour)), latest.ScheduledAt)
	assert.Equal(t, "Banho", latest.ServiceName)
	assert.Equal(t, "Rex", latest.PetName)

	for i := 1; i < len(details.Appointments); i++ {
		assert.False(t, details.Appointments[i].ScheduledAt.After(details.Appointments[i-1].ScheduledAt))
	}

	w = a.do(http.MethodGet, "/api/pets/999/details", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// ======================================================
// AUDIT LOGS
// ======================================================

func TestAuditLogs_FiltersAndPaging(t *testing.T) {
	a := newAPI(t)
	a.login()

	u1, u2 := uint(1), uint(2)
	day := func(d int) time.Time {
		return time.Date(2030, 1, d, 12, 0, 0, 0, a.loc).UTC()
	}
	rows := []models.AuditLog{
		{UserID: &u1, Action: "client_created", Entity: "client", CreatedAt: day(10)},
		{UserID: &u2, Action: "pet_created", Entity: "pet", CreatedAt: day(11)},
		{UserID: &u1, Action: "client_deleted", Entity: "client", CreatedAt: day(12)},
	}
	require.NoError(t, a.db.Create(&rows).Error)

	type page struct {
		Data []struct {
			Action string `json:"action"`
		} `json:"data"`
		Page  int   `json:"page"`
		Limit int   `json:"limit"`
		Total int64 `json:"total"`
	}
	list := func(query string) page {
		t.Helper()
		w := a.do(http.MethodGet, "/api/audit-logs?"+query, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		return decode[page](t, w)
	}
	actions := func(p page) []string {
		out := []string{}
		for _, l := range p.Data {
			out = append(out, l.Action)
		}
		return out
	}

	all := list("")
	assert.Equal(t, int64(3), all.Total)
	assert.Equal(t, 1, all.Page)
	assert.Equal(t, 50, all.Limit)
	assert.Equal(t, []string{"client_deleted", "pet_created", "client_created"}, actions(all))

	assert.Equal(t, []string{"client_deleted", "client_created"}, actions(list("entity=client")))
	assert.Equal(t, []string{"pet_created"}, actions(list("user_id=2")))
	assert.Equal(t, []string{"client_created"}, actions(list("action=client_created")))
	assert.Equal(t, []string{"pet_created"}, actions(list("from=2030-01-11&to=2030-01-11")))
	assert.Equal(t, []string{"client_deleted", "pet_created"}, actions(list("from=2030-01-11")))

	second := list("limit=2&page=2")
	assert.Equal(t, int64(3), second.Total)
	assert.Equal(t, 2, second.Page)
	assert.Equal(t, 2, second.Limit)
	assert.Equal(t, []string{"client_created"}, actions(second))

	bad := []struct {
		query string
		code  string
	}{
		{"page=abc", "invalid_page"},
		{"page=-1", "invalid_page"},
		{"limit=0", "invalid_limit"},
		{"limit=500", "invalid_limit"},
		{"user_id=x", "invalid_user_id"},
		{"from=11/01/2030", "invalid_date"},
	}
	for _, tc := range bad {
		t.Run(tc.query, func(t *testing.T) {
			w := a.do(http.MethodGet, "/api/audit-logs?"+tc.query, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tc.code, decode[errBody](t, w).Code)
		})
	}
}
