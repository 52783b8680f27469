package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"chiludos-backend/config"
	"chiludos-backend/models"
	"chiludos-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	utils.PasswordCost = bcrypt.MinCost
	os.Exit(m.Run())
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
	db     *gorm.DB
	tokens *utils.TokenManager
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	gormCfg := config.GormConfig()
	gormCfg.Logger = logger.Discard
	db, err := gorm.Open(sqlite.Open(":memory:"), gormCfg)
	if err != nil {
		t.Fatal(err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	if err := config.Migrate(db); err != nil {
		t.Fatal(err)
	}

	tokens := utils.NewTokenManager("test-secret", time.Hour)
	router := SetupRouter(Dependencies{
		Config: &config.Config{Env: "development", CORSOrigins: []string{"http://localhost:3000"}},
		DB:     db,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Tokens: tokens,
	})
	return &testServer{t: t, router: router, db: db, tokens: tokens}
}

// staffToken creates an account directly and signs a token for it.
func (s *testServer) staffToken(username string, role models.Role) string {
	s.t.Helper()
	user := models.User{
		FullName: "Staff " + username, Username: username, Email: username + "@example.com",
		PasswordHash: "unused", Role: role, IsActive: true,
	}
	if err := s.db.Create(&user).Error; err != nil {
		s.t.Fatal(err)
	}
	token, err := s.tokens.Generate(&user)
	if err != nil {
		s.t.Fatal(err)
	}
	return token
}

func (s *testServer) do(method, path, token string, body any) (int, envelope) {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			s.t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		s.t.Fatalf("%s %s: invalid body %q", method, path, w.Body.String())
	}
	return w.Code, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(env.Data, &v); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
	return v
}

func (s *testServer) tableStatus(adminToken, id string) models.TableStatus {
	s.t.Helper()
	code, env := s.do(http.MethodGet, "/api/tables/"+id, adminToken, nil)
	if code != http.StatusOK {
		s.t.Fatalf("get table: %d %s", code, env.Message)
	}
	return decode[models.Table](s.t, env).Status
}

func TestReservationLifecycle(t *testing.T) {
	s := newTestServer(t)
	admin := s.staffToken("manager", models.RoleAdmin)

	code, env := s.do(http.MethodPost, "/api/tables", admin, map[string]any{"number": 3, "capacity": 4, "location": "indoor"})
	if code != http.StatusCreated {
		t.Fatalf("create table: %d %s", code, env.Message)
	}
	tableID := decode[models.Table](t, env).ID.String()

	code, env = s.do(http.MethodPost, "/api/auth/register", "", map[string]any{
		"fullName": "Ana Lopez", "username": "analopez", "email": "ana@example.com", "password": "password1",
	})
	if code != http.StatusCreated {
		t.Fatalf("register: %d %s", code, env.Message)
	}

	code, env = s.do(http.MethodPost, "/api/auth/login", "", map[string]any{"identifier": "analopez", "password": "password1"})
	if code != http.StatusOK {
		t.Fatalf("login: %d %s", code, env.Message)
	}
	customer := decode[struct {
		Token string `json:"token"`
	}](t, env).Token

	booking := map[string]any{
		"tableId": tableID, "customerName": "Ana Lopez", "phone": "+52 555 123 4567",
		"partySize": 2, "date": "2030-06-15", "time": "13:00",
	}
	code, env = s.do(http.MethodPost, "/api/reservations", customer, booking)
	if code != http.StatusCreated {
		t.Fatalf("create reservation: %d %s", code, env.Message)
	}
	reservationID := decode[struct {
		ID string `json:"id"`
	}](t, env).ID

	if got := s.tableStatus(admin, tableID); got != models.TableReserved {
		t.Errorf("table status = %s, want reserved", got)
	}

	code, _ = s.do(http.MethodPost, "/api/reservations", customer, booking)
	if code != http.StatusConflict {
		t.Errorf("second booking status = %d, want 409", code)
	}

	code, env = s.do(http.MethodPatch, "/api/reservations/"+reservationID+"/cancel", customer, nil)
	if code != http.StatusOK {
		t.Fatalf("cancel: %d %s", code, env.Message)
	}
	if got := s.tableStatus(admin, tableID); got != models.TableAvailable {
		t.Errorf("table status = %s, want available", got)
	}

	code, _ = s.do(http.MethodGet, "/api/reservations", customer, nil)
	if code != http.StatusForbidden {
		t.Errorf("customer listing all reservations = %d, want 403", code)
	}
}

func TestOrderOccupiesTable(t *testing.T) {
	s := newTestServer(t)
	admin := s.staffToken("manager", models.RoleAdmin)
	waiter := s.staffToken("waiter", models.RoleServer)

	code, env := s.do(http.MethodPost, "/api/tables", admin, map[string]any{"number": 7, "capacity": 2, "location": "patio"})
	if code != http.StatusCreated {
		t.Fatalf("create table: %d %s", code, env.Message)
	}
	tableID := decode[models.Table](t, env).ID.String()

	productIDs := make([]string, 0, 2)
	for _, p := range []map[string]any{
		{"name": "Enchiladas", "category": "main", "price": 80},
		{"name": "Agua de horchata", "category": "drink", "price": 45},
	} {
		code, env := s.do(http.MethodPost, "/api/products", admin, p)
		if code != http.StatusCreated {
			t.Fatalf("create product: %d %s", code, env.Message)
		}
		productIDs = append(productIDs, decode[models.Product](t, env).ID.String())
	}

	code, env = s.do(http.MethodPost, "/api/orders", waiter, map[string]any{
		"tableId": tableID,
		"items": []map[string]any{
			{"productId": productIDs[0], "quantity": 1, "unitPrice": 80},
			{"productId": productIDs[1], "quantity": 2, "unitPrice": 45},
		},
	})
	if code != http.StatusCreated {
		t.Fatalf("create order: %d %s", code, env.Message)
	}
	order := decode[struct {
		ID    string  `json:"id"`
		Total float64 `json:"total"`
		Items []struct {
			Subtotal float64 `json:"subtotal"`
		} `json:"items"`
	}](t, env)
	if order.Total != 170 || len(order.Items) != 2 {
		t.Errorf("order = %+v, want total 170 with 2 items", order)
	}
	if got := s.tableStatus(admin, tableID); got != models.TableOccupied {
		t.Errorf("table status = %s, want occupied", got)
	}

	code, _ = s.do(http.MethodPatch, "/api/orders/"+order.ID+"/status", waiter, map[string]any{"status": "paid"})
	if code != http.StatusOK {
		t.Errorf("update status = %d", code)
	}
	code, _ = s.do(http.MethodPatch, "/api/orders/"+order.ID+"/status", waiter, map[string]any{"status": "eaten"})
	if code != http.StatusBadRequest {
		t.Errorf("invalid status = %d, want 400", code)
	}
}

func TestPublicAndUnknownRoutes(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(http.MethodGet, "/api/products", "", nil)
	if code != http.StatusOK || !env.Success {
		t.Errorf("product catalogue = %d", code)
	}
	code, _ = s.do(http.MethodGet, "/api/health", "", nil)
	if code != http.StatusOK {
		t.Errorf("health = %d", code)
	}
	code, _ = s.do(http.MethodGet, "/api/nowhere", "", nil)
	if code != http.StatusNotFound {
		t.Errorf("unknown route = %d, want 404", code)
	}
	code, _ = s.do(http.MethodPost, "/api/tables", "", map[string]any{"number": 1})
	if code != http.StatusUnauthorized {
		t.Errorf("anonymous table create = %d, want 401", code)
	}
}
