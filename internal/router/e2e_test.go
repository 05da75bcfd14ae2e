//go:build integration

package router

// Integration tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v
//
// Cubren lo que los unit tests con stubs no pueden: el FOR UPDATE real,
// el trigger append-only del ledger y el ciclo HTTP completo.

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/mrebazaUNIFIED/farmaciaapp/internal/config"
	"github.com/mrebazaUNIFIED/farmaciaapp/internal/infra"
	"github.com/mrebazaUNIFIED/farmaciaapp/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Setup ────────────────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	db     *gorm.DB
	token  string // admin JWT
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("farmacia_test"),
		tcPostgres.WithUsername("farmacia"),
		tcPostgres.WithPassword("farmacia"),
		testcontainers.WithWaitStrategy(
			tcPostgres.BasicWaitStrategies()...,
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		PDFStoragePath:     t.TempDir(),
		StoreRetries:       3,
		StoreRetryMsBase:   10,
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte("farmacia2026"), 12)
	require.NoError(t, err)
	require.NoError(t, db.Create(&model.Usuario{
		Username:     "admin",
		Nombre:       "Admin Test",
		PasswordHash: string(hash),
		Rol:          "administrador",
		Activo:       true,
	}).Error)

	srv := httptest.NewServer(New(cfg, db, rdb))
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin", "password": "farmacia2026"}), "")
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var login struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &login)
	require.NotEmpty(t, login.AccessToken)

	return &testEnv{server: srv, db: db, token: login.AccessToken}
}

func crearProducto(t *testing.T, env *testEnv, nombre, barcode string, stock int) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/productos",
		jsonBody(t, map[string]any{
			"nombre_comercial": nombre,
			"codigo_barras":    barcode,
			"precio_compra":    10.00,
			"precio_venta":     15.00,
			"stock_actual":     stock,
			"stock_minimo":     5,
			"stock_maximo":     500,
		}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &prod)
	return prod.ID
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestIntegracionVentaCompleta(t *testing.T) {
	env := setupTestEnv(t)
	prodID := crearProducto(t, env, "Paracetamol 500mg", "7750900000001", 100)

	ventaResp := do(t, env.server, "POST", "/v1/ventas",
		jsonBody(t, map[string]any{
			"metodo_pago": "Efectivo",
			"productos": []map[string]any{
				{"producto_id": prodID, "cantidad": 10},
			},
		}), env.token)
	require.Equal(t, http.StatusCreated, ventaResp.StatusCode)
	var venta struct {
		ID          string `json:"id"`
		NumeroVenta string `json:"numero_venta"`
		Estado      string `json:"estado"`
	}
	decodeJSON(t, ventaResp, &venta)
	assert.Equal(t, "V-000001", venta.NumeroVenta)
	assert.Equal(t, model.VentaCompletada, venta.Estado)

	// El stock bajó y el ledger cierra contra él
	prodResp := do(t, env.server, "GET", "/v1/productos/"+prodID, nil, env.token)
	require.Equal(t, http.StatusOK, prodResp.StatusCode)
	var prod struct {
		StockActual int `json:"stock_actual"`
	}
	decodeJSON(t, prodResp, &prod)
	assert.Equal(t, 90, prod.StockActual)

	consResp := do(t, env.server, "GET", "/v1/inventario/consistencia/"+prodID, nil, env.token)
	require.Equal(t, http.StatusOK, consResp.StatusCode)
	var cons struct {
		Consistente       bool `json:"consistente"`
		StockReconstruido int  `json:"stock_reconstruido"`
	}
	decodeJSON(t, consResp, &cons)
	assert.True(t, cons.Consistente)
	assert.Equal(t, 90, cons.StockReconstruido)
}

func TestIntegracionLedgerInmutable(t *testing.T) {
	env := setupTestEnv(t)
	crearProducto(t, env, "Ibuprofeno 400mg", "7750900000002", 30)

	// El trigger rechaza UPDATE y DELETE sobre historial_inventario
	err := env.db.Exec(`UPDATE historial_inventario SET cantidad = 999`).Error
	require.Error(t, err)
	assert.Contains(t, err.Error(), "append-only")

	err = env.db.Exec(`DELETE FROM historial_inventario`).Error
	require.Error(t, err)
	assert.Contains(t, err.Error(), "append-only")
}

// Dos ventas de 60 unidades sobre stock 100, disparadas en paralelo contra
// el servidor real: el FOR UPDATE decide un ganador y el stock nunca queda
// negativo.
func TestIntegracionVentasConcurrentes(t *testing.T) {
	env := setupTestEnv(t)
	prodID := crearProducto(t, env, "Alcohol en gel 380ml", "7750900000003", 100)

	codigos := make([]int, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp := do(t, env.server, "POST", "/v1/ventas",
				jsonBody(t, map[string]any{
					"metodo_pago": "Efectivo",
					"productos": []map[string]any{
						{"producto_id": prodID, "cantidad": 60},
					},
				}), env.token)
			codigos[i] = resp.StatusCode
			resp.Body.Close()
		}(i)
	}
	wg.Wait()

	exitos := 0
	for _, code := range codigos {
		if code == http.StatusCreated {
			exitos++
		} else {
			assert.Equal(t, http.StatusConflict, code)
		}
	}
	assert.Equal(t, 1, exitos)

	prodResp := do(t, env.server, "GET", "/v1/productos/"+prodID, nil, env.token)
	var prod struct {
		StockActual int `json:"stock_actual"`
	}
	decodeJSON(t, prodResp, &prod)
	assert.Equal(t, 40, prod.StockActual)
}

func TestIntegracionAnularVentaRestauraStock(t *testing.T) {
	env := setupTestEnv(t)
	prodID := crearProducto(t, env, "Diclofenaco gel 60g", "7750900000004", 50)

	ventaResp := do(t, env.server, "POST", "/v1/ventas",
		jsonBody(t, map[string]any{
			"metodo_pago": "Efectivo",
			"productos": []map[string]any{
				{"producto_id": prodID, "cantidad": 5},
			},
		}), env.token)
	require.Equal(t, http.StatusCreated, ventaResp.StatusCode)
	var venta struct {
		ID string `json:"id"`
	}
	decodeJSON(t, ventaResp, &venta)

	anularResp := do(t, env.server, "DELETE", "/v1/ventas/"+venta.ID,
		jsonBody(t, map[string]string{"motivo": "Cliente se arrepintió"}), env.token)
	require.Equal(t, http.StatusNoContent, anularResp.StatusCode)
	anularResp.Body.Close()

	prodResp := do(t, env.server, "GET", "/v1/productos/"+prodID, nil, env.token)
	var prod struct {
		StockActual int `json:"stock_actual"`
	}
	decodeJSON(t, prodResp, &prod)
	assert.Equal(t, 50, prod.StockActual)

	// Doble anulación → conflicto
	reintento := do(t, env.server, "DELETE", "/v1/ventas/"+venta.ID,
		jsonBody(t, map[string]string{"motivo": "Reintento"}), env.token)
	assert.Equal(t, http.StatusConflict, reintento.StatusCode)
	reintento.Body.Close()
}

func TestIntegracionCompraRecepcion(t *testing.T) {
	env := setupTestEnv(t)
	prodID := crearProducto(t, env, "Suero fisiológico 1L", "7750900000005", 0)

	provResp := do(t, env.server, "POST", "/v1/proveedores",
		jsonBody(t, map[string]any{"nombre": "Droguería Central SAC", "ruc": "20512345678"}), env.token)
	require.Equal(t, http.StatusCreated, provResp.StatusCode)
	var prov struct {
		ID string `json:"id"`
	}
	decodeJSON(t, provResp, &prov)

	compraResp := do(t, env.server, "POST", "/v1/compras",
		jsonBody(t, map[string]any{
			"proveedor_id": prov.ID,
			"productos": []map[string]any{
				{"producto_id": prodID, "cantidad": 5, "precio_unitario": 2.00},
				{"producto_id": prodID, "cantidad": 3, "precio_unitario": 4.50},
			},
		}), env.token)
	require.Equal(t, http.StatusCreated, compraResp.StatusCode)
	var compra struct {
		ID     string `json:"id"`
		Total  string `json:"total"`
		Estado string `json:"estado"`
	}
	decodeJSON(t, compraResp, &compra)
	assert.Equal(t, model.CompraPendiente, compra.Estado)
	assert.Equal(t, "23.5", compra.Total)

	// PENDIENTE no mueve stock
	prodResp := do(t, env.server, "GET", "/v1/productos/"+prodID, nil, env.token)
	var prod struct {
		StockActual int `json:"stock_actual"`
	}
	decodeJSON(t, prodResp, &prod)
	assert.Equal(t, 0, prod.StockActual)

	recibirResp := do(t, env.server, "POST", "/v1/compras/"+compra.ID+"/recibir", jsonBody(t, map[string]any{}), env.token)
	require.Equal(t, http.StatusOK, recibirResp.StatusCode)
	recibirResp.Body.Close()

	prodResp = do(t, env.server, "GET", "/v1/productos/"+prodID, nil, env.token)
	decodeJSON(t, prodResp, &prod)
	assert.Equal(t, 8, prod.StockActual)

	// Recibir dos veces no duplica el stock
	reintento := do(t, env.server, "POST", "/v1/compras/"+compra.ID+"/recibir", jsonBody(t, map[string]any{}), env.token)
	assert.Equal(t, http.StatusConflict, reintento.StatusCode)
	reintento.Body.Close()
}
