//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Sternrassler/market-query-api/internal/fixtures"
	"github.com/Sternrassler/market-query-api/pkg/api"
	"github.com/Sternrassler/market-query-api/pkg/auth"
	"github.com/Sternrassler/market-query-api/pkg/cache"
	"github.com/Sternrassler/market-query-api/pkg/model"
	"github.com/Sternrassler/market-query-api/pkg/param"
	"github.com/Sternrassler/market-query-api/pkg/query"
	"github.com/Sternrassler/market-query-api/pkg/store/migrations"
	"github.com/Sternrassler/market-query-api/pkg/store/postgres"
)

// setupRedis creates a Redis container for integration testing.
func setupRedis(t *testing.T) (*redis.Client, func()) {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: host + ":" + port.Port(),
	})

	cleanup := func() {
		redisClient.Close()
		container.Terminate(ctx)
	}

	return redisClient, cleanup
}

// setupPostgres creates a migrated and seeded PostgreSQL container.
func setupPostgres(t *testing.T) (*postgres.Pool, func()) {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("market"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Failed to start Postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("Failed to get connection string: %v", err)
	}

	pool, err := postgres.NewPool(ctx, dsn, 4)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}

	if err := migrations.Up(ctx, pool.Pool); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	err = fixtures.Seed(ctx, postgres.NewTradeStore(pool), postgres.NewMetadataStore(pool), postgres.NewReportStore(pool))
	if err != nil {
		t.Fatalf("Failed to seed: %v", err)
	}

	cleanup := func() {
		pool.Close()
		container.Terminate(ctx)
	}

	return pool, cleanup
}

// TestFullRequestFlow tests the complete request flow: Auth → Cache Miss → Postgres → Redis → Cache Hit.
func TestFullRequestFlow(t *testing.T) {
	redisClient, cleanupRedis := setupRedis(t)
	defer cleanupRedis()

	pool, cleanupPostgres := setupPostgres(t)
	defer cleanupPostgres()

	manager := cache.NewManager(redisClient).WithPrefix("it")
	verifier, err := auth.NewVerifier([]byte("integration-secret"), "")
	if err != nil {
		t.Fatalf("NewVerifier failed: %v", err)
	}
	token, err := verifier.Issue("integration", time.Hour)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	router := api.NewRouter(api.Config{
		Service:  query.NewService(manager, pool.Collections(), zerolog.Nop()),
		Verifier: verifier,
		Logger:   zerolog.Nop(),
		Checks: map[string]api.Checker{
			"redis":    manager.Ping,
			"postgres": func(ctx context.Context) error { return pool.Ping(ctx) },
		},
	})

	get := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	// Request 1: cache miss, served from Postgres
	t.Log("Request 1: cache miss")
	w1 := get("/get-institution-trade?name=X")
	if w1.Code != http.StatusOK {
		t.Fatalf("Request 1 status = %d, body %s", w1.Code, w1.Body.String())
	}
	if got := w1.Header().Get("X-Cache"); got != "MISS" {
		t.Errorf("Request 1 X-Cache = %q, want MISS", got)
	}

	var trades []model.Trade
	if err := json.Unmarshal(w1.Body.Bytes(), &trades); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(trades) != 2 || trades[0].Symbol != "AAA" || trades[1].Symbol != "BBB" {
		t.Errorf("Request 1 trades = %+v, want AAA and BBB", trades)
	}

	// Entry is in Redis under the prefixed key with a TTL of at most 60s
	redisKey := "it:" + query.TradeFilter{Name: param.Of("X")}.Key().String()
	ttl, err := redisClient.TTL(context.Background(), redisKey).Result()
	if err != nil {
		t.Fatalf("TTL failed: %v", err)
	}
	if ttl <= 0 || ttl > query.DefaultTTL {
		t.Errorf("Redis TTL = %v, want within (0, %v]", ttl, query.DefaultTTL)
	}

	// Request 2: cache hit with identical body
	t.Log("Request 2: cache hit")
	w2 := get("/get-institution-trade?name=X")
	if got := w2.Header().Get("X-Cache"); got != "HIT" {
		t.Errorf("Request 2 X-Cache = %q, want HIT", got)
	}
	if w1.Body.String() != w2.Body.String() {
		t.Errorf("Request 2 body differs:\n%s\n%s", w1.Body.String(), w2.Body.String())
	}

	// A row added within the TTL is not visible until expiry
	err = postgres.NewTradeStore(pool).Insert(context.Background(), model.Trade{
		Symbol:    "NEW",
		Date:      fixtures.Trades()[0].Date,
		TopBuyers: []model.Participant{{Name: "X"}},
	})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	w3 := get("/get-institution-trade?name=X")
	if w3.Body.String() != w1.Body.String() {
		t.Error("cached snapshot should not change within the TTL")
	}

	// Readiness reflects both dependencies
	w4 := get("/ready")
	if w4.Code != http.StatusOK {
		t.Errorf("/ready status = %d, body %s", w4.Code, w4.Body.String())
	}
}

// TestQueryScenarios runs the dataset filters against Postgres through the service.
func TestQueryScenarios(t *testing.T) {
	redisClient, cleanupRedis := setupRedis(t)
	defer cleanupRedis()

	pool, cleanupPostgres := setupPostgres(t)
	defer cleanupPostgres()

	svc := query.NewService(cache.NewManager(redisClient), pool.Collections(), zerolog.Nop())
	ctx := context.Background()

	tests := []struct {
		name string
		f    query.TradeFilter
		want []string
	}{
		{"name and positive", query.TradeFilter{Name: param.Of("X"), TransactionType: param.Of("positive")}, []string{"AAA"}},
		{"symbol ignores case", query.TradeFilter{Symbol: param.Of("bbb")}, []string{"BBB"}},
		{"date", query.TradeFilter{Date: param.Of("2024-01-03")}, []string{"BBCA"}},
		{"seller by name", query.TradeFilter{Name: param.Of("Northwind")}, []string{"BBCA"}},
		{"no match", query.TradeFilter{Symbol: param.Of("zzz")}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.Trades(ctx, tt.f)
			if err != nil {
				t.Fatalf("Trades failed: %v", err)
			}
			got := make([]string, 0, len(res.Records))
			for _, tr := range res.Records {
				got = append(got, tr.Symbol)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("got %v, want %v", got, tt.want)
				}
			}
		})
	}

	meta, err := svc.Metadata(ctx, query.MetadataFilter{Sector: param.Of("ENERGY")})
	if err != nil {
		t.Fatalf("Metadata failed: %v", err)
	}
	if len(meta.Records) != 1 || meta.Records[0].Symbol != "AAA" {
		t.Errorf("Metadata = %+v, want AAA", meta.Records)
	}

	reports, err := svc.Reports(ctx, query.ReportFilter{SubSector: param.Of("BANK")})
	if err != nil {
		t.Fatalf("Reports failed: %v", err)
	}
	if len(reports.Records) != 1 || reports.Records[0].SubSector != "Banking" {
		t.Errorf("Reports = %+v, want Banking", reports.Records)
	}
}

// TestConcurrentMisses checks that concurrent identical requests all get the
// same answer and populate one Redis entry.
func TestConcurrentMisses(t *testing.T) {
	redisClient, cleanupRedis := setupRedis(t)
	defer cleanupRedis()

	pool, cleanupPostgres := setupPostgres(t)
	defer cleanupPostgres()

	svc := query.NewService(cache.NewManager(redisClient), pool.Collections(), zerolog.Nop())
	f := query.MetadataFilter{Sector: param.Of("financials")}

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := svc.Metadata(context.Background(), f)
			if err != nil {
				errs <- err
				return
			}
			if len(res.Records) != 2 {
				t.Errorf("got %d records, want 2", len(res.Records))
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Metadata failed: %v", err)
	}

	keys, err := redisClient.Keys(context.Background(), "metadata:*").Result()
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	if len(keys) != 1 {
		t.Errorf("Redis keys = %v, want exactly one", keys)
	}
}
