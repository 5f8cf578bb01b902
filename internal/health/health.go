// Package health probes the gateway's dependencies on a schedule and reports
// the result over HTTP and the standard gRPC health protocol.
package health

import (
	"context"
	"net"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"gorm.io/gorm"
)

const (
	StatusHealthy     = "healthy"
	StatusUnavailable = "unavailable"

	probeTimeout = 5 * time.Second
)

// Probe returns nil when the dependency is reachable.
type Probe func(ctx context.Context) error

type Result struct {
	Status    string        `json:"status"`
	Message   string        `json:"message"`
	Latency   time.Duration `json:"latency"`
	CheckedAt time.Time     `json:"checked_at"`
}

type Monitor struct {
	mu      sync.RWMutex
	probes  map[string]Probe
	results map[string]Result

	grpcHealth *grpchealth.Server
	sched      *cron.Cron
}

func NewMonitor() *Monitor {
	return &Monitor{
		probes:     make(map[string]Probe),
		results:    make(map[string]Result),
		grpcHealth: grpchealth.NewServer(),
	}
}

// Register adds a named probe. Probes registered after Start run from the next
// tick on.
func (m *Monitor) Register(name string, probe Probe) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.probes[name] = probe
}

// Check runs every probe once and publishes the outcome.
func (m *Monitor) Check(ctx context.Context) map[string]Result {
	m.mu.RLock()
	probes := make(map[string]Probe, len(m.probes))
	for name, p := range m.probes {
		probes[name] = p
	}
	m.mu.RUnlock()

	results := make(map[string]Result, len(probes))
	for name, probe := range probes {
		results[name] = run(ctx, probe)
	}

	m.mu.Lock()
	m.results = results
	m.mu.Unlock()

	status := healthpb.HealthCheckResponse_SERVING
	for name, r := range results {
		if r.Status != StatusHealthy {
			status = healthpb.HealthCheckResponse_NOT_SERVING
			zap.S().Warnf("dependency %s unhealthy: %s", name, r.Message)
		}
	}
	m.grpcHealth.SetServingStatus("", status)
	return results
}

func run(ctx context.Context, probe Probe) Result {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	start := time.Now()
	err := probe(ctx)
	r := Result{
		Status:    StatusHealthy,
		Message:   "Service is responding",
		Latency:   time.Since(start),
		CheckedAt: time.Now().UTC(),
	}
	if err != nil {
		r.Status = StatusUnavailable
		r.Message = err.Error()
	}
	return r
}

// Snapshot returns the results of the last Check.
func (m *Monitor) Snapshot() map[string]Result {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]Result, len(m.results))
	for k, v := range m.results {
		out[k] = v
	}
	return out
}

// Start runs Check immediately and then on the given cron spec, e.g.
// "@every 30s".
func (m *Monitor) Start(spec string) error {
	m.Check(context.Background())

	m.sched = cron.New()
	_, err := m.sched.AddFunc(spec, func() {
		defer func() {
			if err := recover(); err != nil {
				zap.S().Error(err)
			}
		}()
		m.Check(context.Background())
	})
	if err != nil {
		return err
	}
	m.sched.Start()
	return nil
}

func (m *Monitor) Stop() {
	if m.sched != nil {
		<-m.sched.Stop().Done()
	}
	m.grpcHealth.Shutdown()
}

// ServeGRPC exposes grpc.health.v1 on addr. The caller stops the returned
// server.
func (m *Monitor) ServeGRPC(addr string) (*grpc.Server, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	s := grpc.NewServer()
	healthpb.RegisterHealthServer(s, m.grpcHealth)
	reflection.Register(s)

	go func() {
		zap.S().Infof("gRPC health listening on %s", addr)
		if err := s.Serve(lis); err != nil {
			zap.S().Errorf("gRPC health server stopped: %v", err)
		}
	}()
	return s, nil
}

// Handler reports the cached status of every dependency.
func (m *Monitor) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		results := m.Snapshot()

		status := StatusHealthy
		httpStatus := http.StatusOK
		unavailable := []string{}
		for name, r := range results {
			if r.Status != StatusHealthy {
				unavailable = append(unavailable, name)
			}
		}
		sort.Strings(unavailable)
		if len(unavailable) > 0 {
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
		}

		c.JSON(httpStatus, gin.H{
			"status":               status,
			"message":              "Server is running",
			"unavailable_services": unavailable,
			"timestamp":            time.Now().UTC(),
		})
	}
}

// DetailedHandler probes every dependency now and returns per-service detail.
func (m *Monitor) DetailedHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		results := m.Check(c.Request.Context())

		overallStatus := StatusHealthy
		for _, r := range results {
			if r.Status != StatusHealthy {
				overallStatus = "degraded"
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"overall_status": overallStatus,
			"services":       results,
			"timestamp":      time.Now().UTC(),
		})
	}
}

func DatabaseProbe(db *gorm.DB) Probe {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}

func RedisProbe(client redis.UniversalClient) Probe {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
