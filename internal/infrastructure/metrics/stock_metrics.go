package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/prassaaa/dashboard-rokokgs-sub000/internal/application/inventory"
)

var _ inventory.StockMetrics = (*StockMetrics)(nil)

// StockMetrics colectores Prometheus del ledger de stock y de la API HTTP.
type StockMetrics struct {
	registry *prometheus.Registry

	operations      *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	clamps          *prometheus.CounterVec
	referenceRetry  prometheus.Counter
	requestDuration *prometheus.HistogramVec
}

// New registra los colectores en un registro propio. namespace suele ser APP_NAME.
func New(namespace string) *StockMetrics {
	ns := sanitize(namespace)
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &StockMetrics{
		registry: reg,
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "stock_operations_total",
			Help:      "Operaciones de stock por tipo y resultado",
		}, []string{"operation", "result"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "stock_operation_duration_seconds",
			Help:      "Duración de las operaciones de stock en segundos",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		clamps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "stock_clamped_adjustments_total",
			Help:      "Salidas recortadas a cero por superar la existencia",
		}, []string{"branch_id"}),
		referenceRetry: factory.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "stock_reference_retries_total",
			Help:      "Transacciones repetidas por colisión de número de referencia",
		}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "http_request_duration_seconds",
			Help:      "Duración de las peticiones HTTP en segundos",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
	}
}

// ObserveOperation cuenta la operación y registra su duración.
func (m *StockMetrics) ObserveOperation(op, result string, elapsed time.Duration) {
	m.operations.WithLabelValues(op, result).Inc()
	m.duration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// ObserveClamp cuenta una salida recortada en la sucursal.
func (m *StockMetrics) ObserveClamp(branchID string) {
	m.clamps.WithLabelValues(branchID).Inc()
}

// ObserveReferenceRetry cuenta un reintento por colisión de referencia.
func (m *StockMetrics) ObserveReferenceRetry() {
	m.referenceRetry.Inc()
}

// Registry expone el registro (tests y handler).
func (m *StockMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler handler HTTP de /metrics sobre el registro propio.
func (m *StockMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware mide la duración de cada petición usando la ruta registrada, no la URL concreta.
func (m *StockMetrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		path := c.Route().Path
		if path == "" {
			path = "unmatched"
		}
		m.requestDuration.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
		return err
	}
}

func sanitize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "rokokgs"
	}
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			return r
		}
		return '_'
	}, name)
}
