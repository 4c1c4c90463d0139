package monitoring

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// OpsServer serves /metrics and a liveness probe on a separate port so
// the scrape surface stays off the public API.
type OpsServer struct {
	echo *echo.Echo
	addr string
}

func NewOpsServer(port string, middlewares ...echo.MiddlewareFunc) *OpsServer {
	e := echo.New()
	for _, mw := range middlewares {
		e.Use(mw)
	}

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	return &OpsServer{echo: e, addr: ":" + port}
}

// Start blocks serving the ops endpoints; run it on its own goroutine.
func (s *OpsServer) Start() {
	server := &http.Server{Addr: s.addr, Handler: s.echo}
	log.Printf("Ops server listening on %s", s.addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Printf("Ops server stopped: %v", err)
	}
}
