package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/tripsmith/tripsmith/pkg/mcpserver"
	"github.com/tripsmith/tripsmith/pkg/otel"
	"github.com/tripsmith/tripsmith/pkg/planner"
	_ "github.com/tripsmith/tripsmith/pkg/planner/gemini"
	_ "github.com/tripsmith/tripsmith/pkg/planner/openai"
	"github.com/tripsmith/tripsmith/pkg/providers/openweather"
	"github.com/tripsmith/tripsmith/pkg/providers/serpapi"
	"github.com/tripsmith/tripsmith/pkg/providers/tavily"
	"github.com/tripsmith/tripsmith/pkg/server"
	"github.com/tripsmith/tripsmith/pkg/tool"
	"github.com/tripsmith/tripsmith/pkg/tools"
	"github.com/tripsmith/tripsmith/pkg/trip"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	var (
		showVersion  bool
		addr         string
		provider     string
		model        string
		origins      string
		mcpAddr      string
		otelStdout   bool
		maxTaskToken int
	)

	_ = godotenv.Load()

	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.StringVar(&addr, "addr", getEnv("TRIPSMITH_ADDR", ":8000"), "http listen address")
	flag.StringVar(&provider, "planner", getEnv("TRIPSMITH_PLANNER", "openai"), "planner provider (openai, gemini)")
	flag.StringVar(&model, "model", getEnv("TRIPSMITH_MODEL", ""), "planner model override")
	flag.StringVar(&origins, "cors-origins", getEnv("TRIPSMITH_CORS_ORIGINS", "http://localhost:3000"), "comma-separated allowed CORS origins")
	flag.StringVar(&mcpAddr, "mcp-addr", getEnv("TRIPSMITH_MCP_ADDR", ""), "expose tools over MCP on this address (empty disables)")
	flag.BoolVar(&otelStdout, "trace-stdout", os.Getenv("TRIPSMITH_TRACE_STDOUT") == "1", "export traces to stdout")
	flag.IntVar(&maxTaskToken, "max-task-tokens", 4096, "reject tasks above this estimated token count (0 disables)")
	flag.Parse()

	if showVersion {
		fmt.Printf("tripsmith %s (commit=%s, date=%s)\n", version, commit, date)
		return
	}

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if os.Getenv("TRIPSMITH_DEBUG") == "1" {
		logrus.SetLevel(logrus.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := otel.Init(ctx, otel.Config{
		ServiceName:    "tripsmith",
		ServiceVersion: version,
		UseStdout:      otelStdout,
	})
	if err != nil {
		logrus.WithError(err).Fatal("otel init failed")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdown(sctx)
	}()

	reg := tool.NewRegistry()
	if err := tools.RegisterAll(reg, tools.Providers{
		Weather: openweather.New(os.Getenv("OPENWEATHERMAP_API_KEY")),
		Tavily:  tavily.New(os.Getenv("TAVILY_API_KEY")),
		Serp:    serpapi.New(os.Getenv("SERPAPI_API_KEY")),
	}); err != nil {
		logrus.WithError(err).Fatal("tool registration failed")
	}

	cfg := map[string]any{}
	if model != "" {
		cfg["model"] = model
	}
	factory, ok := planner.Resolve(provider)
	if !ok {
		logrus.WithField("planner", provider).Fatal("unknown planner provider")
	}
	pl, err := factory(ctx, cfg)
	if err != nil {
		logrus.WithError(err).WithField("planner", provider).Fatal("planner init failed")
	}

	var opts []trip.ServiceOption
	if maxTaskToken > 0 {
		est, err := planner.NewTikTokenEstimator("gpt-4o")
		if err != nil {
			logrus.WithError(err).Fatal("token estimator init failed")
		}
		opts = append(opts, trip.WithTokenGuard(est, maxTaskToken))
	}
	svc := trip.NewService(pl, reg, opts...)

	if mcpAddr != "" {
		mcp, err := mcpserver.New(ctx)
		if err != nil {
			logrus.WithError(err).Fatal("mcp server init failed")
		}
		if err := mcp.Export(reg); err != nil {
			logrus.WithError(err).Fatal("mcp export failed")
		}
		go func() {
			if err := mcp.Serve(ctx, mcpAddr); err != nil {
				logrus.WithError(err).Warn("mcp server stopped")
			}
		}()
	}

	srv := server.New(svc, server.Config{AllowedOrigins: splitOrigins(origins)})
	httpServer := &http.Server{Addr: addr, Handler: srv.Handler()}

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(sctx)
	}()

	logrus.WithFields(logrus.Fields{
		"addr":    addr,
		"planner": pl.Name(),
		"tools":   reg.Len(),
	}).Info("tripsmith listening")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logrus.WithError(err).Fatal("server error")
	}
}

func getEnv(key string, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
