package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"drimer.pl/drimain/internal/apperr"
	"drimer.pl/drimain/internal/audit"
	"drimer.pl/drimain/internal/auth"
	"drimer.pl/drimain/internal/config"
	"drimer.pl/drimain/internal/httpapi"
	"drimer.pl/drimain/internal/obs"
	"drimer.pl/drimain/internal/org"
	"drimer.pl/drimain/internal/schedule"
	"drimer.pl/drimain/internal/store/pg"
	"drimer.pl/drimain/internal/ticket"
)

const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 15 * time.Second
	writeTimeout      = 15 * time.Second
	idleTimeout       = 60 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API (and the gRPC health service when grpc_addr is set)",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log, err := obs.NewLogger(cfg.LogConfig())
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	obs.Init()
	obs.InitBuildInfo(Version, Commit)

	proxies, err := cfg.TrustedProxyPrefixes()
	if err != nil {
		return err
	}
	deps, closeStore, err := buildDeps(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	api := httpapi.New(deps, httpapi.Options{
		CookieEnabled: cfg.CookieEnabled,
		CookieSecure:  cfg.CookieSecure,
		LoginRate:     cfg.LoginRate,
		LoginBurst:    cfg.LoginBurst,
		MaxBodyBytes:  cfg.MaxBodyBytes,
		CORSOrigins:   cfg.CORSOrigins,

		TrustedProxies: proxies,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Handler(),
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)
	go func() {
		log.Info("http listening", zap.String("addr", srv.Addr), zap.String("version", Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http listen: %w", err)
		}
	}()

	var grpcSrv *grpc.Server
	if cfg.GRPCAddr != "" {
		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			return fmt.Errorf("grpc listen: %w", err)
		}
		grpcSrv = grpc.NewServer()
		httpapi.NewGRPCServer(deps.Ready, Version, log).Register(grpcSrv)
		go func() {
			log.Info("grpc listening", zap.String("addr", cfg.GRPCAddr))
			if err := grpcSrv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				errCh <- fmt.Errorf("grpc serve: %w", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-errCh:
		log.Error("server failed", zap.Error(err))
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownPeriod)
	defer cancel()
	if grpcSrv != nil {
		grpcSrv.GracefulStop()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	log.Info("stopped")
	return nil
}

// buildDeps picks PostgreSQL when database_dsn is set and in-memory stores
// otherwise, then provisions the bootstrap admin if one is configured.
func buildDeps(ctx context.Context, cfg config.Config, log *zap.Logger) (httpapi.Deps, func(), error) {
	tokens, err := auth.NewTokenService(cfg.TokenConfig())
	if err != nil {
		return httpapi.Deps{}, nil, err
	}

	deps := httpapi.Deps{
		Logger:  log,
		Audit:   audit.New(log),
		Version: Version,
	}
	closeFn := func() {}

	if cfg.DatabaseDSN == "" {
		log.Warn("database_dsn not set, using in-memory stores; data is lost on exit")
		users := auth.NewMemoryStore()
		orgSvc := org.NewService(org.NewMemoryStore())
		deps.Auth = auth.NewAuthenticator(users, tokens)
		deps.Users = users
		deps.Org = orgSvc
		deps.Tickets = ticket.NewService(ticket.NewMemoryRepository(), orgSvc)
		deps.Schedules = schedule.NewService(schedule.NewMemoryRepository(), orgSvc)
		deps.Ready = httpapi.ReadyProbe{}
		if cfg.BootstrapAdminUser == "" {
			log.Warn("no bootstrap_admin_user configured; the in-memory user store is empty and nobody can log in")
		}
	} else {
		store, err := pg.Open(cfg.DatabaseDSN)
		if err != nil {
			return httpapi.Deps{}, nil, err
		}
		orgSvc := org.NewService(store)
		deps.Auth = auth.NewAuthenticator(store, tokens)
		deps.Users = store
		deps.Org = orgSvc
		deps.Tickets = ticket.NewService(store, orgSvc)
		deps.Schedules = schedule.NewService(store.Schedules(), orgSvc)
		deps.Ready = httpapi.ReadyProbe{DB: store.DB()}
		closeFn = func() { _ = store.Close() }
	}

	if err := bootstrapAdmin(ctx, deps.Users, cfg, log); err != nil {
		closeFn()
		return httpapi.Deps{}, nil, err
	}
	return deps, closeFn, nil
}

// bootstrapAdmin creates the configured ADMIN account. An existing account
// of that name is left untouched.
func bootstrapAdmin(ctx context.Context, users auth.UserStore, cfg config.Config, log *zap.Logger) error {
	if cfg.BootstrapAdminUser == "" {
		return nil
	}
	u, err := auth.Provision(ctx, users, auth.NewUser{
		Username: cfg.BootstrapAdminUser,
		Password: cfg.BootstrapAdminPassword,
		Roles:    []string{string(auth.RoleAdmin)},
	})
	switch {
	case errors.Is(err, apperr.ErrConflict):
		log.Info("bootstrap admin already exists", zap.String("username", cfg.BootstrapAdminUser))
		return nil
	case err != nil:
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	log.Info("bootstrap admin created", zap.String("username", u.Username), zap.Int64("user_id", u.ID))
	return nil
}
