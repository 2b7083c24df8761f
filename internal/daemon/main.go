// Package daemon wires configuration, storage and services into the web service.
package daemon

import (
	"context"
	"errors"
	"io"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tourmarket/tourmarket/internal/auth"
	"github.com/tourmarket/tourmarket/internal/config"
	"github.com/tourmarket/tourmarket/internal/db"
	"github.com/tourmarket/tourmarket/internal/otp"
	"github.com/tourmarket/tourmarket/internal/sms"
	"github.com/tourmarket/tourmarket/internal/web"
	"github.com/tourmarket/tourmarket/internal/web/handler"
)

const pingTimeout = 5 * time.Second

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	db         *gorm.DB
	closers    []io.Closer
	webService *web.Service
}

// Start runs the web service until SIGINT or SIGTERM, then releases all resources.
func (d *Daemon) Start() error {
	errCh := make(chan error, 1)

	go func() {
		errCh <- d.webService.Start(d.webService.Addr())
	}()

	log.Info().Str("addr", d.webService.Addr()).Msg("web service started")

	shutdown := make(chan struct{})

	go func() {
		d.webService.WaitShutdown()
		close(shutdown)
	}()

	var err error

	select {
	case err = <-errCh:
	case <-shutdown:
	}

	return errors.Join(err, d.Close())
}

// Close releases the database and the OTP store.
func (d *Daemon) Close() error {
	var errs []error

	for _, c := range d.closers {
		errs = append(errs, c.Close())
	}

	errs = append(errs, db.Close(d.db))

	return errors.Join(errs...)
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	gdb, err := OpenDB(cfg)
	if err != nil {
		return nil, err
	}

	d := &Daemon{cfg: cfg, db: gdb}

	store, err := d.otpStore()
	if err != nil {
		_ = d.Close()
		return nil, err
	}

	gateway, err := sms.New(cfg.SMS)
	if err != nil {
		_ = d.Close()
		return nil, pkgerrors.Wrap(err, "failed to create sms gateway")
	}

	deps := Services(cfg, gdb, store, gateway)

	if d.webService, err = web.New(deps); err != nil {
		_ = d.Close()
		return nil, pkgerrors.Wrap(err, "failed to create web service")
	}

	return d, nil
}

// OpenDB opens and migrates the configured database.
func OpenDB(cfg *config.Config) (*gorm.DB, error) {
	gdb, err := db.Open(cfg.DB, cfg.DevMode)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to connect database")
	}

	if err = db.Migrate(gdb); err != nil {
		_ = db.Close(gdb)
		return nil, pkgerrors.Wrap(err, "failed to migrate database")
	}

	return gdb, nil
}

// Services builds the handler dependencies.
func Services(cfg *config.Config, gdb *gorm.DB, store otp.Store, gateway sms.Gateway) *handler.Deps {
	opts := []otp.Option{otp.WithMaxAttempts(cfg.OTP.MaxAttempts)}
	if cfg.OTP.TTL > 0 {
		opts = append(opts, otp.WithTTL(cfg.OTP.Lifetime()))
	}

	if cfg.OTP.Message != "" {
		opts = append(opts, otp.WithMessage(cfg.OTP.Message))
	}

	channel := otp.NewChannel(store, gateway, opts...)
	permissions := auth.NewPermissionStore(gdb)

	return &handler.Deps{
		Cfg:       cfg,
		Store:     permissions,
		Gate:      auth.NewGate(gdb, permissions, auth.DefaultPolicy().Merge(cfg.Policy)),
		Accounts:  auth.NewAccountService(gdb),
		Passwords: auth.NewPasswordAuthenticator(gdb),
		OTP:       auth.NewOTPAuthenticator(gdb, channel),
		Tokens:    auth.NewTokenIssuer(gdb, cfg.Token.Lifetime(), cfg.Token.ClientID),
	}
}

func (d *Daemon) otpStore() (otp.Store, error) {
	if d.cfg.OTP.Store != config.OTPStoreRedis {
		log.Warn().Msg("using in-memory otp store, codes are lost on restart")
		return otp.NewMemoryStore(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     d.cfg.Redis.Addr,
		Password: d.cfg.Redis.Password,
		DB:       d.cfg.Redis.DB,
	})
	d.closers = append(d.closers, client)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to connect redis")
	}

	return otp.NewRedisStore(client, d.cfg.Redis.KeyPrefix), nil
}
