package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/smallyu/go-ecc/internal/config"
	"github.com/smallyu/go-ecc/internal/crypto/curve"
	"github.com/smallyu/go-ecc/internal/crypto/ecdsa"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	app := &cli.App{
		Name:  "ecc",
		Usage: "prime-field elliptic curve arithmetic and ECDSA",
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Usage:   "path to a YAML file with extra curve definitions",
			EnvVars: []string{"ECC_CONFIG"},
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "log level, overrides the config file",
		},
		&cli.StringFlag{
			Name:    "curve",
			Usage:   "curve to operate on",
			Value:   curve.Secp256k1,
			EnvVars: []string{"ECC_CURVE"},
		},
	}

	app.Commands = []*cli.Command{
		curvesCmd,
		mulCmd,
		addCmd,
		keygenCmd,
		signCmd,
		verifyCmd,
		proveVerifyCmd,
	}
	return app
}

// env is the per-invocation state shared by all commands.
type env struct {
	cfg    *config.Config
	log    *zap.SugaredLogger
	rawlog *zap.Logger
}

func setup(cctx *cli.Context) (*env, error) {
	cfg := config.Default()
	if path := cctx.String("config"); path != "" {
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return nil, err
		}
	}

	level := cfg.LogLevel
	if cctx.IsSet("log-level") {
		level = cctx.String("log-level")
	}
	rawlog, err := newLogger(level)
	if err != nil {
		return nil, err
	}

	e := &env{
		cfg:    cfg,
		rawlog: rawlog,
		log:    rawlog.Sugar().With("source", "ecc_main", "command", cctx.Command.Name),
	}
	if path := cctx.String("config"); path != "" {
		e.log.Debugw("loaded config", "path", path, "curves", len(cfg.Curves))
	}
	return e, nil
}

func (e *env) close() {
	// stderr is often not syncable
	_ = e.rawlog.Sync()
}

// params resolves the --curve flag.
func (e *env) params(cctx *cli.Context) (*curve.Params, error) {
	name := cctx.String("curve")
	p, err := e.cfg.Curve(name)
	if err != nil {
		return nil, err
	}
	e.log.Debugw("using curve", "name", p.Name, "curve", p.Curve.String())
	return p, nil
}

func (e *env) scheme(cctx *cli.Context) (*ecdsa.ECDSA, error) {
	p, err := e.params(cctx)
	if err != nil {
		return nil, err
	}
	return ecdsa.New(p)
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
