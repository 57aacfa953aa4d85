package main

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/smallyu/go-ecc/internal/config"
	"github.com/smallyu/go-ecc/internal/crypto/curve"
	"github.com/smallyu/go-ecc/internal/crypto/zk/schnorr"
	"github.com/smallyu/go-ecc/pkg/ecc"
)

var curvesCmd = &cli.Command{
	Name:  "curves",
	Usage: "list available curves",
	Action: func(cctx *cli.Context) error {
		e, err := setup(cctx)
		if err != nil {
			return err
		}
		defer e.close()

		for _, name := range e.cfg.CurveNames() {
			p, err := e.cfg.Curve(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cctx.App.Writer, "%-12s p=%s n=%s\n", name, hex(p.Curve.P()), hex(p.N))
		}
		return nil
	},
}

var mulCmd = &cli.Command{
	Name:  "mul",
	Usage: "scalar multiplication k*P, P defaults to the generator",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "scalar", Aliases: []string{"k"}, Required: true, Usage: "non-negative scalar"},
		&cli.StringFlag{Name: "point", Usage: "base point as x,y (default: generator)"},
	},
	Action: func(cctx *cli.Context) error {
		e, err := setup(cctx)
		if err != nil {
			return err
		}
		defer e.close()

		params, err := e.params(cctx)
		if err != nil {
			return err
		}
		k, err := config.ParseInt(cctx.String("scalar"))
		if err != nil {
			return err
		}
		base := params.G
		if cctx.IsSet("point") {
			base, err = parsePoint(cctx.String("point"))
			if err != nil {
				return err
			}
		}

		r, err := params.Curve.ScalarMul(base, k)
		if err != nil {
			return err
		}
		e.log.Debugw("scalar multiplication", "bits", k.BitLen())
		fmt.Fprintln(cctx.App.Writer, formatPoint(r))
		return nil
	},
}

var addCmd = &cli.Command{
	Name:  "add",
	Usage: "point addition P1 + P2",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "p1", Required: true, Usage: "first point as x,y or inf"},
		&cli.StringFlag{Name: "p2", Required: true, Usage: "second point as x,y or inf"},
	},
	Action: func(cctx *cli.Context) error {
		e, err := setup(cctx)
		if err != nil {
			return err
		}
		defer e.close()

		params, err := e.params(cctx)
		if err != nil {
			return err
		}
		p1, err := parsePoint(cctx.String("p1"))
		if err != nil {
			return err
		}
		p2, err := parsePoint(cctx.String("p2"))
		if err != nil {
			return err
		}

		r, err := params.Curve.Add(p1, p2)
		if err != nil {
			return err
		}
		fmt.Fprintln(cctx.App.Writer, formatPoint(r))
		return nil
	},
}

var keygenCmd = &cli.Command{
	Name:  "keygen",
	Usage: "generate an ECDSA key pair",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "prove", Usage: "also print a Schnorr proof of possession"},
	},
	Action: func(cctx *cli.Context) error {
		e, err := setup(cctx)
		if err != nil {
			return err
		}
		defer e.close()

		s, err := e.scheme(cctx)
		if err != nil {
			return err
		}
		kp, err := s.GenerateKeyPair(nil)
		if err != nil {
			return err
		}
		e.log.Infow("generated key pair", "curve", s.Params().Name)

		fmt.Fprintf(cctx.App.Writer, "private: %s\npublic:  %s,%s\n", hex(kp.D), hex(kp.Public.X), hex(kp.Public.Y))

		if cctx.Bool("prove") {
			proof, err := schnorr.Prove(s.Params(), nil, kp.D)
			if err != nil {
				return err
			}
			fmt.Fprintf(cctx.App.Writer, "proof r: %s\nproof s: %s\n", formatPoint(proof.R), hex(proof.S))
		}
		return nil
	},
}

var signCmd = &cli.Command{
	Name:  "sign",
	Usage: "sign the SHA-256 digest of a message",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "key", Required: true, Usage: "private scalar"},
		&cli.StringFlag{Name: "message", Aliases: []string{"m"}, Required: true},
	},
	Action: func(cctx *cli.Context) error {
		e, err := setup(cctx)
		if err != nil {
			return err
		}
		defer e.close()

		s, err := e.scheme(cctx)
		if err != nil {
			return err
		}
		d, err := config.ParseInt(cctx.String("key"))
		if err != nil {
			return err
		}

		sig, err := s.SignMessage(nil, []byte(cctx.String("message")), d)
		if err != nil {
			return err
		}
		e.log.Infow("signed message", "curve", s.Params().Name)

		fmt.Fprintf(cctx.App.Writer, "r: %s\ns: %s\n", hex(sig.R), hex(sig.S))
		return nil
	},
}

var verifyCmd = &cli.Command{
	Name:  "verify",
	Usage: "verify a signature over the SHA-256 digest of a message",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "pub", Required: true, Usage: "public key as x,y"},
		&cli.StringFlag{Name: "message", Aliases: []string{"m"}, Required: true},
		&cli.StringFlag{Name: "r", Required: true},
		&cli.StringFlag{Name: "s", Required: true},
	},
	Action: func(cctx *cli.Context) error {
		e, err := setup(cctx)
		if err != nil {
			return err
		}
		defer e.close()

		s, err := e.scheme(cctx)
		if err != nil {
			return err
		}
		pub, err := parsePoint(cctx.String("pub"))
		if err != nil {
			return err
		}
		x, y, ok := pub.Coords()
		if !ok {
			return fmt.Errorf("%w: public key cannot be the point at infinity", ecc.ErrNotOnCurve)
		}
		r, err := config.ParseInt(cctx.String("r"))
		if err != nil {
			return err
		}
		sv, err := config.ParseInt(cctx.String("s"))
		if err != nil {
			return err
		}

		sig := &ecc.Signature{R: r, S: sv}
		if !s.VerifyMessage([]byte(cctx.String("message")), &ecc.PublicKey{X: x, Y: y}, sig) {
			e.log.Warnw("signature rejected", "curve", s.Params().Name)
			return cli.Exit(ecc.ErrInvalidSignature.Error(), 1)
		}
		fmt.Fprintln(cctx.App.Writer, "OK")
		return nil
	},
}

var proveVerifyCmd = &cli.Command{
	Name:  "prove-verify",
	Usage: "check a Schnorr proof of possession of a public key",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "pub", Required: true, Usage: "public key as x,y"},
		&cli.StringFlag{Name: "r", Required: true, Usage: "commitment as x,y"},
		&cli.StringFlag{Name: "s", Required: true, Usage: "response scalar"},
	},
	Action: func(cctx *cli.Context) error {
		e, err := setup(cctx)
		if err != nil {
			return err
		}
		defer e.close()

		params, err := e.params(cctx)
		if err != nil {
			return err
		}
		pub, err := parsePoint(cctx.String("pub"))
		if err != nil {
			return err
		}
		r, err := parsePoint(cctx.String("r"))
		if err != nil {
			return err
		}
		sv, err := config.ParseInt(cctx.String("s"))
		if err != nil {
			return err
		}

		proof := &schnorr.Proof{R: r, S: sv}
		if !proof.Verify(params, pub) {
			e.log.Warnw("proof rejected", "curve", params.Name)
			return cli.Exit("invalid proof", 1)
		}
		fmt.Fprintln(cctx.App.Writer, "OK")
		return nil
	},
}

// parsePoint accepts "x,y" or "inf".
func parsePoint(s string) (curve.Point, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "inf") {
		return curve.Identity(), nil
	}
	parts := strings.Split(strings.Trim(s, "()"), ",")
	if len(parts) != 2 {
		return curve.Point{}, fmt.Errorf("point %q: expected x,y or inf", s)
	}
	x, err := config.ParseInt(parts[0])
	if err != nil {
		return curve.Point{}, fmt.Errorf("point %q: %w", s, err)
	}
	y, err := config.ParseInt(parts[1])
	if err != nil {
		return curve.Point{}, fmt.Errorf("point %q: %w", s, err)
	}
	return curve.NewPoint(x, y), nil
}

// formatPoint prints pt in the form parsePoint accepts.
func formatPoint(pt curve.Point) string {
	x, y, ok := pt.Coords()
	if !ok {
		return "inf"
	}
	return hex(x) + "," + hex(y)
}

func hex(v *big.Int) string {
	return "0x" + v.Text(16)
}
