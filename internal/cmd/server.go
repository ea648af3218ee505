package cmd

import (
	"context"
	"syscall"
	"time"

	"git.sr.ht/~mariusor/lw"
	w "git.sr.ht/~mariusor/wrapper"
	"github.com/robfig/cron/v3"
	"github.com/urfave/cli"

	"git.sr.ht/~mariusor/gni"
	"git.sr.ht/~mariusor/gni/concierge"
	"git.sr.ht/~mariusor/gni/internal/config"
	"git.sr.ht/~mariusor/gni/web"
)

var Server = cli.Command{
	Name:  "start",
	Usage: "Starts the events guide web server",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "listen",
			Usage: "The address to listen on, defaults to the configured one",
		},
	},
	Action: serverStart,
}

var wait = 100 * time.Millisecond

func reload(e *env) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := e.catalog.Reload(ctx); err != nil {
		e.log.Warnf("Unable to reload events: %s", err)
	}
}

// listenAddr returns the --listen flag value, or the configured address.
func listenAddr(c *cli.Context, conf *config.Config) string {
	if ll := c.String("listen"); ll != "" {
		return ll
	}
	return conf.Listen
}

func webOptions(e *env, listen string, l lw.Logger) web.Options {
	return web.Options{
		Version:   gni.AppVersion,
		Catalog:   e.catalog,
		Store:     e.store,
		Routes:    e.conf.Routes,
		Location:  e.loc,
		Concierge: concierge.NewClient(e.conf.ConciergeEndpoint(listen), l),
		Passes:    web.Passes{Lite: e.conf.Passes.Lite, Deposit: e.conf.Passes.Deposit},
		Logger:    l,
	}
}

func serverStart(c *cli.Context) error {
	l := lw.Dev()
	e, err := setup(c, l)
	if err != nil {
		return err
	}
	listen := listenAddr(c, e.conf)
	h := web.New(webOptions(e, listen, l))

	cr := cron.New()
	if e.conf.RefreshEnabled() {
		if _, err := cr.AddFunc(e.conf.Refresh, func() { reload(e) }); err != nil {
			return err
		}
	}
	cr.Start()
	defer cr.Stop()

	l.Infof("Listening on %s", listen)

	// Create a deadline to wait for.
	ctx, cancel := context.WithTimeout(context.Background(), wait)
	defer cancel()

	// Get start/stop functions for the http server
	srvRun, srvStop := w.HttpServer(w.Handler(h), w.OnTCP(listen))
	w.RegisterSignalHandlers(w.SignalHandlers{
		syscall.SIGHUP: func(_ chan int) {
			l.Infof("SIGHUP received, reloading events")
			reload(e)
		},
		syscall.SIGINT: func(exit chan int) {
			l.Infof("SIGINT received, stopping")
			exit <- 0
		},
		syscall.SIGTERM: func(exit chan int) {
			l.Infof("SIGITERM received, force stopping")
			exit <- 0
		},
		syscall.SIGQUIT: func(exit chan int) {
			l.Infof("SIGQUIT received, force stopping with core-dump")
			exit <- 0
		},
	}).Exec(func() error {
		if err := srvRun(); err != nil {
			l.Errorf("Error: %s", err)
			return err
		}
		// Doesn't block if no connections, but will otherwise wait until the timeout deadline.
		go func() {
			if err := srvStop(ctx); err != nil {
				l.Errorf("Error: %s", err)
			}
		}()
		return nil
	})

	return nil
}
