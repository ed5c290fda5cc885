package bootstrap

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fulldump/box"

	"github.com/fulldump/filestore/api"
	"github.com/fulldump/filestore/configuration"
	"github.com/fulldump/filestore/filestore"
	"github.com/fulldump/filestore/service"
)

var VERSION = "dev"

func Bootstrap(c *configuration.Configuration) (start, stop func()) {

	err := os.MkdirAll(c.Dir, 0755)
	if err != nil {
		log.Println("ERROR:", err.Error())
	}

	engine := filestore.New(c.EngineConfig())
	if err := engine.Err(); err != nil {
		// requests will be answered with 503 until restarted
		log.Println("ERROR:", err.Error())
	}

	b := api.Build(service.NewService(engine), VERSION, c.ApiKey, c.ApiSecret)
	if c.EnableCompression {
		b.WithInterceptors(api.Compression)
	}
	b.WithInterceptors(
		api.AccessLog(log.New(os.Stdout, "ACCESS: ", log.Lshortfile)),
		api.RecoverFromPanic,
		api.PrettyErrorInterceptor,
	)

	s := &http.Server{
		Addr:    c.HttpAddr,
		Handler: box.Box2Http(b),
	}

	ln, err := net.Listen("tcp", c.HttpAddr)
	if err != nil {
		log.Println("ERROR:", err.Error())
		os.Exit(-1)
	}
	log.Println("listening on", c.HttpAddr)

	stop = func() {
		s.Shutdown(context.Background())
		engine.Close()
	}

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		for {
			sig := <-signalChan
			fmt.Println("Signal received", sig.String())
			stop()
		}
	}()

	start = func() {
		err := s.Serve(ln)
		if err != nil && err != http.ErrServerClosed {
			fmt.Println(err.Error())
		}
	}

	return
}
