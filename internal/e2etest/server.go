package e2etest

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/repforge/repforge/internal/logging"
)

// Log keys the server under test is expected to emit. The harness listens
// for them to discover the dynamically allocated port and the sqlite DSN.
const (
	LogAddrKey = "addr"
	LogDsnKey  = "sqlDsn"
)

// Server wraps a running instance of the application under test together
// with an API client and a handle to its database.
type Server struct {
	url    string
	client *Client
	db     *sql.DB
	cancel context.CancelCauseFunc
	done   chan struct{}
}

// StartServer runs the application's run function in a goroutine, waits until
// it is serving, and returns a harness around it. Shutdown is registered with
// t.Cleanup.
//
// logSink receives the server logs, usually a testhelpers.Writer. lookupEnv
// supplies configuration the same way [os.LookupEnv] would.
func StartServer(
	t *testing.T,
	logSink io.Writer,
	lookupEnv func(string) (string, bool),
	run func(context.Context, *slog.Logger, func(string) (string, bool)) error,
) (*Server, error) {
	var server *Server
	t.Cleanup(func() {
		if server != nil {
			server.Shutdown()
		}
	})
	ctx, cancel := context.WithCancelCause(t.Context())
	done := make(chan struct{})

	// The port and DSN are only known once the server logs them, so tap the
	// log stream and forward the two attributes through channels.
	addrCh := make(chan string, 1)
	dsnCh := make(chan string, 1)
	logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(logSink, &slog.HandlerOptions{
		Level: slog.LevelDebug,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			switch a.Key {
			case LogAddrKey:
				addrCh <- a.Value.String()
			case LogDsnKey:
				dsnCh <- a.Value.String()
			}
			return a
		},
	})))

	go func() {
		defer close(done)
		if err := run(ctx, logger, lookupEnv); err != nil {
			cancel(err)
		}
	}()

	var addr, dsn string
	for addr == "" || dsn == "" {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("server exited before becoming ready: %w", context.Cause(ctx))
		case addr = <-addrCh:
		case dsn = <-dsnCh:
		}
	}

	serverURL := "http://" + addr
	client := NewClient(serverURL)
	if err := client.WaitForReady(ctx, "/api/healthy"); err != nil {
		return nil, fmt.Errorf("wait for ready: %w", err)
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	server = &Server{
		url:    serverURL,
		client: client,
		db:     db,
		cancel: cancel,
		done:   done,
	}
	return server, nil
}

func (s *Server) Client() *Client {
	return s.client
}

func (s *Server) URL() string {
	return s.url
}

// DB exposes the server's sqlite database for test fixtures that are awkward
// to set up through the API.
func (s *Server) DB() *sql.DB {
	return s.db
}

// Shutdown stops the server and blocks until its run function has returned.
func (s *Server) Shutdown() {
	s.cancel(nil)
	<-s.done
}
