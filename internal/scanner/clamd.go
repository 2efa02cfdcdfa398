package scanner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dutchcoders/go-clamd"
)

var (
	// ErrUnavailable means the daemon could not be reached or stopped answering.
	ErrUnavailable = errors.New("clamd unavailable")
	ErrNoResult    = errors.New("clamd returned no result")
)

const unknownThreat = "unknown threat"

type clamdAPI interface {
	Ping() error
	ScanStream(r io.Reader, abort chan bool) (chan *clamd.ScanResult, error)
}

// Verdict is the outcome of a completed scan.
type Verdict struct {
	Clean  bool
	Threat string
}

type Scanner struct {
	api     clamdAPI
	timeout time.Duration
}

// New connects lazily to address, e.g. "tcp://clamav:3310". Every call dials a new connection.
func New(address string, timeout time.Duration) *Scanner {
	return NewWithAPI(clamd.NewClamd(address), timeout)
}

func NewWithAPI(api clamdAPI, timeout time.Duration) *Scanner {
	return &Scanner{api: api, timeout: timeout}
}

func (s *Scanner) Ping(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.api.Ping() }()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
	}
}

// Scan streams r to clamd with INSTREAM and waits for the verdict. The timeout
// covers sending the stream as well as waiting for the answer.
func (s *Scanner) Scan(ctx context.Context, r io.Reader) (Verdict, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	// Closing abort tells go-clamd to drop the connection.
	abort := make(chan bool)
	var once sync.Once
	stop := func() { once.Do(func() { close(abort) }) }
	defer stop()

	type started struct {
		results chan *clamd.ScanResult
		err     error
	}
	startCh := make(chan started, 1)
	go func() {
		results, err := s.api.ScanStream(r, abort)
		startCh <- started{results: results, err: err}
	}()

	var results chan *clamd.ScanResult
	select {
	case <-ctx.Done():
		return Verdict{}, fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
	case st := <-startCh:
		if st.err != nil {
			return Verdict{}, fmt.Errorf("%w: %v", ErrUnavailable, st.err)
		}
		results = st.results
	}

	select {
	case <-ctx.Done():
		return Verdict{}, fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
	case res, ok := <-results:
		if !ok || res == nil {
			return Verdict{}, ErrNoResult
		}
		return verdictFrom(res)
	}
}

func verdictFrom(res *clamd.ScanResult) (Verdict, error) {
	switch res.Status {
	case clamd.RES_OK:
		return Verdict{Clean: true}, nil
	case clamd.RES_FOUND:
		threat := res.Description
		if threat == "" {
			threat = unknownThreat
		}
		return Verdict{Threat: threat}, nil
	default:
		return Verdict{}, fmt.Errorf("clamd returned %s: %s", res.Status, res.Description)
	}
}
