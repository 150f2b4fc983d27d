package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

// stdin is swapped in tests.
var stdin io.Reader = os.Stdin

var stdinCliFlags = []cli.Flag{
	cli.BoolFlag{
		Name:  stdinFlag,
		Usage: "Read the key from stdin",
	},
	cli.UintFlag{
		Name:  maxAttemptsFlag,
		Usage: "How many times to wait for data on stdin",
		Value: defaultMaxAttempts,
	},
	cli.DurationFlag{
		Name:  timeoutFlag,
		Usage: "How long each attempt waits for data on stdin",
		Value: defaultTimeout,
	},
}

var errEmptyStdin = errors.New("no data on stdin")

// readStdin reads r to EOF, giving up after attempts waits of timeout each.
func readStdin(r io.Reader, attempts uint, timeout time.Duration, logger *zap.Logger) ([]byte, error) {
	type result struct {
		data []byte
		err  error
	}

	done := make(chan result, 1)
	go func() {
		data, err := io.ReadAll(r)
		done <- result{data: data, err: err}
	}()

	if attempts == 0 {
		attempts = 1
	}

	var data []byte
	err := retry.Do(func() error {
		select {
		case res := <-done:
			if res.err != nil {
				return retry.Unrecoverable(res.err)
			}
			if len(res.data) == 0 {
				return retry.Unrecoverable(errEmptyStdin)
			}
			data = res.data
			return nil
		case <-time.After(timeout):
			return fmt.Errorf("%w after %v", errEmptyStdin, timeout)
		}
	}, retry.Attempts(attempts), retry.Delay(100*time.Millisecond), retry.LastErrorOnly(true), retry.OnRetry(func(n uint, err error) {
		logger.Debug("waiting for data on stdin",
			zap.Uint("attempt", n+1),
			zap.Uint("max_attempts", attempts),
			zap.Error(err),
		)
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to read from stdin: %w", err)
	}

	return data, nil
}
