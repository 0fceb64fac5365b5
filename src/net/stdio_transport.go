package net

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

const (
	// maxLineSize bounds a single encoded envelope. Read replies of large
	// clusters can get big, so this is well above bufio's default.
	maxLineSize = 16 << 20

	defaultConsumerSize = 1024
)

// StdioTransport implements the Transport interface over a line-delimited
// byte stream: every line of the reader is one JSON envelope, and every sent
// envelope is written as one line. A node reads os.Stdin and writes
// os.Stdout.
type StdioTransport struct {
	logger *logrus.Entry
	codec  *Codec

	r io.Reader

	writeLock sync.Mutex
	w         *bufio.Writer

	consumeCh chan Envelope
	errCh     chan error

	listenOnce sync.Once

	shutdown     bool
	shutdownCh   chan struct{}
	shutdownLock sync.Mutex
}

// NewStdioTransport creates a transport reading envelopes from r and writing
// them to w. consumerSize is the capacity of the inbound channel.
func NewStdioTransport(
	r io.Reader,
	w io.Writer,
	consumerSize int,
	logger *logrus.Entry,
) *StdioTransport {

	if logger == nil {
		log := logrus.New()
		log.Level = logrus.DebugLevel
		logger = logrus.NewEntry(log)
	}

	if consumerSize <= 0 {
		consumerSize = defaultConsumerSize
	}

	return &StdioTransport{
		logger:     logger.WithField("prefix", "stdio"),
		codec:      NewCodec(),
		r:          r,
		w:          bufio.NewWriter(w),
		consumeCh:  make(chan Envelope, consumerSize),
		errCh:      make(chan error, 1),
		shutdownCh: make(chan struct{}),
	}
}

// Listen starts reading the input stream in a background goroutine. Calling
// it more than once has no further effect.
func (t *StdioTransport) Listen() {
	t.listenOnce.Do(func() {
		go t.listen()
	})
}

// Consumer implements the Transport interface.
func (t *StdioTransport) Consumer() <-chan Envelope {
	return t.consumeCh
}

// Errors implements the Transport interface.
func (t *StdioTransport) Errors() <-chan error {
	return t.errCh
}

func (t *StdioTransport) listen() {
	scanner := bufio.NewScanner(t.r)
	scanner.Buffer(make([]byte, 0, 64<<10), maxLineSize)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		env, err := t.codec.Decode(line)
		if err != nil {
			t.logger.WithError(err).WithField("line", string(line)).Error("Decoding input")
			t.fail(err)
			return
		}

		t.logger.WithFields(logrus.Fields{
			"src":  env.Src,
			"type": env.Type(),
		}).Debug("input")

		select {
		case t.consumeCh <- env:
		case <-t.shutdownCh:
			return
		}
	}

	if err := scanner.Err(); err != nil {
		t.fail(fmt.Errorf("reading input: %w", err))
		return
	}

	t.logger.Debug("input stream finished")
	t.fail(io.EOF)
}

// fail reports err once on the error channel.
func (t *StdioTransport) fail(err error) {
	select {
	case t.errCh <- err:
	default:
	}
}

// Send implements the Transport interface. Envelopes are written and flushed
// one line at a time, so concurrent senders never interleave.
func (t *StdioTransport) Send(env Envelope) error {
	b, err := t.codec.Encode(env)
	if err != nil {
		return err
	}

	t.writeLock.Lock()
	defer t.writeLock.Unlock()

	if t.isShutdown() {
		return ErrTransportShutdown
	}

	t.logger.WithFields(logrus.Fields{
		"dest": env.Dest,
		"type": env.Type(),
	}).Debug("output")

	if _, err := t.w.Write(append(b, '\n')); err != nil {
		err = fmt.Errorf("writing output: %w", err)
		t.fail(err)
		return err
	}
	if err := t.w.Flush(); err != nil {
		err = fmt.Errorf("flushing output: %w", err)
		t.fail(err)
		return err
	}

	return nil
}

func (t *StdioTransport) isShutdown() bool {
	t.shutdownLock.Lock()
	defer t.shutdownLock.Unlock()
	return t.shutdown
}

// Close is used to stop the transport. Sends fail afterwards; the reader
// goroutine stops at its next delivery attempt.
func (t *StdioTransport) Close() error {
	t.shutdownLock.Lock()
	defer t.shutdownLock.Unlock()

	if !t.shutdown {
		close(t.shutdownCh)
		t.shutdown = true
	}
	return nil
}
