// Package dump persists raw responses that could not be parsed so that
// upstream markup changes can be investigated after the fact.
package dump

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultDir is where dumps are written when no directory is configured.
const DefaultDir = "dumps"

// DefaultSupportRef is printed in the operator notice.
const DefaultSupportRef = "the project's issue tracker"

// Sink writes each dump to its own file and prints a notice.
type Sink struct {
	dir     string
	support string
	out     io.Writer
	logger  zerolog.Logger
	now     func() time.Time
}

// Option configures a Sink.
type Option func(*Sink)

// WithLogger sets the logger that records written and failed dumps.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Sink) {
		s.logger = logger
	}
}

// WithOutput sets where the operator notice is printed. Default is stderr.
func WithOutput(w io.Writer) Option {
	return func(s *Sink) {
		s.out = w
	}
}

// WithSupportRef sets the support reference named in the notice.
func WithSupportRef(ref string) Option {
	return func(s *Sink) {
		if ref != "" {
			s.support = ref
		}
	}
}

// New creates a sink writing into dir. An empty dir means DefaultDir.
func New(dir string, opts ...Option) *Sink {
	if dir == "" {
		dir = DefaultDir
	}
	s := &Sink{
		dir:     dir,
		support: DefaultSupportRef,
		out:     os.Stderr,
		logger:  zerolog.Nop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the directory dumps are written to.
func (s *Sink) Dir() string {
	return s.dir
}

// Write stores body in a new file named <uuid>-<unix millis>.txt, creating
// the directory if needed, and returns the file path.
func (s *Sink) Write(body string) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create dump dir: %w", err)
	}
	name := fmt.Sprintf("%s-%d.txt", uuid.NewString(), s.now().UnixMilli())
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return "", fmt.Errorf("write dump: %w", err)
	}
	return path, nil
}

// Dump writes body and prints the operator notice. Failures are logged and
// otherwise ignored.
func (s *Sink) Dump(body string) {
	path, err := s.Write(body)
	if err != nil {
		s.logger.Error().Err(err).Str("dir", s.dir).Msg("failed to write dump")
		return
	}
	s.logger.Warn().Str("file", path).Int("bytes", len(body)).Msg("unsupported playlist response dumped")

	dir := s.dir
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	stars := strings.Repeat("*", 200)
	fmt.Fprintf(s.out, "\n/%s\n", stars)
	fmt.Fprintln(s.out, "Unsupported YouTube Playlist response.")
	fmt.Fprintf(s.out, "Please post the files in %s to %s. Thanks!\n", dir, s.support)
	fmt.Fprintf(s.out, "%s\\\n", stars)
}
