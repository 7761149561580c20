package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Recorder persists per-stage markdown reports under
// <resultsDir>/<symbol>/<date>/. Writes are best-effort: a failed report
// file never fails the run.
type Recorder struct {
	resultsDir string
	log        zerolog.Logger
}

func NewRecorder(resultsDir string, logger zerolog.Logger) *Recorder {
	return &Recorder{
		resultsDir: resultsDir,
		log:        logger.With().Str("component", "recorder").Logger(),
	}
}

// Record writes one report file for the run, logging failures instead of
// returning them.
func (r *Recorder) Record(symbol, date, name, content string) {
	dir := filepath.Join(r.resultsDir, symbol, date)
	if err := os.MkdirAll(dir, 0755); err != nil {
		r.log.Warn().Err(err).Str("dir", dir).Msg("failed to create results directory")
		return
	}

	path := filepath.Join(dir, fmt.Sprintf("%s.md", name))
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		r.log.Warn().Err(err).Str("path", path).Msg("failed to write report")
	}
}
