// Package env loads a local .env file into the process environment before
// configuration is read.
package env

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"

	"tourism/internal/logging"
)

// LoadEnv loads the given files, defaulting to ./.env. A missing file is not
// an error; the environment may already be set directly.
func LoadEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logging.Debug().Msg("no .env file found, using process environment")
			return
		}
		logging.Warn().Err(err).Msg("failed to load .env file")
	}
}
