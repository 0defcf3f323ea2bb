// Command mittvibes scaffolds mittwald extension projects. It authenticates
// the developer against the mittwald OAuth2 service, lets them pick an
// organization and extension context, downloads the project template and
// wires up the local configuration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/weissaufschwarz/mittvibes/internal/config"
	"github.com/weissaufschwarz/mittvibes/internal/logging"
)

// Version is injected at build time.
var Version = "dev"

func main() {
	logging.SetupBaseLogger()

	// A .env in the working directory may override endpoints during
	// development; a missing file is the normal case.
	if err := godotenv.Load(); err == nil {
		log.Debug("loaded environment overrides from .env")
	}

	// A termination signal cancels the context, which tears down any bound
	// callback listener before the process exits.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if dir, err := config.Dir(); err == nil {
		if errLog := logging.SetupFileLogging(dir); errLog != nil {
			log.Debugf("file logging disabled: %v", errLog)
		}
	}

	Execute(ctx)
}
