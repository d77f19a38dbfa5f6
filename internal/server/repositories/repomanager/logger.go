package repomanager

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/plms/internal/logging"
)

// gooseLogger sends goose's progress lines to the application logger.
type gooseLogger struct {
	log logging.Logger
}

func (g *gooseLogger) Printf(format string, v ...any) {
	g.log.Info(context.Background(), strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Fatalf keeps goose's contract: the process ends after the message.
func (g *gooseLogger) Fatalf(format string, v ...any) {
	g.log.Error(context.Background(), strings.TrimSpace(fmt.Sprintf(format, v...)))
	os.Exit(1)
}

// SetMigrationLogger routes migration output through l. goose keeps a
// single package-level logger, so this affects every manager.
func SetMigrationLogger(l logging.Logger) {
	goose.SetLogger(&gooseLogger{log: l.With("module", "migrations")})
}
