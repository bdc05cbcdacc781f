package notifyimpl

import (
	"fmt"
	"io"
	"os"

	"github.com/minhanh2104/snapfeed-cli/internal/notify"
	"github.com/minhanh2104/snapfeed-cli/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Logger logger.Logger
}

// TerminalImpl prints notices to the terminal, one line each.
type TerminalImpl struct {
	out    io.Writer
	logger logger.Logger
}

func New(opts Opts) *TerminalImpl {
	return &TerminalImpl{
		out:    os.Stdout,
		logger: opts.Logger.WithComponent("Notifier"),
	}
}

var _ notify.Notifier = (*TerminalImpl)(nil)

func (t *TerminalImpl) Success(msg string) { t.notice("ok", msg) }
func (t *TerminalImpl) Warning(msg string) { t.notice("warn", msg) }
func (t *TerminalImpl) Error(msg string)   { t.notice("error", msg) }

func (t *TerminalImpl) notice(kind, msg string) {
	t.logger.Debug("User notice", "kind", kind, "message", msg)
	fmt.Fprintf(t.out, "[%s] %s\n", kind, msg)
}
