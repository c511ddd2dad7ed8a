package larder

import (
	"fmt"
	"os"
	"runtime"

	"github.com/davecgh/go-spew/spew"
)

// Dump pretty-prints values with their call site. No-op unless LARDER_DEBUG is set.
func Dump(v ...any) {
	if os.Getenv("LARDER_DEBUG") == "" {
		return
	}
	_, file, line, _ := runtime.Caller(1)
	args := append([]any{fmt.Sprintf("%s:%d:", file, line)}, v...)
	spew.Dump(args...)
}
