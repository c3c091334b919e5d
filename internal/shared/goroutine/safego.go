// Package goroutine launches background goroutines that log instead of
// crashing the process when they panic.
package goroutine

import (
	"fmt"
	"runtime/debug"

	"github.com/videocc/videocc/internal/shared/logger"
)

// SafeGo runs fn in a new goroutine and reports a panic through log.
func SafeGo(log logger.Interface, name string, fn func()) {
	go Run(log, name, fn)
}

// Run calls fn on the current goroutine with the same recovery as SafeGo.
func Run(log logger.Interface, name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorw("goroutine panicked",
				"goroutine", name,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
		}
	}()
	fn()
}
