package inspector

import "github.com/standardbeagle/jsinspect/internal/debuglog"

var logger = debuglog.New("inspector")

func debugLog(format string, args ...interface{}) {
	logger.Printf(format, args...)
}
