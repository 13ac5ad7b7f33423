package util

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

var GLOBAL_LOG_LEVEL = LogLevelInfo
var GLOBAL_LOG_CATEGORIES = LogVoxel | LogMesh | LogIO | LogSystem

var logOutput io.Writer = os.Stderr
var logMutex sync.Mutex

type LogLevel int

const (
	LogLevelError LogLevel = 1 << iota
	LogLevelWarning
	LogLevelInfo
	LogLevelDebug
)

type LogCategory int

const (
	LogVoxel LogCategory = 1 << iota
	LogMesh
	LogIO
	LogSystem
)

// SetLogOutput redirects all log lines, mostly for tests.
func SetLogOutput(w io.Writer) {
	logMutex.Lock()
	defer logMutex.Unlock()
	logOutput = w
}

// SetLogLevelByName accepts error, warning, info or debug.
func SetLogLevelByName(name string) error {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "error":
		GLOBAL_LOG_LEVEL = LogLevelError
	case "warning", "warn":
		GLOBAL_LOG_LEVEL = LogLevelWarning
	case "info", "":
		GLOBAL_LOG_LEVEL = LogLevelInfo
	case "debug":
		GLOBAL_LOG_LEVEL = LogLevelDebug
	default:
		return errors.Errorf("unknown log level %q", name)
	}
	return nil
}

func log(cat LogCategory, lvl LogLevel, txt string) {
	if lvl > GLOBAL_LOG_LEVEL {
		return
	}
	if GLOBAL_LOG_CATEGORIES&cat == 0 {
		return
	}
	logMutex.Lock()
	defer logMutex.Unlock()
	fmt.Fprintln(logOutput, txt)
}

func LogVoxelInfo(txt string) {
	log(LogVoxel, LogLevelInfo, txt)
}

func LogVoxelDebug(txt string) {
	log(LogVoxel, LogLevelDebug, txt)
}

func LogVoxelWarning(txt string) {
	log(LogVoxel, LogLevelWarning, txt)
}

func LogVoxelError(txt string) {
	log(LogVoxel, LogLevelError, txt)
}

func LogMeshInfo(txt string) {
	log(LogMesh, LogLevelInfo, txt)
}

func LogMeshDebug(txt string) {
	log(LogMesh, LogLevelDebug, txt)
}

func LogIOInfo(txt string) {
	log(LogIO, LogLevelInfo, txt)
}

func LogIOError(txt string) {
	log(LogIO, LogLevelError, txt)
}

func LogSystemInfo(txt string) {
	log(LogSystem, LogLevelInfo, txt)
}

func LogSystemWarning(txt string) {
	log(LogSystem, LogLevelWarning, txt)
}

func LogSystemError(txt string) {
	log(LogSystem, LogLevelError, txt)
}
