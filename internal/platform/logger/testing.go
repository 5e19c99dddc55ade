package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
)

var (
	testOnce   sync.Once
	testLogger *Logger
)

// ForTest returns the process-wide test logger, building it on first use.
// Output goes to stdout when TEST_LOG is set and is discarded otherwise.
func ForTest() *Logger {
	testOnce.Do(func() {
		if _, ok := os.LookupEnv("TEST_LOG"); !ok {
			testLogger = NewNop()
			return
		}
		zl, err := zap.NewDevelopment()
		if err != nil {
			testLogger = NewNop()
			return
		}
		testLogger = &Logger{SugaredLogger: zl.Sugar()}
	})
	return testLogger
}
