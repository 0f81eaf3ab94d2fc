package logger

import "testing"

func TestLogUsableBeforeInit(t *testing.T) {
	if Log == nil {
		t.Fatal("Log must be non-nil before InitLogger runs")
	}
	// no-op 记录器上的调用不应 panic
	Log.Debug("debug before init")
	Log.Info("info before init")
}
