package machine

import "github.com/golang/glog"

// Logger 打印调试信息
func Logger(format string, args ...interface{}) {
	glog.Infof(format, args...)
}

func Warning(format string, args ...interface{}) {
	glog.Warningf(format, args...)
}

// Trace only logs at -v=2 and above.
func Trace(format string, args ...interface{}) {
	if glog.V(2) {
		glog.Infof(format, args...)
	}
}
