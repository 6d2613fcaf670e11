package capture

import (
	"sort"

	"github.com/hashicorp/go-hclog"
)

// hclogAdapter adapts an hclog.Logger to Logger.
type hclogAdapter struct {
	logger hclog.Logger
}

// NewHCLogger wraps an hclog.Logger. A nil logger yields a null logger.
func NewHCLogger(logger hclog.Logger) Logger {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	return &hclogAdapter{logger: logger}
}

func (l *hclogAdapter) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, toArgs(fields)...)
}

func (l *hclogAdapter) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, toArgs(fields)...)
}

func (l *hclogAdapter) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, toArgs(fields)...)
}

func (l *hclogAdapter) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, toArgs(fields)...)
}

// toArgs flattens fields into hclog key/value pairs in key order.
func toArgs(fields map[string]interface{}) []interface{} {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	args := make([]interface{}, 0, len(fields)*2)
	for _, key := range keys {
		args = append(args, key, fields[key])
	}

	return args
}
