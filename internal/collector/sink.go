package collector

import "go.uber.org/zap"

// ErrorSink 接收源级别的失败记录；只用于观测，不影响聚合结果
type ErrorSink interface {
	Report(f *SourceFailure)
}

// SinkFunc 让普通函数满足 ErrorSink
type SinkFunc func(f *SourceFailure)

func (fn SinkFunc) Report(f *SourceFailure) { fn(f) }

// ZapSink 把失败写成一条结构化日志
type ZapSink struct {
	log *zap.Logger
}

func NewZapSink(l *zap.Logger) *ZapSink {
	if l == nil {
		l = zap.NewNop()
	}
	return &ZapSink{log: l}
}

func (s *ZapSink) Report(f *SourceFailure) {
	s.log.Error("source ingest failed",
		zap.String("source", f.SourceName),
		zap.String("source_id", f.SourceID),
		zap.String("message", f.Message),
		zap.String("cause", f.CauseText()),
	)
}

// MultiSink 依次转发给多个 sink
type MultiSink []ErrorSink

func (m MultiSink) Report(f *SourceFailure) {
	for _, s := range m {
		if s != nil {
			s.Report(f)
		}
	}
}
