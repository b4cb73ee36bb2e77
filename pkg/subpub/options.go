package subpub

import "github.com/sirupsen/logrus"

type options struct {
	logger  logrus.FieldLogger
	onFault FaultHandler
}

func defaultOptions() options {
	return options{
		logger: logrus.StandardLogger().WithField("_module", "subpub"),
	}
}

// Option настраивает Registry.
type Option func(*options)

// WithLogger задаёт логгер для ошибок подписчиков. По умолчанию —
// стандартный логгер logrus (пишет в stderr).
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithFaultHandler — fn вызывается на каждую ошибку подписчика.
func WithFaultHandler(fn FaultHandler) Option {
	return func(o *options) {
		o.onFault = fn
	}
}
