package notifier

import (
	"taskMaster/internal/logger"

	"go.uber.org/zap"
)

// LogNotifier пишет оповещения в лог. Реальная доставка
// (пуш, звук) живёт вне ядра и подключается тем же интерфейсом.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Notify(title, body, tag string) error {
	logger.Info("Notifier: Оповещение",
		zap.String("title", title),
		zap.String("body", body),
		zap.String("tag", tag))
	return nil
}
