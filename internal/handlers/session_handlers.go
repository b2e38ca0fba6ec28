package handlers

import (
	"context"
	"net/http"

	"taskMaster/internal/logger"
	"taskMaster/internal/middleware"

	"go.uber.org/zap"
)

// SessionHandler связывает вход/выход пользователя с жизненным
// циклом монитора дедлайнов: пока сессии нет - тики не идут.
type SessionHandler struct {
	monitor MonitorControl
	baseCtx context.Context // живёт дольше любого запроса
}

func NewSessionHandler(monitor MonitorControl, baseCtx context.Context) SessionHandler {
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	return SessionHandler{
		monitor: monitor,
		baseCtx: baseCtx,
	}
}

func (s *SessionHandler) OpenSession(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	ownerId := middleware.GetOwnerID(r.Context())

	if err := s.monitor.Start(s.baseCtx, ownerId); err != nil {
		logger.Warn("HTTP: Монитор не запущен",
			zap.String("owner_id", ownerId),
			zap.Error(err))
		responseWithError(w, http.StatusConflict, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Сессия открыта, монитор запущен",
		zap.String("owner_id", ownerId),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, toPayload("status", "monitoring"))
}

func (s *SessionHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	s.monitor.Stop()

	logger.Info("HTTP_OUT: Сессия закрыта, монитор остановлен",
		zap.Int("http_status", http.StatusNoContent))

	w.WriteHeader(http.StatusNoContent)
}
