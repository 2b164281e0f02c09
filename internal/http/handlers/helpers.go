package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/glebfedorov911/wb-bidder-auth/internal/dto"
	"github.com/glebfedorov911/wb-bidder-auth/internal/http/middleware"
	"github.com/glebfedorov911/wb-bidder-auth/internal/logger"
	"github.com/glebfedorov911/wb-bidder-auth/internal/pkg/apperror"
)

// respondError переводит ошибку сервисного слоя в HTTP ответ. Известные
// виды ошибок отдают свой статус и безопасное сообщение, всё остальное
// логируется целиком и маскируется под 500.
func respondError(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		if logger.Log != nil {
			logger.Log.WithFields(logrus.Fields{
				"code":   appErr.Code,
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
				"error":  appErr.Error(),
			}).Warn("request failed")
		}
		c.JSON(appErr.HTTPStatus, dto.ErrorResponse{Error: appErr.Message})
		return
	}

	if logger.Log != nil {
		logger.Log.WithFields(logrus.Fields{
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
			"error":  err.Error(),
		}).Error("unexpected request error")
	}
	c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "внутренняя ошибка сервера"})
}

// respondBindError отдаёт 400 на непрочитанное тело запроса.
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "некорректное тело запроса: " + err.Error()})
}

// currentUserID достаёт идентификатор пользователя, положенный в контекст
// AuthMiddleware.
func currentUserID(c *gin.Context) (uuid.UUID, error) {
	v, ok := c.Get(middleware.ContextUserIDKey)
	if !ok {
		return uuid.Nil, errors.New("нет идентификатора пользователя в контексте")
	}
	userID, ok := v.(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, errors.New("некорректный идентификатор пользователя в контексте")
	}
	return userID, nil
}
