package sms

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/glebfedorov911/wb-bidder-auth/internal/logger"
	"github.com/glebfedorov911/wb-bidder-auth/internal/pkg/apperror"
)

// Позиции в ответе шлюза: "OK - 1 SMS" либо "ERROR = N (описание)".
const (
	typeResponsePosition = 0
	codeErrorPosition    = 2

	responseOK    = "OK"
	responseError = "ERROR"
)

// Расшифровка кодов ошибок шлюза SMSC.
var errorCodes = map[string]string{
	"1": "ошибка в параметрах",
	"2": "неверный логин или пароль",
	"3": "недостаточно средств",
	"4": "IP временно заблокирован",
	"5": "неверный формат даты",
	"6": "сообщение запрещено",
	"7": "неверный формат номера",
	"8": "сообщение не может быть доставлено",
	"9": "слишком много запросов в минуту",
}

// Sender описывает узкий контракт отправки кода на телефон.
type Sender interface {
	Send(ctx context.Context, phone, code string) error
}

// Client отправляет SMS через шлюз SMSC.
type Client struct {
	baseURL    string
	login      string
	password   string
	httpClient *http.Client
}

// NewClient создаёт клиент шлюза с таймаутом на запрос.
func NewClient(baseURL, login, password string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:  baseURL,
		login:    login,
		password: password,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Send отправляет код подтверждения на телефон. Любой сбой шлюза,
// включая таймаут, переводится в SMS_GATEWAY_ERROR.
func (c *Client) Send(ctx context.Context, phone, code string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(phone, code), nil)
	if err != nil {
		return fmt.Errorf("sms: не удалось создать запрос: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return apperror.Wrap(err, apperror.ErrCodeSMSGateway, "таймаут запроса к SMS шлюзу")
		}
		return apperror.Wrap(err, apperror.ErrCodeSMSGateway, "не удалось отправить SMS")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apperror.Wrap(
			fmt.Errorf("sms: шлюз вернул статус %d", resp.StatusCode),
			apperror.ErrCodeSMSGateway, "не удалось отправить SMS",
		)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeSMSGateway, "не удалось прочитать ответ шлюза")
	}

	return c.checkStatusResponse(string(body), phone)
}

// buildURL собирает URL запроса к шлюзу.
func (c *Client) buildURL(phone, code string) string {
	params := url.Values{}
	params.Set("login", c.login)
	params.Set("psw", c.password)
	params.Set("phones", phone)
	params.Set("mes", fmt.Sprintf("Ваш код подтверждения: %s", code))
	return c.baseURL + "?" + params.Encode()
}

// checkStatusResponse разбирает текстовый ответ шлюза.
func (c *Client) checkStatusResponse(body, phone string) error {
	fields := strings.Fields(strings.TrimSpace(body))
	if len(fields) == 0 {
		return apperror.New(apperror.ErrCodeSMSGateway, "пустой ответ SMS шлюза")
	}

	switch fields[typeResponsePosition] {
	case responseOK:
		if logger.Log != nil {
			logger.Log.WithFields(logrus.Fields{"phone": phone}).Info("sms: код отправлен")
		}
		return nil
	case responseError:
		message := "неизвестная ошибка шлюза"
		if len(fields) > codeErrorPosition {
			if described, ok := errorCodes[strings.Trim(fields[codeErrorPosition], ",")]; ok {
				message = described
			}
		}
		return apperror.New(apperror.ErrCodeSMSGateway, message)
	default:
		return apperror.New(apperror.ErrCodeSMSGateway, "неизвестный формат ответа шлюза")
	}
}
