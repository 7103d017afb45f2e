package shared

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SyncShire/E-Commerce/internal/http/response"
	"github.com/SyncShire/E-Commerce/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	StatusCode int    `json:"status_code"`
	Msg        string `json:"msg"`
}

func respondWith(t *testing.T, err error, locale string) envelope {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/orders/ORD1/payment", nil)
	if locale != "" {
		c.Request.Header.Set("Accept-Language", locale)
	}
	RespondServiceError(c, err, "error.internal")

	require.Equal(t, http.StatusOK, w.Code)
	var body envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRespondServiceErrorPaymentCapturedNotRecorded(t *testing.T) {
	err := &service.PaymentRecordError{PaymentRef: "pi_3Pq9", Err: errors.New("database is locked")}

	body := respondWith(t, err, "")
	assert.Equal(t, response.CodePaymentCapturedNotRecorded, body.StatusCode)
	assert.Contains(t, body.Msg, "pi_3Pq9")
	assert.NotContains(t, body.Msg, "database is locked")

	body = respondWith(t, err, "zh-CN")
	assert.Equal(t, 1003, body.StatusCode)
	assert.Contains(t, body.Msg, "pi_3Pq9")
}

func TestRespondServiceErrorRecordErrorWinsOverStatusRule(t *testing.T) {
	err := &service.PaymentRecordError{PaymentRef: "pi_late", Err: service.ErrOrderStatusInvalid}
	require.ErrorIs(t, err, service.ErrOrderStatusInvalid)

	body := respondWith(t, err, "en")
	assert.Equal(t, response.CodePaymentCapturedNotRecorded, body.StatusCode)
	assert.Contains(t, body.Msg, "pi_late")
}

func TestRespondServiceErrorRules(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{name: "declined", err: &service.PaymentDeclinedError{Description: "Card declined"}, code: response.CodePaymentFailed},
		{name: "dismissed", err: service.ErrPaymentCancelled, code: response.CodePaymentCancelled},
		{name: "status", err: service.ErrOrderStatusInvalid, code: response.CodeConflict},
		{name: "not_found", err: service.ErrOrderNotFound, code: response.CodeNotFound},
		{name: "unknown", err: errors.New("boom"), code: response.CodeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.code, respondWith(t, tc.err, "en").StatusCode)
		})
	}
}
