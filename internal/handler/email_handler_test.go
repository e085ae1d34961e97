package handler_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"evenza/internal/handler"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(to []string, cc string, subject string, body string) error {
	args := m.Called(to, cc, subject, body)
	return args.Error(0)
}

func setupEmailRouter(sender *MockSender) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler.NewEmailHandler(sender).RegisterRoutes(r)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestEmailHandler_Join(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		sender := new(MockSender)
		sender.On("Send",
			[]string{"alice@example.com"}, "organizer@example.com",
			"You're joining Rooftop Jazz Night!",
			mock.MatchedBy(func(body string) bool {
				return strings.Contains(body, "You're all set for Rooftop Jazz Night.")
			})).Return(nil)

		w := postJSON(setupEmailRouter(sender), "/email/join", `{
			"recipientEmail": "alice@example.com",
			"eventTitle": "Rooftop Jazz Night",
			"eventDate": "Thursday, September 10",
			"organizerEmail": "organizer@example.com"
		}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"ok":true`)
		sender.AssertExpectations(t)
	})

	t.Run("Failed - missing fields", func(t *testing.T) {
		sender := new(MockSender)

		w := postJSON(setupEmailRouter(sender), "/email/join", `{"recipientEmail": "alice@example.com"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Missing required fields: recipientEmail and eventTitle.")
		sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failed - sender error", func(t *testing.T) {
		sender := new(MockSender)
		sender.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(errors.New("smtp is not configured"))

		w := postJSON(setupEmailRouter(sender), "/email/join", `{
			"recipientEmail": "alice@example.com",
			"eventTitle": "Rooftop Jazz Night"
		}`)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "Failed to send email.")
	})
}

func TestEmailHandler_Cancellation(t *testing.T) {
	t.Run("Success - all participants on one send", func(t *testing.T) {
		sender := new(MockSender)
		sender.On("Send",
			[]string{"alice@example.com", "bob@example.com"}, "",
			"Rooftop Jazz Night has been canceled",
			mock.Anything).Return(nil)

		w := postJSON(setupEmailRouter(sender), "/email/cancellation", `{
			"recipients": ["alice@example.com", "bob@example.com"],
			"eventTitle": "Rooftop Jazz Night"
		}`)

		assert.Equal(t, http.StatusOK, w.Code)
		sender.AssertExpectations(t)
	})

	t.Run("Failed - empty recipients", func(t *testing.T) {
		sender := new(MockSender)

		w := postJSON(setupEmailRouter(sender), "/email/cancellation", `{
			"recipients": [],
			"eventTitle": "Rooftop Jazz Night"
		}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestEmailHandler_Verification(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		sender := new(MockSender)
		sender.On("Send",
			[]string{"alice@example.com"}, "",
			"Your Evenza verification code",
			mock.MatchedBy(func(body string) bool {
				return strings.Contains(body, "123456")
			})).Return(nil)

		w := postJSON(setupEmailRouter(sender), "/email/verification", `{
			"recipientEmail": "alice@example.com",
			"code": "123456"
		}`)

		assert.Equal(t, http.StatusOK, w.Code)
		sender.AssertExpectations(t)
	})

	t.Run("Failed - missing code", func(t *testing.T) {
		sender := new(MockSender)

		w := postJSON(setupEmailRouter(sender), "/email/verification", `{"recipientEmail": "alice@example.com"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
