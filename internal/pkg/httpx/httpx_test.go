package httpx

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type statusErr int

func (e statusErr) Error() string       { return http.StatusText(int(e)) }
func (e statusErr) HTTPStatusCode() int { return int(e) }

func TestIsRetryableError(t *testing.T) {
	assert.False(t, IsRetryableError(nil))
	assert.False(t, IsRetryableError(context.Canceled))
	assert.False(t, IsRetryableError(statusErr(http.StatusInternalServerError)))
	assert.False(t, IsRetryableError(statusErr(http.StatusBadRequest)))
	assert.True(t, IsRetryableError(statusErr(http.StatusServiceUnavailable)))
	assert.True(t, IsRetryableError(statusErr(http.StatusTooManyRequests)))
}

func TestRetryStopsOnPermanentError(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 5, time.Millisecond, func() error {
		calls++
		return statusErr(http.StatusBadRequest)
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryRecovers(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return statusErr(http.StatusBadGateway)
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryGivesUp(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 2, time.Millisecond, func() error {
		calls++
		return statusErr(http.StatusServiceUnavailable)
	})
	var sc HTTPStatusCoder
	assert.True(t, errors.As(err, &sc))
	assert.Equal(t, 2, calls)
}

func TestRetryAfterDuration(t *testing.T) {
	resp := &http.Response{Header: http.Header{"Retry-After": []string{"7"}}}
	assert.Equal(t, 5*time.Second, RetryAfterDuration(resp, time.Second, 5*time.Second))
	assert.Equal(t, time.Second, RetryAfterDuration(nil, time.Second, 0))
}

func TestJitterSleepBounds(t *testing.T) {
	for i := 0; i < 50; i++ {
		d := JitterSleep(time.Second)
		assert.GreaterOrEqual(t, d, 800*time.Millisecond)
		assert.LessOrEqual(t, d, 1200*time.Millisecond)
	}
	assert.Zero(t, JitterSleep(0))
}
