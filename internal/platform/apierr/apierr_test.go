package apierr

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	errs "github.com/yungbote/directchat-backend/internal/pkg/errors"
)

func TestFromError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{errs.Validation("op", "bad"), http.StatusBadRequest, "invalid_request"},
		{errs.UserNotFound("op", "ghost"), http.StatusInternalServerError, "user_not_found"},
		{errs.ChatNotFound("op", uuid.New()), http.StatusInternalServerError, "chat_not_found"},
		{errs.Persistence("op", fmt.Errorf("disk")), http.StatusInternalServerError, "persistence_failure"},
		{errs.Unauthorized("op", "nope"), http.StatusUnauthorized, "unauthorized"},
		{fmt.Errorf("boom"), http.StatusInternalServerError, "internal"},
		{New(http.StatusConflict, "conflict", nil), http.StatusConflict, "conflict"},
	}
	for _, tc := range cases {
		got := FromError(tc.err)
		require.Equal(t, tc.status, got.Status, tc.err.Error())
		require.Equal(t, tc.code, got.Code, tc.err.Error())
	}
	require.Nil(t, FromError(nil))
}
