package users_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shht-tools/tradedesk/internal/admin/users"
	"github.com/shht-tools/tradedesk/internal/apiclient"
	"github.com/shht-tools/tradedesk/internal/listfetch"
	_ "github.com/shht-tools/tradedesk/testing"
)

func newUsersService(t *testing.T) (*users.Service, *[]string) {
	t.Helper()
	paths := &[]string{}
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*paths = append(*paths, r.Method+" "+r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{"code": 200, "success": true})
	}))
	t.Cleanup(upstream.Close)
	client := apiclient.NewClient(upstream.URL, time.Second, nil, nil)
	return users.NewService(client, listfetch.NewRegistry(), nil), paths
}

func TestToggleColumns(t *testing.T) {
	service, paths := newUsersService(t)
	ctx := context.Background()

	require.True(t, service.Toggle(ctx, users.ToggleStatus, 5).OK())
	require.True(t, service.Toggle(ctx, users.ToggleEmail, 5).OK())
	require.True(t, service.Toggle(ctx, users.ToggleWhatsapp, 5).OK())

	assert.Equal(t, []string{
		"POST /users/change_status/5",
		"POST /users/email_status/5",
		"POST /users/whatsapp_status/5",
	}, *paths)
}

func TestExportPath(t *testing.T) {
	service, paths := newUsersService(t)

	env := service.Export(context.Background(), users.ListRequest{Role: "staff"})
	require.True(t, env.OK())
	assert.Equal(t, []string{"POST /users/export"}, *paths)
}

func TestChangePasswordPath(t *testing.T) {
	service, paths := newUsersService(t)

	env := service.ChangePassword(context.Background(), users.ChangePasswordRequest{
		OldPassword:     "old-secret",
		NewPassword:     "new-secret",
		ConfirmPassword: "new-secret",
	})
	require.True(t, env.OK())
	assert.Equal(t, []string{"POST /users/change_password"}, *paths)
}
