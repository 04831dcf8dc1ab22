package invalidate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hoster-project/portal-sync/internal/core/domain"
)

func TestKeysFor_GuestChatTouchesThreadAndInbox(t *testing.T) {
	keys := KeysFor(domain.Event{
		Kind:     domain.KindChat,
		Action:   domain.ChatMessage,
		ChatType: domain.ChatGuest,
		ID:       "42",
	})

	require.Equal(t, []domain.ResourceKey{
		{"/chat", "42"},
		{"/inbox"},
	}, keys)
}

func TestKeysFor_NotificationTouchesListAndDashboard(t *testing.T) {
	for _, action := range []string{
		domain.NotificationCreated,
		domain.NotificationRead,
		domain.NotificationDeleted,
		domain.NotificationCleared,
	} {
		keys := KeysFor(domain.Event{Kind: domain.KindNotification, Action: action})
		require.Equal(t, []domain.ResourceKey{
			{"/notifications"},
			{"/dashboard"},
		}, keys, "action %s", action)
	}
}

func TestKeysFor_ChatSubtypes(t *testing.T) {
	tests := []struct {
		chatType domain.ChatType
		id       string
		want     domain.ResourceKey
	}{
		{domain.ChatSupport, "7", domain.ResourceKey{"/support-chat", "7"}},
		{domain.ChatCleaning, "7", domain.ResourceKey{"/cleaning-chat", "7"}},
		{domain.ChatProvider, "7", domain.ResourceKey{"/provider-chat", "7"}},
		{domain.ChatProviderThread, "7", domain.ResourceKey{"/provider-chat", "7"}},
		{domain.ChatAdminConversation, "7", domain.ResourceKey{"/admin/conversations", "7"}},
		{domain.ChatGuest, "", domain.ResourceKey{"/chat"}},
	}

	for _, tt := range tests {
		keys := KeysFor(domain.Event{
			Kind:     domain.KindChat,
			Action:   domain.ChatMessage,
			ChatType: tt.chatType,
			ID:       tt.id,
		})
		require.Len(t, keys, 2, "chat type %s", tt.chatType)
		require.Equal(t, tt.want, keys[0], "chat type %s", tt.chatType)
		require.Equal(t, domain.ResourceKey{"/inbox"}, keys[1])
	}
}
