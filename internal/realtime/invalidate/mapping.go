package invalidate

import "github.com/hoster-project/portal-sync/internal/core/domain"

// KeysFor maps a realtime event onto the cache resource keys it invalidates.
// The table is fixed: chat events touch their conversation surface plus the
// shared inbox, and every notification event touches the notification list and
// the dashboard counters.
func KeysFor(ev domain.Event) []domain.ResourceKey {
	switch ev.Kind {
	case domain.KindNotification:
		return []domain.ResourceKey{
			{"/notifications"},
			{"/dashboard"},
		}

	case domain.KindChat:
		keys := []domain.ResourceKey{chatKey(ev)}
		return append(keys, domain.ResourceKey{"/inbox"})

	default:
		return nil
	}
}

func chatKey(ev domain.Event) domain.ResourceKey {
	var base string
	switch ev.ChatType {
	case domain.ChatGuest:
		base = "/chat"
	case domain.ChatSupport:
		base = "/support-chat"
	case domain.ChatCleaning:
		base = "/cleaning-chat"
	case domain.ChatProvider, domain.ChatProviderThread:
		base = "/provider-chat"
	case domain.ChatAdminConversation:
		base = "/admin/conversations"
	default:
		base = "/chat"
	}

	if ev.ID == "" {
		return domain.ResourceKey{base}
	}
	return domain.ResourceKey{base, ev.ID}
}
