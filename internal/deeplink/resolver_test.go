package deeplink

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hoster-project/portal-sync/internal/core/domain"
)

func TestResolve_EntityRules(t *testing.T) {
	tests := []struct {
		name    string
		subject domain.NotificationSubject
		bucket  domain.RoleBucket
		want    string
	}{
		{
			name:    "conversation links host to chat thread",
			subject: domain.NotificationSubject{Type: "x", EntityType: "conversation", EntityID: "42"},
			bucket:  domain.BucketHost,
			want:    "/chat/42",
		},
		{
			name:    "conversation gives provider no link, not the default",
			subject: domain.NotificationSubject{Type: "x", EntityType: "conversation", EntityID: "42"},
			bucket:  domain.BucketProvider,
			want:    "",
		},
		{
			name:    "conversation links admin to the admin view",
			subject: domain.NotificationSubject{Type: "x", EntityType: "conversation", EntityID: "42"},
			bucket:  domain.BucketAdmin,
			want:    "/admin/conversations/42",
		},
		{
			name:    "cleaning subscription differs per bucket for host",
			subject: domain.NotificationSubject{EntityType: "cleaning-subscription", EntityID: "7"},
			bucket:  domain.BucketHost,
			want:    "/chat/cleaning/7",
		},
		{
			name:    "cleaning subscription differs per bucket for provider",
			subject: domain.NotificationSubject{EntityType: "cleaning-subscription", EntityID: "7"},
			bucket:  domain.BucketProvider,
			want:    "/worklist/7",
		},
		{
			name:    "booking resolves for provider",
			subject: domain.NotificationSubject{EntityType: "booking", EntityID: "b1"},
			bucket:  domain.BucketProvider,
			want:    "/jobs/b1",
		},
		{
			name:    "entity rule outranks type rule",
			subject: domain.NotificationSubject{Type: "payout", EntityType: "invoice", EntityID: "i9"},
			bucket:  domain.BucketProvider,
			want:    "/earnings/invoices/i9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Resolve(tt.subject, tt.bucket))
		})
	}
}

func TestResolve_TypeRuleFallback(t *testing.T) {
	subject := domain.NotificationSubject{Type: "payout"}

	require.Equal(t, "/earnings", Resolve(subject, domain.BucketProvider))
	require.Equal(t, "/admin/payouts", Resolve(subject, domain.BucketAdmin))
	// Hosts are not enumerated by the payout rule.
	require.Equal(t, "", Resolve(subject, domain.BucketHost))
}

func TestResolve_BucketDefaults(t *testing.T) {
	subject := domain.NotificationSubject{Type: "something-new", EntityType: "unmapped"}

	require.Equal(t, "/notifications", Resolve(subject, domain.BucketHost))
	require.Equal(t, "/", Resolve(subject, domain.BucketProvider))
	require.Equal(t, "/", Resolve(subject, domain.BucketAdmin))
}

func TestResolve_UnknownBucketNeverNavigates(t *testing.T) {
	subjects := []domain.NotificationSubject{
		{EntityType: "conversation", EntityID: "42"},
		{Type: "payout"},
		{Type: "unmapped"},
	}
	for _, subject := range subjects {
		require.Equal(t, "", Resolve(subject, domain.BucketUnknown))
	}
}

func TestResolve_RoleBucketDerivation(t *testing.T) {
	require.Equal(t, domain.BucketAdmin, domain.RoleModerator.Bucket())
	require.Equal(t, domain.BucketProvider, domain.RoleEmployee.Bucket())
	require.Equal(t, domain.BucketHost, domain.RoleHost.Bucket())
	require.Equal(t, domain.BucketUnknown, domain.Role("intern").Bucket())
}
