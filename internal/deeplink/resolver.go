// Package deeplink resolves an abstract notification subject into a concrete
// in-app destination for the viewer's role bucket. Resolution is pure table
// lookup; returning no path is a valid outcome meaning "do not navigate", and
// the caller renders the notification as non-navigable.
package deeplink

import "github.com/hoster-project/portal-sync/internal/core/domain"

// pathFunc builds a destination from the subject's entity id. A nil entry
// means the bucket gets no link for this rule.
type pathFunc func(entityID string) string

// rule enumerates, per role bucket, the destination a notification resolves
// to. A matched rule is exclusive: buckets it leaves nil get no link rather
// than the bucket default.
type rule struct {
	host     pathFunc
	provider pathFunc
	admin    pathFunc
}

func static(path string) pathFunc {
	return func(string) string { return path }
}

// entityRules key on the subject's entityType and take precedence over
// typeRules.
var entityRules = map[string]rule{
	"conversation": {
		host:  func(id string) string { return "/chat/" + id },
		admin: func(id string) string { return "/admin/conversations/" + id },
	},
	"cleaning-subscription": {
		// A cleaning-subscription notification opens the cleaning thread
		// for the host but the worklist entry for the provider.
		host:     func(id string) string { return "/chat/cleaning/" + id },
		provider: func(id string) string { return "/worklist/" + id },
		admin:    func(id string) string { return "/admin/subscriptions/" + id },
	},
	"booking": {
		host:     func(id string) string { return "/bookings/" + id },
		provider: func(id string) string { return "/jobs/" + id },
		admin:    func(id string) string { return "/admin/bookings/" + id },
	},
	"property": {
		host:  func(id string) string { return "/properties/" + id },
		admin: func(id string) string { return "/admin/properties/" + id },
	},
	"invoice": {
		host:     func(id string) string { return "/billing/invoices/" + id },
		provider: func(id string) string { return "/earnings/invoices/" + id },
		admin:    func(id string) string { return "/admin/invoices/" + id },
	},
}

// typeRules key on the notification's type string and apply only when no
// entity rule matched.
var typeRules = map[string]rule{
	"payout": {
		provider: static("/earnings"),
		admin:    static("/admin/payouts"),
	},
	"support-message": {
		host:     static("/support"),
		provider: static("/support"),
		admin:    static("/admin/support"),
	},
	"account-review": {
		provider: static("/account/verification"),
		admin:    static("/admin/reviews"),
	},
}

// bucket defaults when neither table matches. Unknown buckets get nothing.
var defaults = map[domain.RoleBucket]string{
	domain.BucketAdmin:    "/",
	domain.BucketProvider: "/",
	domain.BucketHost:     "/notifications",
}

// Resolve maps (subject, viewer bucket) to a destination path. The empty
// string means no destination.
func Resolve(subject domain.NotificationSubject, bucket domain.RoleBucket) string {
	if bucket == domain.BucketUnknown {
		return ""
	}

	if r, ok := entityRules[subject.EntityType]; ok {
		return r.resolve(subject.EntityID, bucket)
	}
	if r, ok := typeRules[subject.Type]; ok {
		return r.resolve(subject.EntityID, bucket)
	}
	return defaults[bucket]
}

func (r rule) resolve(entityID string, bucket domain.RoleBucket) string {
	var f pathFunc
	switch bucket {
	case domain.BucketHost:
		f = r.host
	case domain.BucketProvider:
		f = r.provider
	case domain.BucketAdmin:
		f = r.admin
	}
	if f == nil {
		return ""
	}
	return f(entityID)
}
