package query

import "github.com/jonesrussell/pulse-analytics/internal/domain"

// GeoBox is a fixed latitude/longitude rectangle.
type GeoBox struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// TenantOverride describes per-topic compilation overrides. These are data,
// not logic: the compiler applies every descriptor uniformly.
type TenantOverride struct {
	// SourceWhitelist replaces the generic all-sources default. A caller
	// supplied source list still wins over this.
	SourceWhitelist []string
	// GeoBox adds a bounding-box restriction to every compiled query.
	GeoBox *GeoBox
	// RequirePublicOpinion restricts results to public-opinion flagged posts.
	RequirePublicOpinion bool
}

// tenantOverrides maps topic ids to their compilation overrides.
var tenantOverrides = map[int64]TenantOverride{
	// Regional monitoring tenant: three-network subset plus an Abu Dhabi
	// bounding box.
	2641: {
		SourceWhitelist: []string{domain.SourceFacebook, domain.SourceTwitter, domain.SourceInstagram},
		GeoBox:          &GeoBox{MinLat: 24.2, MaxLat: 24.8, MinLon: 54.1, MaxLon: 54.8},
	},
	// Employer-brand tenant: professional network only.
	2473: {
		SourceWhitelist: []string{domain.SourceLinkedIn},
	},
	// Campaign tenant: same three-network subset, no geo restriction.
	2388: {
		SourceWhitelist: []string{domain.SourceFacebook, domain.SourceTwitter, domain.SourceInstagram},
	},
	// Public-sector tenant: only posts flagged as public opinion.
	2564: {
		RequirePublicOpinion: true,
	},
}

// OverrideForTopic returns the tenant override for a topic id, if any.
func OverrideForTopic(topicID int64) (TenantOverride, bool) {
	o, ok := tenantOverrides[topicID]
	return o, ok
}
