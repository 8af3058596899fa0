// Package routing decides which administrators are responsible for an issue
// based on where it was reported. It performs no I/O: callers pass in a
// snapshot of the administrator roster.
package routing

import (
	"github.com/janakural/internal/models"
)

// Jurisdiction is the (district, panchayat union) pair an issue is routed on.
type Jurisdiction struct {
	DistrictID    string
	SubDistrictID string
}

// HasGeography reports whether routing can happen at all.
// Without a district neither assignment nor notification is attempted.
func (j Jurisdiction) HasGeography() bool {
	return j.DistrictID != ""
}

// Audience is the result of notification routing.
// Matched holds every responsible administrator; Deliverable is the subset
// that has a push token.
type Audience struct {
	Matched     []models.Administrator
	Deliverable []models.Administrator
}

// MatchedCount returns the number of responsible administrators.
func (a Audience) MatchedCount() int { return len(a.Matched) }

// DeliverableCount returns the number of administrators that can be pushed to.
func (a Audience) DeliverableCount() int { return len(a.Deliverable) }

// Tokens returns the push tokens of the deliverable administrators in roster order.
func (a Audience) Tokens() []string {
	tokens := make([]string, 0, len(a.Deliverable))
	for _, admin := range a.Deliverable {
		tokens = append(tokens, admin.DeviceToken)
	}
	return tokens
}

// matchesPanchayat is the exact (district, sub-district) match used for panchayat leaders.
// An empty sub-district only matches an empty assignment.
func matchesPanchayat(admin models.Administrator, j Jurisdiction) bool {
	return admin.Role == models.RolePanchayatLeader &&
		admin.AssignedArea.DistrictID == j.DistrictID &&
		admin.AssignedArea.SubDistrictID == j.SubDistrictID
}

func matchesDistrict(admin models.Administrator, j Jurisdiction) bool {
	return admin.Role == models.RoleDistrictLeader &&
		admin.AssignedArea.DistrictID == j.DistrictID
}

// isResponsible reports whether an active administrator should hear about an
// issue in j.
func isResponsible(admin models.Administrator, j Jurisdiction) bool {
	if !admin.IsActive {
		return false
	}
	return matchesPanchayat(admin, j) || matchesDistrict(admin, j) || admin.Role.IsStateWide()
}

// ResolveAudience computes who should be notified about an issue in j.
// Duplicate roster entries (same ID) are collapsed, keeping the first.
func ResolveAudience(j Jurisdiction, roster []models.Administrator) Audience {
	var audience Audience
	if !j.HasGeography() {
		return audience
	}

	seen := make(map[string]struct{}, len(roster))
	for _, admin := range roster {
		if !isResponsible(admin, j) {
			continue
		}
		if _, dup := seen[admin.ID]; dup {
			continue
		}
		seen[admin.ID] = struct{}{}

		audience.Matched = append(audience.Matched, admin)
		if admin.HasDeviceToken() {
			audience.Deliverable = append(audience.Deliverable, admin)
		}
	}
	return audience
}

// ResolveAssignee picks the most specific active administrator for an issue in j:
// a panchayat leader for the exact area, otherwise a district leader for the
// district. Within a tier the first administrator in roster order wins.
// Push tokens play no part in assignment.
func ResolveAssignee(j Jurisdiction, roster []models.Administrator) (models.Administrator, bool) {
	if !j.HasGeography() {
		return models.Administrator{}, false
	}

	var districtLeader *models.Administrator
	for i := range roster {
		admin := roster[i]
		if !admin.IsActive {
			continue
		}
		if matchesPanchayat(admin, j) {
			return admin, true
		}
		if districtLeader == nil && matchesDistrict(admin, j) {
			districtLeader = &roster[i]
		}
	}

	if districtLeader != nil {
		return *districtLeader, true
	}
	return models.Administrator{}, false
}
