package auth

import (
	"maps"
	"slices"

	"github.com/tourmarket/tourmarket/internal/db/models"
)

// Operation domains.
const (
	DomainVehicle         = "vehicle"
	DomainDriver          = "driver"
	DomainCompany         = "company"
	DomainTourPackage     = "tour_package"
	DomainItinerary       = "itinerary"
	DomainPackageBid      = "package_bid"
	DomainBiddingProposal = "bidding_proposal"
	DomainPermission      = "permission"
	DomainUserPermission  = "user_permission"
	DomainAddress         = "address"
)

// Policy maps an operation domain to the role names allowed in it.
// A domain without an entry, or with an empty list, has no role gate.
type Policy map[string][]string

// DefaultPolicy returns the built-in allowed-role lists.
func DefaultPolicy() Policy {
	return Policy{
		DomainVehicle:         {models.RoleTravelAdmin, models.RoleTravelSubAdmin},
		DomainDriver:          {models.RoleTravelAdmin, models.RoleTravelSubAdmin},
		DomainCompany:         {models.RoleTravelAdmin, models.RolePackageAdmin},
		DomainTourPackage:     {models.RolePackageAdmin, models.RolePackageSubAdmin},
		DomainItinerary:       {models.RolePackageAdmin, models.RolePackageSubAdmin},
		DomainPackageBid:      {models.RolePackageAdmin, models.RolePackageSubAdmin},
		DomainBiddingProposal: {models.RoleTravelAdmin, models.RolePackageAdmin},
	}
}

// Merge returns a copy of p with the domains of overrides replaced.
func (p Policy) Merge(overrides map[string][]string) Policy {
	out := maps.Clone(p)
	if out == nil {
		out = Policy{}
	}

	for domain, roles := range overrides {
		out[domain] = slices.Clone(roles)
	}

	return out
}

// Allows reports whether role passes the role gate of domain.
func (p Policy) Allows(domain, role string) bool {
	roles := p[domain]

	return len(roles) == 0 || slices.Contains(roles, role)
}
