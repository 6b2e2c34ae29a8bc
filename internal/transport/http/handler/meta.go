package handler

import (
	"net/http"

	"github.com/aqarmatch/api/internal/domain"
)

// Enums lists every enum vocabulary the API accepts, for client
// dropdowns. Static data, safe to cache.
func Enums(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{
		"property_types": {domain.PropertyLand, domain.PropertyProject, domain.PropertyPlan},
		"usages": {
			domain.UsageResidential, domain.UsageCommercial, domain.UsageAdministrative,
			domain.UsageIndustrial, domain.UsageAgricultural,
		},
		"land_statuses": {domain.LandRaw, domain.LandDeveloped},
		"exclusivities": {domain.Exclusive, domain.NonExclusive},
		"priorities":    {domain.PriorityHigh, domain.PriorityMedium, domain.PriorityLow},
		"match_statuses": {
			domain.MatchNew, domain.MatchContacted, domain.MatchNegotiation,
			domain.MatchClosed, domain.MatchRejected,
		},
		"notification_statuses": {
			domain.NotificationUnread, domain.NotificationRead, domain.NotificationArchived,
		},
		"roles":        {domain.RoleAdmin, domain.RoleManager, domain.RoleBroker},
		"link_actions": {domain.LinkActionOffer, domain.LinkActionRequest},
	})
}
