package notification

import (
	"context"

	"crewops-backend/internal/directory"
	"crewops-backend/internal/model"
)

// ApplyRoutingRules merges the configured override rules for one event
// into the audience the business rule computed. With no rules the set
// stands unmodified. Rules are exclusive by default: unless one of
// them is of type natural or carries includeNaturalRecipients, the
// natural subset is stripped first and only the overrides (plus the
// guaranteed recipients) remain. Application is commutative and
// idempotent; running the same rule set twice yields the same set.
func ApplyRoutingRules(ctx context.Context, dir *directory.Directory, rules []model.RoutingRule, set *RecipientSet, jobID string) {
	if len(rules) == 0 {
		return
	}

	keepNatural := false
	for _, rule := range rules {
		if rule.RecipientType == model.RecipientTypeNatural || rule.IncludeNaturalRecipients {
			keepNatural = true
			break
		}
	}
	if !keepNatural {
		set.StripNatural()
	}

	// Department audiences are cached for the duration of this
	// dispatch so several rules targeting the same department cost one
	// directory query.
	deptCache := make(map[string][]string)
	resolveDept := func(dept string) []string {
		if ids, ok := deptCache[dept]; ok {
			return ids
		}
		ids := dir.UsersInDepartment(ctx, dept, directory.ExcludeAll)
		deptCache[dept] = ids
		return ids
	}

	for _, rule := range rules {
		switch rule.RecipientType {
		case model.RecipientTypeBroadcast:
			set.Add(dir.ManagementUserIDs(ctx, directory.ExcludeAll)...)
		case model.RecipientTypeManagementUser:
			if rule.TargetID != nil && *rule.TargetID != "" {
				set.Add(*rule.TargetID)
			} else {
				set.Add(dir.ManagementUserIDs(ctx, directory.ExcludeAll)...)
			}
		case model.RecipientTypeDepartment:
			// A department rule without a target names nobody.
			if rule.TargetID == nil || *rule.TargetID == "" {
				continue
			}
			set.Add(resolveDept(*rule.TargetID)...)
		case model.RecipientTypeAssignedTechnicians:
			set.Add(dir.JobParticipantIDs(ctx, jobID, directory.ExcludeAll)...)
		case model.RecipientTypeNatural:
			// Handled by the keepNatural scan above.
		}
	}
}
