// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package forms

import (
	"sort"

	"github.com/danielhkuo/feedbackform/models"
)

// StageLabels are the display names of each stage.
var StageLabels = map[string]string{
	models.EmailTypeEersteMail:  "Eerste mail",
	models.EmailTypeOpvolgmail1: "Opvolgmail 1",
	models.EmailTypeOpvolgmail2: "Opvolgmail 2",
}

// GroupVariants buckets variants by stage in fixed stage order. Empty
// stages are left out; each bucket is ordered by sort_order.
func GroupVariants(variants []models.EmailVariant) []models.VariantGroup {
	byType := make(map[string][]models.EmailVariant)
	for _, v := range variants {
		byType[v.EmailType] = append(byType[v.EmailType], v)
	}

	groups := []models.VariantGroup{}
	for _, et := range models.EmailTypeOrder {
		vs := byType[et]
		if len(vs) == 0 {
			continue
		}
		sort.SliceStable(vs, func(i, j int) bool { return vs[i].SortOrder < vs[j].SortOrder })
		groups = append(groups, models.VariantGroup{
			EmailType: et,
			Label:     StageLabels[et],
			Variants:  vs,
		})
	}
	return groups
}

// buildVariants flattens the enabled stages of a request into rows.
// sort_order runs across stages from 0; variant_number restarts at 1.
func buildVariants(req *models.CreateFormRequest) []models.EmailVariant {
	stages := []struct {
		emailType string
		enabled   bool
		inputs    []models.VariantInput
	}{
		{models.EmailTypeEersteMail, true, req.EersteMailVariants},
		{models.EmailTypeOpvolgmail1, req.Opvolgmail1Enabled, req.Opvolgmail1Variants},
		{models.EmailTypeOpvolgmail2, req.Opvolgmail2Enabled, req.Opvolgmail2Variants},
	}

	var out []models.EmailVariant
	sortOrder := 0
	for _, st := range stages {
		if !st.enabled {
			continue
		}
		for i, in := range st.inputs {
			out = append(out, models.EmailVariant{
				EmailType:     st.emailType,
				VariantNumber: i + 1,
				SubjectLine:   in.Subject,
				EmailBody:     in.Body,
				SortOrder:     sortOrder,
			})
			sortOrder++
		}
	}
	return out
}
