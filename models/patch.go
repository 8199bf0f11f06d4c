package models

// Patch structs describe partial updates. Nil fields are left untouched, so a
// PATCH body can carry any subset of the patchable fields. Dates are not
// patchable; an entry moves between days by delete and re-create.

type HumorPatch struct {
	Value       *int    `json:"value"`
	Description *string `json:"description"`
	HealthBased *bool   `json:"health_based"`
}

// Changes returns the column updates this patch carries.
func (p HumorPatch) Changes() map[string]interface{} {
	changes := map[string]interface{}{}
	if p.Value != nil {
		changes["value"] = *p.Value
	}
	if p.Description != nil {
		changes["description"] = *p.Description
	}
	if p.HealthBased != nil {
		changes["health_based"] = *p.HealthBased
	}
	return changes
}

type WaterPatch struct {
	Milliliters *int    `json:"milliliters"`
	Description *string `json:"description"`
	Pee         *bool   `json:"pee"`
}

func (p WaterPatch) Changes() map[string]interface{} {
	changes := map[string]interface{}{}
	if p.Milliliters != nil {
		changes["milliliters"] = *p.Milliliters
	}
	if p.Description != nil {
		changes["description"] = *p.Description
	}
	if p.Pee != nil {
		changes["pee"] = *p.Pee
	}
	return changes
}

type ExercisePatch struct {
	Minutes     *int    `json:"minutes"`
	Description *string `json:"description"`
}

func (p ExercisePatch) Changes() map[string]interface{} {
	changes := map[string]interface{}{}
	if p.Minutes != nil {
		changes["minutes"] = *p.Minutes
	}
	if p.Description != nil {
		changes["description"] = *p.Description
	}
	return changes
}

type FoodPatch struct {
	Value       *int    `json:"value"`
	Description *string `json:"description"`
}

func (p FoodPatch) Changes() map[string]interface{} {
	changes := map[string]interface{}{}
	if p.Value != nil {
		changes["value"] = *p.Value
	}
	if p.Description != nil {
		changes["description"] = *p.Description
	}
	return changes
}

type SleepPatch struct {
	Value       *int    `json:"value"`
	Minutes     *int    `json:"minutes"`
	Description *string `json:"description"`
}

func (p SleepPatch) Changes() map[string]interface{} {
	changes := map[string]interface{}{}
	if p.Value != nil {
		changes["value"] = *p.Value
	}
	if p.Minutes != nil {
		changes["minutes"] = *p.Minutes
	}
	if p.Description != nil {
		changes["description"] = *p.Description
	}
	return changes
}
