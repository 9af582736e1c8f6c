package profile

// Editable profile fields, as accepted by SetField and `cgs profile set`.
const (
	FieldName          = "name"
	FieldInterests     = "interests"
	FieldRole          = "role"
	FieldCertification = "certification"
	FieldAchievements  = "achievements"
	FieldCareerGoal    = "career_goal"
	FieldSkills        = "skills"
)

// Fields lists the editable field names in display order.
func Fields() []string {
	return []string{FieldName, FieldInterests, FieldRole, FieldCertification, FieldAchievements, FieldCareerGoal, FieldSkills}
}

// Patch is a partial profile update. Nil fields are left unchanged; a non-nil
// Skills replaces the whole skill list.
type Patch struct {
	Name          *string   `json:"name" validate:"omitempty,max=120"`
	Interests     *string   `json:"interests" validate:"omitempty,max=1000"`
	Role          *string   `json:"role" validate:"omitempty,max=120"`
	Certification *string   `json:"certification" validate:"omitempty,max=1000"`
	Achievements  *string   `json:"achievements" validate:"omitempty,max=2000"`
	CareerGoal    *string   `json:"careerGoal" validate:"omitempty,max=200"`
	Skills        *[]string `json:"skills" validate:"omitempty,max=100,dive,max=100"`
}
