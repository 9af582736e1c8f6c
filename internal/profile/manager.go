package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/kalambet/cgs/internal/storage"
)

// ErrUnknownField is returned by SetField for a key outside Fields().
var ErrUnknownField = errors.New("unknown profile field")

// ProfileStore defines the storage operations the Manager needs.
// Implemented by storage.Store.
type ProfileStore interface {
	GetProfileByEmail(email string) (storage.UserProfile, error)
	SaveProfile(p storage.UserProfile) (storage.UserProfile, error)
}

// Manager reads and edits user profiles. Reads always go to the store so a
// recommendation never sees a stale skill list.
type Manager struct {
	store ProfileStore

	// serializes read-modify-write cycles
	mu sync.Mutex
}

func NewManager(store ProfileStore) *Manager {
	return &Manager{store: store}
}

// GetProfile returns the profile registered under email.
func (m *Manager) GetProfile(email string) (storage.UserProfile, error) {
	p, err := m.store.GetProfileByEmail(email)
	if err != nil {
		return storage.UserProfile{}, fmt.Errorf("loading profile %s: %w", email, err)
	}
	return p, nil
}

// Update applies patch to the profile under email and returns the result.
func (m *Manager) Update(email string, patch Patch) (storage.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, err := m.store.GetProfileByEmail(email)
	if err != nil {
		return storage.UserProfile{}, fmt.Errorf("loading profile %s: %w", email, err)
	}

	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&p.Name, patch.Name)
	set(&p.Interests, patch.Interests)
	set(&p.Role, patch.Role)
	set(&p.Certification, patch.Certification)
	set(&p.Achievements, patch.Achievements)
	set(&p.CareerGoal, patch.CareerGoal)
	if patch.Skills != nil {
		p.Skills = dedupe(*patch.Skills)
	}

	saved, err := m.store.SaveProfile(p)
	if err != nil {
		return storage.UserProfile{}, fmt.Errorf("saving profile %s: %w", email, err)
	}
	slog.Debug("profile updated", "email", email, "skills", len(saved.Skills))
	return saved, nil
}

// SetField sets a single field. For FieldSkills the value may be a []string,
// a JSON array, or a comma-separated list.
func (m *Manager) SetField(email, key string, value interface{}) error {
	var str string
	var list []string
	switch v := value.(type) {
	case string:
		str = v
	case []string:
		list = v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshalling value for key %q: %w", key, err)
		}
		str = string(b)
	}

	var patch Patch
	switch key {
	case FieldName:
		patch.Name = &str
	case FieldInterests:
		patch.Interests = &str
	case FieldRole:
		patch.Role = &str
	case FieldCertification:
		patch.Certification = &str
	case FieldAchievements:
		patch.Achievements = &str
	case FieldCareerGoal:
		patch.CareerGoal = &str
	case FieldSkills:
		if list == nil {
			list = parseSkillList(str)
		}
		patch.Skills = &list
	default:
		return fmt.Errorf("%w: %q (valid: %s)", ErrUnknownField, key, strings.Join(Fields(), ", "))
	}

	_, err := m.Update(email, patch)
	return err
}

// GetSummary returns a one-paragraph description of the profile.
func (m *Manager) GetSummary(email string) (string, error) {
	p, err := m.GetProfile(email)
	if err != nil {
		return "", fmt.Errorf("getting profile for summary: %w", err)
	}
	return summarize(p), nil
}

// maxSummaryChars keeps summaries short enough for a terminal line or an MCP
// tool result.
const maxSummaryChars = 2000

func summarize(p storage.UserProfile) string {
	var parts []string

	if p.Name != "" {
		parts = append(parts, fmt.Sprintf("%s.", p.Name))
	}
	if p.Role != "" {
		parts = append(parts, fmt.Sprintf("Role: %s.", p.Role))
	}
	if p.CareerGoal != "" {
		parts = append(parts, fmt.Sprintf("Career goal: %s.", p.CareerGoal))
	}
	if len(p.Skills) > 0 {
		parts = append(parts, fmt.Sprintf("Skills: %s.", strings.Join(p.Skills, ", ")))
	}
	if p.Interests != "" {
		parts = append(parts, fmt.Sprintf("Interests: %s.", p.Interests))
	}
	if p.Certification != "" {
		parts = append(parts, fmt.Sprintf("Certifications: %s.", p.Certification))
	}
	if p.Achievements != "" {
		parts = append(parts, fmt.Sprintf("Achievements: %s.", p.Achievements))
	}

	if len(parts) == 0 {
		return "User profile: not yet configured."
	}

	summary := strings.Join(parts, " ")
	if len(summary) > maxSummaryChars {
		// Ensure we don't split a multi-byte UTF-8 character.
		end := maxSummaryChars
		for end > 0 && !utf8.RuneStart(summary[end]) {
			end--
		}
		if idx := strings.LastIndex(summary[:end], " "); idx > 0 {
			summary = summary[:idx]
		} else {
			summary = summary[:end]
		}
	}
	return summary
}

// parseSkillList accepts a JSON array or a comma-separated list.
func parseSkillList(s string) []string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "[") {
		var arr []string
		if err := json.Unmarshal([]byte(s), &arr); err == nil {
			return arr
		}
	}
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}

// dedupe trims names and drops blanks and case-insensitive repeats, keeping
// the first spelling.
func dedupe(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]bool, len(skills))
	for _, sk := range skills {
		sk = strings.TrimSpace(sk)
		key := strings.ToLower(sk)
		if sk == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, sk)
	}
	return out
}
