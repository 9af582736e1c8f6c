package storage

import (
	"database/sql"
	"errors"
	"fmt"
)

const insertProfileSkill = `INSERT INTO profile_skills (profile_id, skill) VALUES (?, ?)`

// CreateUser stores a new account and an empty profile for it. Returns
// ErrConflict if the email is already registered.
func (s *Store) CreateUser(u User) (User, error) {
	if u.Role == "" {
		u.Role = RoleStudent
	}
	now := s.timestamp()

	tx, err := s.db.Begin()
	if err != nil {
		return User{}, fmt.Errorf("beginning user insert: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM users WHERE email = ?`, u.Email).Scan(&exists); err != nil {
		return User{}, fmt.Errorf("checking email: %w", err)
	}
	if exists > 0 {
		return User{}, ErrConflict
	}

	res, err := tx.Exec(`
		INSERT INTO users (name, email, password_hash, dob, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		u.Name, u.Email, u.PasswordHash, u.DOB, u.Role, now,
	)
	if err != nil {
		return User{}, fmt.Errorf("inserting user: %w", err)
	}
	if u.ID, err = res.LastInsertId(); err != nil {
		return User{}, err
	}

	if _, err := tx.Exec(`
		INSERT INTO profiles (email, name, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(email) DO NOTHING`,
		u.Email, u.Name, now,
	); err != nil {
		return User{}, fmt.Errorf("inserting profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return User{}, fmt.Errorf("committing user insert: %w", err)
	}

	u.CreatedAt, _ = parseTime("created_at", now)
	return u, nil
}

func (s *Store) GetUserByEmail(email string) (User, error) {
	var u User
	var createdAt string
	err := s.db.QueryRow(`
		SELECT id, name, email, password_hash, dob, role, created_at
		FROM users WHERE email = ?`, email,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.DOB, &u.Role, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	if u.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return User{}, err
	}
	return u, nil
}

// SetUserCredentials updates password hash and role of an existing account.
func (s *Store) SetUserCredentials(email, passwordHash, role string) error {
	res, err := s.db.Exec(`UPDATE users SET password_hash = ?, role = ? WHERE email = ?`, passwordHash, role, email)
	if err != nil {
		return err
	}
	return affectedOne(res)
}

// --- Profiles ---

func (s *Store) GetProfileByEmail(email string) (UserProfile, error) {
	var p UserProfile
	var updatedAt string
	err := s.db.QueryRow(`
		SELECT id, email, name, interests, role, certification, achievements, career_goal, updated_at
		FROM profiles WHERE email = ?`, email,
	).Scan(&p.ID, &p.Email, &p.Name, &p.Interests, &p.Role, &p.Certification, &p.Achievements, &p.CareerGoal, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return UserProfile{}, ErrNotFound
	}
	if err != nil {
		return UserProfile{}, err
	}
	if p.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return UserProfile{}, err
	}

	rows, err := s.db.Query(`SELECT skill FROM profile_skills WHERE profile_id = ? ORDER BY id ASC`, p.ID)
	if err != nil {
		return UserProfile{}, err
	}
	defer rows.Close()

	p.Skills = []string{}
	for rows.Next() {
		var sk string
		if err := rows.Scan(&sk); err != nil {
			return UserProfile{}, err
		}
		p.Skills = append(p.Skills, sk)
	}
	return p, rows.Err()
}

// SaveProfile writes all profile fields for p.Email, creating the profile if
// needed, and replaces the profile's skills with p.Skills.
func (s *Store) SaveProfile(p UserProfile) (UserProfile, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return UserProfile{}, fmt.Errorf("beginning profile save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT INTO profiles (email, name, interests, role, certification, achievements, career_goal, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(email) DO UPDATE SET
			name = excluded.name,
			interests = excluded.interests,
			role = excluded.role,
			certification = excluded.certification,
			achievements = excluded.achievements,
			career_goal = excluded.career_goal,
			updated_at = excluded.updated_at`,
		p.Email, p.Name, p.Interests, p.Role, p.Certification, p.Achievements, p.CareerGoal, s.timestamp(),
	); err != nil {
		return UserProfile{}, fmt.Errorf("upserting profile %s: %w", p.Email, err)
	}

	var id int64
	if err := tx.QueryRow(`SELECT id FROM profiles WHERE email = ?`, p.Email).Scan(&id); err != nil {
		return UserProfile{}, fmt.Errorf("resolving profile id: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM profile_skills WHERE profile_id = ?`, id); err != nil {
		return UserProfile{}, fmt.Errorf("clearing profile skills: %w", err)
	}
	if err := insertSkills(tx, insertProfileSkill, id, p.Skills); err != nil {
		return UserProfile{}, err
	}

	if err := tx.Commit(); err != nil {
		return UserProfile{}, fmt.Errorf("committing profile save: %w", err)
	}
	return s.GetProfileByEmail(p.Email)
}
